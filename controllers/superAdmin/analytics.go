package superAdminController

import (
	"errors"
	"time"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/models/billing"
	courseModels "learnhub/models/course"
	"learnhub/utils"
	"learnhub/validators"
	platformValidator "learnhub/validators/platform"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const recentEnrollmentsLimit = 10

// revenueBetween sums completed payments paid in [from, to)
func revenueBetween(db *gorm.DB, from, to time.Time) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := db.Model(&billing.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("status = ? AND is_deleted = ? AND paid_at >= ? AND paid_at < ?", billing.PaymentCompleted, false, from, to).
		Scan(&row).Error
	return row.Total.Round(2), err
}

type RecentEnrollment struct {
	EnrollmentID uint      `json:"enrollment_id"`
	UserID       uint      `json:"user_id"`
	UserName     string    `json:"user_name"`
	CourseID     uint      `json:"course_id"`
	CourseTitle  string    `json:"course_title"`
	Status       string    `json:"status"`
	EnrolledAt   time.Time `json:"enrolled_at"`
}

// DashboardStats returns platform totals, revenue windows and recent enrollments
func DashboardStats(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalUsers, totalCourses, publishedCourses, totalEnrollments, completedEnrollments, pendingCertificates int64
	db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&totalUsers)
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)
	db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true).Count(&publishedCourses)
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ?", false).Count(&totalEnrollments)
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND status = ?", false, courseModels.EnrollmentCompleted).Count(&completedEnrollments)
	db.Model(&courseModels.CertificateRequest{}).Where("is_deleted = ? AND status = ?", false, courseModels.CertificatePending).Count(&pendingCertificates)

	today := now.BeginningOfDay()
	month := now.BeginningOfMonth()
	revenueToday, err := revenueBetween(db, today, today.AddDate(0, 0, 1))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute revenue!", nil)
	}
	revenueMonth, err := revenueBetween(db, month, now.EndOfMonth().Add(time.Nanosecond))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute revenue!", nil)
	}

	var recent []RecentEnrollment
	if err := db.Table("enrollments").
		Select("enrollments.id AS enrollment_id, enrollments.user_id, users.name AS user_name, enrollments.course_id, courses.title AS course_title, enrollments.status, enrollments.created_at AS enrolled_at").
		Joins("JOIN users ON users.id = enrollments.user_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.is_deleted = ? AND enrollments.deleted_at IS NULL", false).
		Order("enrollments.created_at desc, enrollments.id desc").
		Limit(recentEnrollmentsLimit).
		Scan(&recent).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch recent enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"total_users":          totalUsers,
		"total_courses":        totalCourses,
		"published_courses":    publishedCourses,
		"total_enrollments":    totalEnrollments,
		"completed_students":   completedEnrollments,
		"completion_rate":      utils.Percentage(completedEnrollments, totalEnrollments),
		"pending_certificates": pendingCertificates,
		"revenue_today":        revenueToday,
		"revenue_this_month":   revenueMonth,
		"recent_enrollments":   recent,
	})
}

// CourseAnalytics returns learner and revenue figures of one course
func CourseAnalytics(c *fiber.Ctx) error {
	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", validators.ID(c, "id"), false).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Database error!", nil)
	}

	enrollments := db.Model(&courseModels.Enrollment{}).Where("course_id = ? AND is_deleted = ?", course.ID, false)

	var enrolled, completed int64
	enrollments.Session(&gorm.Session{}).Count(&enrolled)
	enrollments.Session(&gorm.Session{}).Where("status = ?", courseModels.EnrollmentCompleted).Count(&completed)

	var progress struct{ Avg float64 }
	enrollments.Session(&gorm.Session{}).Select("COALESCE(AVG(progress), 0) AS avg").Scan(&progress)

	var attempts, correct int64
	db.Model(&courseModels.MCQAttempt{}).Where("course_id = ? AND is_deleted = ?", course.ID, false).Count(&attempts)
	db.Model(&courseModels.MCQAttempt{}).Where("course_id = ? AND is_deleted = ? AND is_correct = ?", course.ID, false, true).Count(&correct)

	var revenue struct{ Total decimal.Decimal }
	if err := db.Model(&billing.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("course_id = ? AND status = ? AND is_deleted = ?", course.ID, billing.PaymentCompleted, false).
		Scan(&revenue).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute revenue!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course analytics fetched successfully!", fiber.Map{
		"course_id":        course.ID,
		"title":            course.Title,
		"enrollments":      enrolled,
		"completions":      completed,
		"completion_rate":  utils.Percentage(completed, enrolled),
		"average_progress": utils.Round2(progress.Avg),
		"average_rating":   course.Rating,
		"review_count":     course.ReviewCount,
		"mcq_attempts":     attempts,
		"mcq_accuracy":     utils.Percentage(correct, attempts),
		"revenue":          revenue.Total.Round(2),
	})
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// dailyBuckets counts timestamps per calendar day over the days ending today
func dailyBuckets(stamps []time.Time, today time.Time, days int) []DailyCount {
	start := today.AddDate(0, 0, -(days - 1))
	counts := make([]DailyCount, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format("2006-01-02")
		counts[i] = DailyCount{Date: key}
		index[key] = i
	}
	for _, ts := range stamps {
		if i, ok := index[now.With(ts.In(today.Location())).BeginningOfDay().Format("2006-01-02")]; ok {
			counts[i].Count++
		}
	}
	return counts
}

// DailyEnrollments counts new enrollments per day for the last N days
func DailyEnrollments(c *fiber.Ctx) error {
	days := platformValidator.DefaultDays
	if reqData, ok := c.Locals("validatedDaily").(*platformValidator.DailyQuery); ok {
		days = reqData.Days
	}

	today := now.BeginningOfDay()
	start := today.AddDate(0, 0, -(days - 1))

	var stamps []time.Time
	if err := database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("is_deleted = ? AND created_at >= ?", false, start).
		Pluck("created_at", &stamps).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Daily enrollments fetched successfully!", fiber.Map{
		"days":  days,
		"daily": dailyBuckets(stamps, today, days),
	})
}
