package controllers

import (
	"time"

	"learnhub/database"
	"learnhub/middleware"
	courseModels "learnhub/models/course"
	"learnhub/services/events"
	"learnhub/utils"
	"learnhub/validators"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse joins a free course. Paid courses go through checkout.
func EnrollInCourse(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	course, err := findActiveCourse(c, validators.ID(c, "id"))
	if course == nil {
		return err
	}

	var existing int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, course.ID, false).Count(&existing)
	if existing > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	}

	if !course.IsFree() {
		return middleware.JsonResponse(c, fiber.StatusPaymentRequired, false, "This course requires payment! Please use checkout.", fiber.Map{
			"course_id": course.ID,
			"price":     course.Price,
		})
	}

	now := time.Now()
	enrollment := courseModels.Enrollment{
		UserID:         user.ID,
		CourseID:       course.ID,
		Status:         courseModels.EnrollmentEnrolled,
		LastActivityAt: &now,
	}
	if err := database.Database.Db.Create(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)
	utils.Broadcast(events.EnrollmentCreated, "enrollment", enrollment.ID, enrollment)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", enrollment)
}

// EnrollmentWithCourse is an enrollment with the course summary
type EnrollmentWithCourse struct {
	courseModels.Enrollment
	CourseTitle  string `json:"course_title"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func withCourses(enrollments []courseModels.Enrollment) []EnrollmentWithCourse {
	ids := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.CourseID)
	}

	courses := map[uint]courseModels.Course{}
	if len(ids) > 0 {
		var list []courseModels.Course
		database.Database.Db.Where("id IN ?", ids).Find(&list)
		for _, course := range list {
			courses[course.ID] = course
		}
	}

	result := make([]EnrollmentWithCourse, len(enrollments))
	for i, e := range enrollments {
		result[i] = EnrollmentWithCourse{
			Enrollment:   e,
			CourseTitle:  courses[e.CourseID].Title,
			ThumbnailURL: courses[e.CourseID].ThumbnailURL,
		}
	}
	return result
}

// GetEnrollments lists the caller's enrollments
func GetEnrollments(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	page := validators.PageOf(c)

	db := database.Database.Db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND is_deleted = ?", user.ID, false)
	if reqData, ok := c.Locals("validatedEnrollmentList").(*courseValidator.EnrollmentListQuery); ok && reqData.Status != "" {
		db = db.Where("status = ?", reqData.Status)
	}

	var total int64
	db.Count(&total)

	var enrollments []courseModels.Enrollment
	if err := db.Offset(page.Offset()).Limit(page.Limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": withCourses(enrollments),
		"pagination":  page.Meta(total),
	})
}
