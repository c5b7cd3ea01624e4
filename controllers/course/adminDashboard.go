package controllers

import (
	"errors"
	"time"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/services/events"
	"learnhub/services/quiz"
	"learnhub/utils"
	"learnhub/validators"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func usersByID(ids []uint) map[uint]models.User {
	users := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return users
	}
	var list []models.User
	database.Database.Db.Select("id", "name", "email").Where("id IN ?", ids).Find(&list)
	for _, u := range list {
		users[u.ID] = u
	}
	return users
}

// EnrollmentWithUser is an enrollment with the learner's contact details
type EnrollmentWithUser struct {
	courseModels.Enrollment
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// AdminGetCourseEnrollments gets all enrolled students for a course
func AdminGetCourseEnrollments(c *fiber.Ctx) error {
	course, err := findCourse(c, validators.ID(c, "id"))
	if course == nil {
		return err
	}

	page := validators.PageOf(c)

	db := database.Database.Db.Model(&courseModels.Enrollment{}).Where("course_id = ? AND is_deleted = ?", course.ID, false)
	if reqData, ok := c.Locals("validatedEnrollmentList").(*courseValidator.EnrollmentListQuery); ok && reqData.Status != "" {
		db = db.Where("status = ?", reqData.Status)
	}

	var total int64
	db.Count(&total)

	var enrollments []courseModels.Enrollment
	if err := db.Offset(page.Offset()).Limit(page.Limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	ids := make([]uint, len(enrollments))
	for i, e := range enrollments {
		ids[i] = e.UserID
	}
	users := usersByID(ids)

	result := make([]EnrollmentWithUser, len(enrollments))
	for i, e := range enrollments {
		result[i] = EnrollmentWithUser{
			Enrollment: e,
			UserName:   users[e.UserID].Name,
			UserEmail:  users[e.UserID].Email,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"pagination":  page.Meta(total),
	})
}

// AdminGetCompletedStudents gets students who completed a course
func AdminGetCompletedStudents(c *fiber.Ctx) error {
	course, err := findCourse(c, validators.ID(c, "id"))
	if course == nil {
		return err
	}

	type CompletedStudent struct {
		UserID      uint       `json:"user_id"`
		UserName    string     `json:"user_name"`
		UserEmail   string     `json:"user_email"`
		Progress    float64    `json:"progress"`
		CompletedAt *time.Time `json:"completed_at"`
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("course_id = ? AND status = ? AND is_deleted = ?", course.ID, courseModels.EnrollmentCompleted, false).
		Order("completed_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch completed students!", nil)
	}

	ids := make([]uint, len(enrollments))
	for i, e := range enrollments {
		ids[i] = e.UserID
	}
	users := usersByID(ids)

	result := make([]CompletedStudent, len(enrollments))
	for i, e := range enrollments {
		result[i] = CompletedStudent{
			UserID:      e.UserID,
			UserName:    users[e.UserID].Name,
			UserEmail:   users[e.UserID].Email,
			Progress:    e.Progress,
			CompletedAt: e.CompletedAt,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completed students fetched successfully!", fiber.Map{
		"completed_students": result,
		"total":              len(result),
	})
}

// AdminGetStudentProgress gets detailed progress for a student
func AdminGetStudentProgress(c *fiber.Ctx) error {
	var student models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", validators.ID(c, "user_id"), false).First(&student).Error; err != nil {
		return lookupFailed(c, err, "Student not found!")
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", student.ID, false).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type CourseProgress struct {
		CourseID          uint         `json:"course_id"`
		CourseName        string       `json:"course_name"`
		Status            string       `json:"status"`
		Progress          float64      `json:"progress"`
		CompletedContents int          `json:"completed_contents"`
		TotalContents     int          `json:"total_contents"`
		EnrolledAt        time.Time    `json:"enrolled_at"`
		CompletedAt       *time.Time   `json:"completed_at"`
		Quiz              quiz.Summary `json:"quiz"`
	}

	var attempts []courseModels.MCQAttempt
	database.Database.Db.Where("user_id = ? AND is_deleted = ?", student.ID, false).Find(&attempts)

	overall := make([]quiz.Attempt, len(attempts))
	perCourse := make(map[uint][]quiz.Attempt)
	for i, a := range attempts {
		overall[i] = quiz.Attempt{Score: a.Score, MaxScore: a.MaxScore, IsCorrect: a.IsCorrect}
		perCourse[a.CourseID] = append(perCourse[a.CourseID], overall[i])
	}

	courseProgress := make([]CourseProgress, len(enrollments))
	for i, e := range enrollments {
		var course courseModels.Course
		database.Database.Db.Select("id", "title").Where("id = ?", e.CourseID).First(&course)
		courseProgress[i] = CourseProgress{
			CourseID:          e.CourseID,
			CourseName:        course.Title,
			Status:            e.Status,
			Progress:          e.Progress,
			CompletedContents: e.CompletedContents,
			TotalContents:     e.TotalContents,
			EnrolledAt:        e.CreatedAt,
			CompletedAt:       e.CompletedAt,
			Quiz:              quiz.Summarize(perCourse[e.CourseID]),
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student progress fetched successfully!", fiber.Map{
		"student": fiber.Map{
			"id":    student.ID,
			"name":  student.Name,
			"email": student.Email,
		},
		"course_progress": courseProgress,
		"mcq_summary":     quiz.Summarize(overall),
	})
}

// ============ Certificates ============

// CertificateRequestWithDetails is a request with learner and course names
type CertificateRequestWithDetails struct {
	courseModels.CertificateRequest
	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
	CourseTitle string `json:"course_title"`
}

// AdminGetPendingCertificates gets pending certificate requests
func AdminGetPendingCertificates(c *fiber.Ctx) error {
	page := validators.PageOf(c)

	db := database.Database.Db.Model(&courseModels.CertificateRequest{}).
		Where("status = ? AND is_deleted = ?", courseModels.CertificatePending, false)

	var total int64
	db.Count(&total)

	var requests []courseModels.CertificateRequest
	if err := db.Offset(page.Offset()).Limit(page.Limit).Order("requested_at asc").Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch requests!", nil)
	}

	ids := make([]uint, len(requests))
	for i, r := range requests {
		ids[i] = r.UserID
	}
	users := usersByID(ids)

	result := make([]CertificateRequestWithDetails, len(requests))
	for i, r := range requests {
		var course courseModels.Course
		database.Database.Db.Select("id", "title").Where("id = ?", r.CourseID).First(&course)
		result[i] = CertificateRequestWithDetails{
			CertificateRequest: r,
			UserName:           users[r.UserID].Name,
			UserEmail:          users[r.UserID].Email,
			CourseTitle:        course.Title,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending certificates fetched successfully!", fiber.Map{
		"requests":   result,
		"pagination": page.Meta(total),
	})
}

// AdminGetIssuedCertificates gets issued certificates
func AdminGetIssuedCertificates(c *fiber.Ctx) error {
	page := validators.PageOf(c)

	db := database.Database.Db.Model(&courseModels.Certificate{}).Where("is_deleted = ?", false)

	var total int64
	db.Count(&total)

	var certificates []courseModels.Certificate
	if err := db.Offset(page.Offset()).Limit(page.Limit).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	ids := make([]uint, len(certificates))
	for i, cert := range certificates {
		ids[i] = cert.UserID
	}
	users := usersByID(ids)

	result := make([]CertificateWithCourse, len(certificates))
	for i, cert := range certificates {
		var course courseModels.Course
		database.Database.Db.Select("id", "title").Where("id = ?", cert.CourseID).First(&course)
		result[i] = CertificateWithCourse{Certificate: cert, CourseTitle: course.Title, UserName: users[cert.UserID].Name}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Issued certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"pagination":   page.Meta(total),
	})
}

func findPendingRequest(c *fiber.Ctx) (*courseModels.CertificateRequest, error) {
	var request courseModels.CertificateRequest
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", validators.ID(c, "request_id"), false).First(&request).Error; err != nil {
		return nil, lookupFailed(c, err, "Certificate request not found!")
	}
	if request.Status != courseModels.CertificatePending {
		return nil, middleware.JsonResponse(c, fiber.StatusConflict, false, "Request is not pending!", nil)
	}
	return &request, nil
}

// AdminApproveCertificate approves a request and issues the certificate
func AdminApproveCertificate(c *fiber.Ctx) error {
	admin, err := middleware.CurrentUser(c)
	if admin == nil {
		return err
	}

	request, err := findPendingRequest(c)
	if request == nil {
		return err
	}

	now := time.Now()
	certificate := courseModels.Certificate{
		UserID:            request.UserID,
		CourseID:          request.CourseID,
		CertificateNumber: utils.GenerateCertificateNumber(),
		IssuedAt:          now,
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		// conditional on PENDING so two approvals cannot both issue
		result := tx.Model(&courseModels.CertificateRequest{}).
			Where("id = ? AND status = ?", request.ID, courseModels.CertificatePending).
			Updates(map[string]interface{}{
				"status":      courseModels.CertificateApproved,
				"approved_at": now,
				"approved_by": admin.ID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errNotPending
		}
		return tx.Create(&certificate).Error
	})
	if errors.Is(err, errNotPending) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Request is not pending!", nil)
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to approve request!", nil)
	}

	var learner models.User
	var course courseModels.Course
	database.Database.Db.Where("id = ?", request.UserID).First(&learner)
	database.Database.Db.Where("id = ?", request.CourseID).First(&course)

	utils.SendCertificateIssuedEmail(learner.Email, learner.Name, course.Title, certificate.CertificateNumber)
	utils.Broadcast(events.CertificateIssued, "certificate", certificate.ID, certificate)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate approved and generated successfully!", certificate)
}

// AdminRejectCertificate rejects a certificate request
func AdminRejectCertificate(c *fiber.Ctx) error {
	request, err := findPendingRequest(c)
	if request == nil {
		return err
	}

	reqData, ok := c.Locals("validatedRejection").(*courseValidator.RejectCertificateInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	request.Status = courseModels.CertificateRejected
	request.RejectionReason = reqData.Reason

	if err := database.Database.Db.Save(request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reject request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate request rejected!", request)
}
