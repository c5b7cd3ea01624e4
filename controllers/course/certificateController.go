package controllers

import (
	"strings"
	"time"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// RequestCertificate requests a certificate for a completed course
func RequestCertificate(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	courseID := validators.ID(c, "id")
	enrollment, err := findEnrollment(c, user.ID, courseID)
	if enrollment == nil {
		return err
	}

	if enrollment.Status != courseModels.EnrollmentCompleted {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please complete the course before requesting a certificate!", nil)
	}

	db := database.Database.Db

	var existingCert courseModels.Certificate
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, courseID, false).First(&existingCert).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate already issued!", fiber.Map{
			"certificate": existingCert,
		})
	}

	// a rejected request may be resubmitted
	var open []courseModels.CertificateRequest
	db.Where("user_id = ? AND course_id = ? AND is_deleted = ? AND status IN ?", user.ID, courseID, false,
		[]string{courseModels.CertificatePending, courseModels.CertificateApproved}).Find(&open)
	for _, r := range open {
		if r.Status == courseModels.CertificatePending {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate request already pending!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate already issued!", nil)
	}

	request := courseModels.CertificateRequest{
		UserID:       user.ID,
		CourseID:     courseID,
		EnrollmentID: enrollment.ID,
		Status:       courseModels.CertificatePending,
		RequestedAt:  time.Now(),
	}

	if err := db.Create(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit certificate request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate request submitted successfully!", request)
}

// CertificateWithCourse is a certificate with the course title
type CertificateWithCourse struct {
	courseModels.Certificate
	CourseTitle string `json:"course_title"`
	UserName    string `json:"user_name,omitempty"`
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", user.ID, false).
		Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]CertificateWithCourse, len(certificates))
	for i, cert := range certificates {
		var course courseModels.Course
		database.Database.Db.Select("id", "title").Where("id = ?", cert.CourseID).First(&course)
		result[i] = CertificateWithCourse{Certificate: cert, CourseTitle: course.Title}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", result)
}

// VerifyCertificate looks a certificate up by its public number
func VerifyCertificate(c *fiber.Ctx) error {
	number := strings.ToUpper(strings.TrimSpace(c.Params("number")))
	if number == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate number is required!", nil)
	}

	var cert courseModels.Certificate
	if err := database.Database.Db.Where("certificate_number = ? AND is_deleted = ?", number, false).First(&cert).Error; err != nil {
		return lookupFailed(c, err, "Certificate not found!")
	}

	var course courseModels.Course
	var holder models.User
	database.Database.Db.Select("id", "title").Where("id = ?", cert.CourseID).First(&course)
	database.Database.Db.Select("id", "name").Where("id = ?", cert.UserID).First(&holder)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid!", CertificateWithCourse{
		Certificate: cert,
		CourseTitle: course.Title,
		UserName:    holder.Name,
	})
}
