package controllers

import (
	"errors"
	"strings"

	"learnhub/database"
	"learnhub/middleware"
	courseModels "learnhub/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// The find helpers return nil and the already written response when the
// lookup fails, the same contract as middleware.CurrentUser.

func findCourse(c *fiber.Ctx, id uint) (*courseModels.Course, error) {
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).First(&course).Error; err != nil {
		return nil, lookupFailed(c, err, "Course not found!")
	}
	return &course, nil
}

// findActiveCourse only returns published ACTIVE courses
func findActiveCourse(c *fiber.Ctx, id uint) (*courseModels.Course, error) {
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ? AND is_published = ?",
		id, false, courseModels.CourseStatusActive, true).First(&course).Error; err != nil {
		return nil, lookupFailed(c, err, "Course not found or not active!")
	}
	return &course, nil
}

func findModule(c *fiber.Ctx, courseID, moduleID uint) (*courseModels.Module, error) {
	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).
		First(&module).Error; err != nil {
		return nil, lookupFailed(c, err, "Module not found!")
	}
	return &module, nil
}

func findContent(c *fiber.Ctx, id uint) (*courseModels.CourseContent, error) {
	var content courseModels.CourseContent
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).First(&content).Error; err != nil {
		return nil, lookupFailed(c, err, "Content not found!")
	}
	return &content, nil
}

func findPublishedContent(c *fiber.Ctx, id uint) (*courseModels.CourseContent, error) {
	var content courseModels.CourseContent
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", id, false, true).
		First(&content).Error; err != nil {
		return nil, lookupFailed(c, err, "Content not found!")
	}
	return &content, nil
}

// findEnrollment answers 403 when the user is not enrolled
func findEnrollment(c *fiber.Ctx, userID, courseID uint) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
		}
		return nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check enrollment!", nil)
	}
	return &enrollment, nil
}

func lookupFailed(c *fiber.Ctx, err error, notFound string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, notFound, nil)
	}
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Database error!", nil)
}

func likePattern(search string) string {
	return "%" + strings.ToLower(search) + "%"
}

var errNotPending = errors.New("certificate request is not pending")
