package platformController

import (
	"context"
	"errors"
	"log"
	"time"

	"learnhub/database"
	"learnhub/middleware"
	courseModels "learnhub/models/course"
	"learnhub/services/assistant"
	"learnhub/validators"
	platformValidator "learnhub/validators/platform"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const assistantTimeout = 60 * time.Second

func contextWithTimeout(c *fiber.Ctx, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), d)
}

// enrolled answers 403 unless the user has an active enrollment in the course
func enrolled(c *fiber.Ctx, userID, courseID uint) (bool, error) {
	var count int64
	if err := database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		Count(&count).Error; err != nil {
		return false, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check enrollment!", nil)
	}
	if count == 0 {
		return false, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}
	return true, nil
}

func assistantFailed(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, assistant.ErrDisabled):
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "AI assistant is not available!", nil)
	case errors.Is(err, assistant.ErrRateLimited):
		return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, "Too many AI requests, try again shortly!", nil)
	default:
		log.Printf("[ASSISTANT] request failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "AI assistant could not answer!", nil)
	}
}

// CourseSummary writes an AI study summary of a course for an enrolled learner
func CourseSummary(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	if !assistant.Default.Enabled() {
		return assistantFailed(c, assistant.ErrDisabled)
	}

	db := database.Database.Db
	courseID := validators.ID(c, "id")

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Database error!", nil)
	}
	if ok, err := enrolled(c, user.ID, course.ID); !ok {
		return err
	}

	var modules []courseModels.Module
	db.Where("course_id = ? AND is_deleted = ?", course.ID, false).Order("order_index asc").Find(&modules)

	var contents []courseModels.CourseContent
	db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", course.ID, false, true).
		Order("day asc, order_index asc").Find(&contents)

	ctx, cancel := contextWithTimeout(c, assistantTimeout)
	defer cancel()

	summary, err := assistant.Default.SummarizeCourse(ctx, course, modules, contents)
	if err != nil {
		return assistantFailed(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course summary generated successfully!", fiber.Map{
		"course_id": course.ID,
		"summary":   summary,
	})
}

// ExplainContent explains a published lesson to an enrolled learner
func ExplainContent(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	reqData, ok := c.Locals("validatedExplain").(*platformValidator.ExplainInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if !assistant.Default.Enabled() {
		return assistantFailed(c, assistant.ErrDisabled)
	}

	var content courseModels.CourseContent
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?",
		validators.ID(c, "content_id"), false, true).First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Database error!", nil)
	}
	if ok, err := enrolled(c, user.ID, content.CourseID); !ok {
		return err
	}

	ctx, cancel := contextWithTimeout(c, assistantTimeout)
	defer cancel()

	explanation, err := assistant.Default.ExplainContent(ctx, content, reqData.Question)
	if err != nil {
		return assistantFailed(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Explanation generated successfully!", fiber.Map{
		"content_id":  content.ID,
		"explanation": explanation,
	})
}
