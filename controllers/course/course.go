package controllers

import (
	"learnhub/database"
	"learnhub/middleware"
	courseModels "learnhub/models/course"
	"learnhub/validators"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// GetAllCourses lists the published catalog
func GetAllCourses(c *fiber.Ctx) error {
	page := validators.PageOf(c)

	db := database.Database.Db.Model(&courseModels.Course{}).
		Where("is_deleted = ? AND status = ? AND is_published = ?", false, courseModels.CourseStatusActive, true)
	if reqData, ok := c.Locals("validatedCourseList").(*courseValidator.CourseListQuery); ok && reqData.Search != "" {
		db = db.Where("LOWER(title) LIKE ?", likePattern(reqData.Search))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	var courses []courseModels.Course
	if err := db.Offset(page.Offset()).Limit(page.Limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses":    courses,
		"pagination": page.Meta(total),
	})
}
