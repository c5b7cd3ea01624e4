package controllers

import (
	"learnhub/database"
	"learnhub/middleware"
	courseModels "learnhub/models/course"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// GetCourseDetails gets course details with modules for users
func GetCourseDetails(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	course, err := findActiveCourse(c, validators.ID(c, "id"))
	if course == nil {
		return err
	}

	var modules []courseModels.Module
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false).Order("order_index asc").Find(&modules)

	var enrollment courseModels.Enrollment
	isEnrolled := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, course.ID, false).
		First(&enrollment).Error == nil

	data := fiber.Map{
		"course":      course,
		"modules":     modules,
		"is_enrolled": isEnrolled,
	}
	if isEnrolled {
		data["enrollment"] = enrollment
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", data)
}

// GetDayContent gets content for a specific day in a module
func GetDayContent(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	courseID := validators.ID(c, "course_id")
	day := validators.ID(c, "day")

	if enrollment, err := findEnrollment(c, user.ID, courseID); enrollment == nil {
		return err
	}

	module, err := findModule(c, courseID, validators.ID(c, "module_id"))
	if module == nil {
		return err
	}

	var contents []courseModels.CourseContent
	if err := database.Database.Db.Where("module_id = ? AND day = ? AND is_deleted = ? AND is_published = ?", module.ID, day, false, true).
		Order("order_index asc").Find(&contents).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Day content fetched successfully!", fiber.Map{
		"module":   module,
		"day":      day,
		"contents": withLearnerView(user.ID, contents),
	})
}
