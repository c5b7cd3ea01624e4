package controllers

import (
	"learnhub/database"
	"learnhub/middleware"
	courseModels "learnhub/models/course"
	"learnhub/services/events"
	"learnhub/utils"
	"learnhub/validators"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateCourse creates a new course
func AdminCreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		Author:       reqData.Author,
		InstructorID: reqData.InstructorID,
		Price:        reqData.Price,
		Duration:     reqData.Duration,
		ThumbnailURL: reqData.ThumbnailURL,
		Status:       courseModels.CourseStatusDraft,
		IsPublished:  false,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// AdminUpdateCourse updates an existing course
func AdminUpdateCourse(c *fiber.Ctx) error {
	course, err := findCourse(c, validators.ID(c, "id"))
	if course == nil {
		return err
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.CourseUpdateInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Update only provided fields
	if reqData.Title != nil {
		course.Title = *reqData.Title
	}
	if reqData.Description != nil {
		course.Description = *reqData.Description
	}
	if reqData.Author != nil {
		course.Author = *reqData.Author
	}
	if reqData.InstructorID != nil {
		course.InstructorID = *reqData.InstructorID
	}
	if reqData.Price != nil {
		course.Price = *reqData.Price
	}
	if reqData.Duration != nil {
		course.Duration = *reqData.Duration
	}
	if reqData.ThumbnailURL != nil {
		course.ThumbnailURL = *reqData.ThumbnailURL
	}
	if reqData.Status != nil {
		course.Status = *reqData.Status
		if course.Status != courseModels.CourseStatusActive {
			course.IsPublished = false
		}
	}

	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// AdminDeleteCourse soft deletes a course
func AdminDeleteCourse(c *fiber.Ctx) error {
	course, err := findCourse(c, validators.ID(c, "id"))
	if course == nil {
		return err
	}

	course.IsDeleted = true
	course.IsPublished = false
	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// AdminGetAllCourses lists all courses for admin
func AdminGetAllCourses(c *fiber.Ctx) error {
	page := validators.PageOf(c)

	db := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ?", false)
	if reqData, ok := c.Locals("validatedAdminList").(*courseValidator.AdminCourseListQuery); ok {
		if reqData.Status != "" {
			db = db.Where("status = ?", reqData.Status)
		}
		if reqData.Search != "" {
			db = db.Where("LOWER(title) LIKE ?", likePattern(reqData.Search))
		}
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

// AdminGetCourseDetails gets a single course with modules
func AdminGetCourseDetails(c *fiber.Ctx) error {
	course, err := findCourse(c, validators.ID(c, "id"))
	if course == nil {
		return err
	}

	db := database.Database.Db

	var modules []courseModels.Module
	db.Where("course_id = ? AND is_deleted = ?", course.ID, false).Order("order_index asc").Find(&modules)

	var contentCount, enrollmentCount int64
	db.Model(&courseModels.CourseContent{}).Where("course_id = ? AND is_deleted = ?", course.ID, false).Count(&contentCount)
	db.Model(&courseModels.Enrollment{}).Where("course_id = ? AND is_deleted = ?", course.ID, false).Count(&enrollmentCount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":           course,
		"modules":          modules,
		"content_count":    contentCount,
		"enrollment_count": enrollmentCount,
	})
}

// AdminPublishCourse publishes or unpublishes a course
func AdminPublishCourse(c *fiber.Ctx) error {
	course, err := findCourse(c, validators.ID(c, "id"))
	if course == nil {
		return err
	}

	publishStatus := true
	if q, ok := c.Locals("publishStatus").(*courseValidator.PublishQuery); ok {
		publishStatus = q.Value()
	}

	wasPublished := course.IsPublished
	course.IsPublished = publishStatus
	if publishStatus {
		course.Status = courseModels.CourseStatusActive
	}

	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	message := "Course unpublished successfully!"
	if publishStatus {
		message = "Course published successfully!"
		if !wasPublished {
			utils.Broadcast(events.CoursePublished, "course", course.ID, course)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, course)
}
