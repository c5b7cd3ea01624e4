package controllers

import (
	"learnhub/database"
	"learnhub/middleware"
	courseModels "learnhub/models/course"
	"learnhub/validators"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminCreateModule creates a new module in a course
func AdminCreateModule(c *fiber.Ctx) error {
	course, err := findCourse(c, validators.ID(c, "id"))
	if course == nil {
		return err
	}

	reqData, ok := c.Locals("validatedModule").(*courseValidator.ModuleInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	module := courseModels.Module{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// AdminUpdateModule updates a module
func AdminUpdateModule(c *fiber.Ctx) error {
	module, err := findModule(c, validators.ID(c, "course_id"), validators.ID(c, "module_id"))
	if module == nil {
		return err
	}

	reqData, ok := c.Locals("validatedModuleUpdate").(*courseValidator.ModuleUpdateInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != nil {
		module.Title = *reqData.Title
	}
	if reqData.Description != nil {
		module.Description = *reqData.Description
	}
	if reqData.OrderIndex != nil {
		module.OrderIndex = *reqData.OrderIndex
	}

	if err := database.Database.Db.Save(module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

// AdminDeleteModule soft deletes a module and its content
func AdminDeleteModule(c *fiber.Ctx) error {
	module, err := findModule(c, validators.ID(c, "course_id"), validators.ID(c, "module_id"))
	if module == nil {
		return err
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(module).Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(&courseModels.CourseContent{}).
			Where("module_id = ? AND is_deleted = ?", module.ID, false).
			Update("is_deleted", true).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}

// AdminListModules lists all modules of a course
func AdminListModules(c *fiber.Ctx) error {
	course, err := findCourse(c, validators.ID(c, "id"))
	if course == nil {
		return err
	}

	var modules []courseModels.Module
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("order_index asc").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	type ModuleWithCount struct {
		courseModels.Module
		ContentCount int64 `json:"content_count"`
	}

	result := make([]ModuleWithCount, len(modules))
	for i, m := range modules {
		var count int64
		database.Database.Db.Model(&courseModels.CourseContent{}).Where("module_id = ? AND is_deleted = ?", m.ID, false).Count(&count)
		result[i] = ModuleWithCount{Module: m, ContentCount: count}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", result)
}
