package controllers

import (
	"errors"
	"log"

	"learnhub/config"
	"learnhub/database"
	"learnhub/middleware"
	courseModels "learnhub/models/course"
	"learnhub/utils"
	"learnhub/validators"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateContent creates new content in a module
func AdminCreateContent(c *fiber.Ctx) error {
	module, err := findModule(c, validators.ID(c, "course_id"), validators.ID(c, "module_id"))
	if module == nil {
		return err
	}

	reqData, ok := c.Locals("validatedContent").(*courseValidator.ContentInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Get the next order index if not provided
	orderIndex := reqData.OrderIndex
	if orderIndex == 0 {
		var maxOrder int
		database.Database.Db.Model(&courseModels.CourseContent{}).
			Where("module_id = ? AND day = ? AND is_deleted = ?", module.ID, reqData.Day, false).
			Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	content := courseModels.CourseContent{
		CourseID:    module.CourseID,
		ModuleID:    module.ID,
		Day:         reqData.Day,
		Title:       reqData.Title,
		Description: reqData.Description,
		ContentType: reqData.ContentType,
		TextContent: reqData.TextContent,
		VideoURL:    reqData.VideoURL,
		ImageURL:    reqData.ImageURL,
		OrderIndex:  orderIndex,
		IsPublished: false,
	}

	if err := database.Database.Db.Create(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Content created successfully!", content)
}

// AdminUpdateContent updates existing content
func AdminUpdateContent(c *fiber.Ctx) error {
	content, err := findContent(c, validators.ID(c, "content_id"))
	if content == nil {
		return err
	}

	reqData, ok := c.Locals("validatedContentUpdate").(*courseValidator.ContentUpdateInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Day != nil {
		content.Day = *reqData.Day
	}
	if reqData.Title != nil {
		content.Title = *reqData.Title
	}
	if reqData.Description != nil {
		content.Description = *reqData.Description
	}
	if reqData.TextContent != nil {
		content.TextContent = *reqData.TextContent
	}
	if reqData.VideoURL != nil {
		content.VideoURL = *reqData.VideoURL
	}
	if reqData.ImageURL != nil {
		content.ImageURL = *reqData.ImageURL
	}
	if reqData.OrderIndex != nil {
		content.OrderIndex = *reqData.OrderIndex
	}

	if err := database.Database.Db.Save(content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content updated successfully!", content)
}

// AdminDeleteContent soft deletes content
func AdminDeleteContent(c *fiber.Ctx) error {
	content, err := findContent(c, validators.ID(c, "content_id"))
	if content == nil {
		return err
	}

	if err := database.Database.Db.Model(content).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content deleted successfully!", nil)
}

// AdminUploadContentImage stores the multipart "image" file of IMAGE content
func AdminUploadContentImage(c *fiber.Ctx) error {
	content, err := findContent(c, validators.ID(c, "content_id"))
	if content == nil {
		return err
	}
	if content.ContentType != courseModels.ContentTypeImage {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content is not an image!", nil)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Image file is required!", nil)
	}

	name, err := utils.SaveUploadedImage(file, config.AppConfig.UploadDir)
	switch {
	case errors.Is(err, utils.ErrUnsupportedImage):
		return middleware.JsonResponse(c, fiber.StatusUnsupportedMediaType, false, "Only png, jpg, gif and webp images are allowed!", nil)
	case errors.Is(err, utils.ErrImageTooLarge):
		return middleware.JsonResponse(c, fiber.StatusRequestEntityTooLarge, false, "Image must be at most 2 MB!", nil)
	case err != nil:
		log.Printf("[CONTENT] saving image for content %d failed: %v", content.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save image!", nil)
	}

	content.ImageURL = utils.GetFileURL(name)
	if err := database.Database.Db.Model(content).Update("image_url", content.ImageURL).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Image uploaded successfully!", content)
}

// AdminPublishContent publishes or unpublishes content
func AdminPublishContent(c *fiber.Ctx) error {
	content, err := findContent(c, validators.ID(c, "content_id"))
	if content == nil {
		return err
	}

	publishStatus := true
	if q, ok := c.Locals("publishStatus").(*courseValidator.PublishQuery); ok {
		publishStatus = q.Value()
	}

	if err := database.Database.Db.Model(content).Update("is_published", publishStatus).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update content!", nil)
	}
	content.IsPublished = publishStatus

	message := "Content unpublished successfully!"
	if publishStatus {
		message = "Content published successfully!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, content)
}

// AdminGetModuleContent lists all content of a module grouped by day
func AdminGetModuleContent(c *fiber.Ctx) error {
	module, err := findModule(c, validators.ID(c, "course_id"), validators.ID(c, "module_id"))
	if module == nil {
		return err
	}

	var contents []courseModels.CourseContent
	if err := database.Database.Db.Where("module_id = ? AND is_deleted = ?", module.ID, false).
		Order("day asc, order_index asc").Find(&contents).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content fetched successfully!", fiber.Map{
		"module":   module,
		"contents": contents,
		"days":     groupByDay(contents),
	})
}

// ============ MCQ Options ============

// AdminAddMCQOption adds an option to MCQ content
func AdminAddMCQOption(c *fiber.Ctx) error {
	content, err := findContent(c, validators.ID(c, "content_id"))
	if content == nil {
		return err
	}

	if content.ContentType != courseModels.ContentTypeMCQ {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content is not an MCQ!", nil)
	}

	reqData, ok := c.Locals("validatedMCQOption").(*courseValidator.MCQOptionInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	option := courseModels.MCQOption{
		ContentID:  content.ID,
		OptionText: reqData.OptionText,
		IsCorrect:  reqData.IsCorrect,
		OrderIndex: reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&option).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add option!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "MCQ option added successfully!", option)
}

// AdminListMCQOptions lists the options of MCQ content with their answers
func AdminListMCQOptions(c *fiber.Ctx) error {
	content, err := findContent(c, validators.ID(c, "content_id"))
	if content == nil {
		return err
	}

	var options []courseModels.MCQOption
	if err := database.Database.Db.Where("content_id = ? AND is_deleted = ?", content.ID, false).
		Order("order_index asc, id asc").Find(&options).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch options!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "MCQ options fetched successfully!", options)
}

func findOption(c *fiber.Ctx) (*courseModels.MCQOption, error) {
	var option courseModels.MCQOption
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", validators.ID(c, "option_id"), false).
		First(&option).Error; err != nil {
		return nil, lookupFailed(c, err, "Option not found!")
	}
	return &option, nil
}

// AdminUpdateMCQOption updates an MCQ option
func AdminUpdateMCQOption(c *fiber.Ctx) error {
	option, err := findOption(c)
	if option == nil {
		return err
	}

	reqData, ok := c.Locals("validatedMCQOptionUpdate").(*courseValidator.MCQOptionUpdateInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.OptionText != nil {
		option.OptionText = *reqData.OptionText
	}
	if reqData.IsCorrect != nil {
		option.IsCorrect = *reqData.IsCorrect
	}
	if reqData.OrderIndex != nil {
		option.OrderIndex = *reqData.OrderIndex
	}

	if err := database.Database.Db.Save(option).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update option!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "MCQ option updated successfully!", option)
}

// AdminDeleteMCQOption soft deletes an MCQ option
func AdminDeleteMCQOption(c *fiber.Ctx) error {
	option, err := findOption(c)
	if option == nil {
		return err
	}

	if err := database.Database.Db.Model(option).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete option!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "MCQ option deleted successfully!", nil)
}
