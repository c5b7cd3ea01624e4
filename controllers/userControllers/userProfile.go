package userController

import (
	"learnhub/database"
	"learnhub/middleware"
	courseModels "learnhub/models/course"
	"learnhub/services/gamification"
	platformValidator "learnhub/validators/platform"
	"learnhub/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

// GetProfile returns the caller with their learning totals
func GetProfile(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	db := database.Database.Db

	var enrolled, completed, certificates int64
	db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND is_deleted = ?", user.ID, false).Count(&enrolled)
	db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND is_deleted = ? AND status = ?", user.ID, false, courseModels.EnrollmentCompleted).
		Count(&completed)
	db.Model(&courseModels.Certificate{}).Where("user_id = ? AND is_deleted = ?", user.ID, false).Count(&certificates)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", fiber.Map{
		"user":              user,
		"enrolled_courses":  enrolled,
		"completed_courses": completed,
		"certificates":      certificates,
	})
}

// UpdateProfile changes the caller's display name
func UpdateProfile(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	reqData, ok := c.Locals("validatedProfile").(*userValidator.ProfileInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := database.Database.Db.Model(user).Update("name", reqData.Name).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}

// GetMyPoints returns the caller's points, level and badges
func GetMyPoints(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	summary, err := gamification.UserSummary(c.UserContext(), database.Database.Db, user.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch points!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Points fetched successfully!", summary)
}

// GetLeaderboard returns the top learners by points
func GetLeaderboard(c *fiber.Ctx) error {
	limit := gamification.DefaultLeaderboardSize
	if reqData, ok := c.Locals("validatedLeaderboard").(*platformValidator.LeaderboardQuery); ok && reqData.Limit > 0 {
		limit = reqData.Limit
	}

	entries, err := gamification.Leaderboard(c.UserContext(), database.Database.Db, limit)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch leaderboard!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Leaderboard fetched successfully!", entries)
}
