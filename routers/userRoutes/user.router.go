package userProfileRoutes

import (
	userProfileController "learnhub/controllers/userControllers"
	"learnhub/middleware"
	platformValidator "learnhub/validators/platform"
	userProfileValidator "learnhub/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user", middleware.JWTMiddleware)

	userGroup.Get("/profile", userProfileController.GetProfile)
	userGroup.Put("/profile", userProfileValidator.UpdateProfile(), userProfileController.UpdateProfile)
	userGroup.Get("/points", userProfileController.GetMyPoints)
	userGroup.Get("/leaderboard", platformValidator.Leaderboard(), userProfileController.GetLeaderboard)
}
