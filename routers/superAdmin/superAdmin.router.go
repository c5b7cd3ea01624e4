package superAdminRoutes

import (
	superAdminController "learnhub/controllers/superAdmin"
	"learnhub/middleware"
	"learnhub/validators"
	platformValidator "learnhub/validators/platform"
	superAdminValidator "learnhub/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
)

func SetupSuperAdminRoutes(app *fiber.App) {
	userGroup := app.Group("/admin/users", middleware.JWTMiddleware, middleware.AdminOnly)

	userGroup.Get("/", validators.Paginate(), superAdminValidator.List(), superAdminController.UserList)
	userGroup.Post("/", superAdminValidator.RegisterUser(), superAdminController.RegisterUser)
	userGroup.Put("/:user_id/role", validators.IDParams("user_id"), superAdminValidator.ChangeRole(), superAdminController.ChangeRole)
	userGroup.Put("/:user_id/block", validators.IDParams("user_id"), superAdminValidator.Block(), superAdminController.BlockUser)

	analyticsGroup := app.Group("/admin/analytics", middleware.JWTMiddleware, middleware.AdminOnly)

	analyticsGroup.Get("/dashboard", superAdminController.DashboardStats)
	analyticsGroup.Get("/enrollments/daily", platformValidator.Daily(), superAdminController.DailyEnrollments)
	analyticsGroup.Get("/course/:id", validators.IDParams("id"), superAdminController.CourseAnalytics)
}
