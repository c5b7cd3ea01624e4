package platformRoutes

import (
	platformController "learnhub/controllers/platform"
	"learnhub/middleware"
	"learnhub/validators"
	platformValidator "learnhub/validators/platform"

	"github.com/gofiber/fiber/v2"
)

func SetupPlatformRoutes(app *fiber.App) {
	// Feature flags
	flagAdmin := app.Group("/admin/flags", middleware.JWTMiddleware, middleware.AdminOnly)
	flagAdmin.Post("/", platformValidator.CreateFlag(), platformController.CreateFlag)
	flagAdmin.Get("/", validators.Paginate(), platformController.ListFlags)
	flagAdmin.Get("/:flag_id", validators.IDParams("flag_id"), platformController.GetFlag)
	flagAdmin.Put("/:flag_id", validators.IDParams("flag_id"), platformValidator.UpdateFlag(), platformController.UpdateFlag)
	flagAdmin.Delete("/:flag_id", validators.IDParams("flag_id"), platformController.DeleteFlag)
	flagAdmin.Put("/:flag_id/overrides", validators.IDParams("flag_id"), platformValidator.SetOverride(), platformController.SetFlagOverride)
	flagAdmin.Delete("/:flag_id/overrides/:override_id", validators.IDParams("flag_id", "override_id"), platformController.DeleteFlagOverride)

	flagGroup := app.Group("/flags", middleware.JWTMiddleware)
	flagGroup.Get("/", platformValidator.Evaluate(), platformController.EvaluateAllFlags)
	flagGroup.Get("/:key", platformValidator.Evaluate(), platformController.EvaluateFlag)

	// Video processing
	videoGroup := app.Group("/admin/videos", middleware.JWTMiddleware, middleware.AdminOnly)
	videoGroup.Post("/", platformValidator.RegisterVideo(), platformController.RegisterVideo)
	videoGroup.Get("/content/:content_id", validators.IDParams("content_id"), platformController.ListContentVideoJobs)
	videoGroup.Get("/:job_id", validators.IDParams("job_id"), platformController.GetVideoJob)
	videoGroup.Post("/:job_id/retry", validators.IDParams("job_id"), platformController.RetryVideoJob)

	// Webhooks
	webhookGroup := app.Group("/admin/webhooks", middleware.JWTMiddleware, middleware.AdminOnly)
	webhookGroup.Post("/", platformValidator.CreateWebhook(), platformController.CreateWebhook)
	webhookGroup.Get("/", validators.Paginate(), platformController.ListWebhooks)
	webhookGroup.Put("/:webhook_id", validators.IDParams("webhook_id"), platformValidator.UpdateWebhook(), platformController.UpdateWebhook)
	webhookGroup.Delete("/:webhook_id", validators.IDParams("webhook_id"), platformController.DeleteWebhook)
	webhookGroup.Get("/:webhook_id/deliveries", validators.IDParams("webhook_id"), validators.Paginate(), platformController.ListWebhookDeliveries)
	webhookGroup.Post("/:webhook_id/ping", validators.IDParams("webhook_id"), platformController.PingWebhook)

	// AI study assistant
	aiGroup := app.Group("/ai", middleware.JWTMiddleware)
	aiGroup.Post("/course/:id/summary", validators.IDParams("id"), platformController.CourseSummary)
	aiGroup.Post("/content/:content_id/explain", validators.IDParams("content_id"), platformValidator.Explain(), platformController.ExplainContent)
}
