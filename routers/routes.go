// Package routers assembles the HTTP application from every route group.
package routers

import (
	"learnhub/config"
	"learnhub/middleware"
	courseRoutes "learnhub/routers/courseRoutes"
	platformRoutes "learnhub/routers/platformRoutes"
	superAdminRoutes "learnhub/routers/superAdmin"
	userProfileRoutes "learnhub/routers/userRoutes"
	walletRoutes "learnhub/routers/walletRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options tune the shared middleware
type Options struct {
	// RequestLog enables the access log; tests turn it off
	RequestLog bool
}

// New builds the API app with every route group mounted
func New(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "LearnHub API",
	})
	Setup(app, opts)
	return app
}

func Setup(app *fiber.App, opts Options) {
	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	if opts.RequestLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	app.Use(middleware.Metrics())

	if cfg := config.AppConfig; cfg != nil && cfg.UploadDir != "" {
		app.Static("/uploads", cfg.UploadDir)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
	})

	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	walletRoutes.SetupWalletRoutes(app)
	walletRoutes.SetupBillingRoutes(app)
	superAdminRoutes.SetupSuperAdminRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)
	platformRoutes.SetupPlatformRoutes(app)
}

// NewMetrics builds the app that exposes Prometheus metrics
func NewMetrics() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	return app
}
