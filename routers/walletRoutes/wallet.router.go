package walletRoutes

import (
	walletController "learnhub/controllers/wallet"
	"learnhub/middleware"
	"learnhub/validators"
	billingValidator "learnhub/validators/billing"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(app *fiber.App) {
	walletGroup := app.Group("/wallet", middleware.JWTMiddleware)

	// User routes
	walletGroup.Get("/balance", walletController.GetWalletBalance)
	walletGroup.Post("/deposit", billingValidator.Deposit(), walletController.DepositToWallet)
	walletGroup.Get("/history", validators.Paginate(), billingValidator.WalletHistory(), walletController.GetWalletHistory)

	// Admin routes
	adminGroup := walletGroup.Group("/admin", middleware.AdminOnly)
	adminGroup.Post("/add-balance", billingValidator.AddBalance(), walletController.AddBalance)
	adminGroup.Get("/user/:user_id/history", validators.IDParams("user_id"), validators.Paginate(), billingValidator.WalletHistory(), walletController.GetUserWalletHistory)
}
