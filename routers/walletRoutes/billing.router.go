package walletRoutes

import (
	billingController "learnhub/controllers/billing"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/validators"
	billingValidator "learnhub/validators/billing"

	"github.com/gofiber/fiber/v2"
)

func SetupBillingRoutes(app *fiber.App) {
	billingGroup := app.Group("/billing", middleware.JWTMiddleware)

	billingGroup.Post("/checkout", billingValidator.Checkout(), billingController.Checkout)
	billingGroup.Post("/coupon/validate", billingValidator.ValidateCoupon(), billingController.ValidateCoupon)
	billingGroup.Get("/payments", validators.Paginate(), billingValidator.PaymentList(), billingController.GetMyPayments)
	billingGroup.Get("/earnings",
		middleware.RequireRole(models.RoleInstructor, models.RoleAdmin),
		validators.Paginate(), billingValidator.CommissionList(), billingController.GetInstructorEarnings)

	adminGroup := app.Group("/admin/billing", middleware.JWTMiddleware, middleware.AdminOnly)

	// Coupons
	adminGroup.Post("/coupons", billingValidator.CreateCoupon(), billingController.CreateCoupon)
	adminGroup.Get("/coupons", validators.Paginate(), billingController.ListCoupons)
	adminGroup.Get("/coupons/:coupon_id", validators.IDParams("coupon_id"), billingController.GetCoupon)
	adminGroup.Put("/coupons/:coupon_id", validators.IDParams("coupon_id"), billingValidator.UpdateCoupon(), billingController.UpdateCoupon)
	adminGroup.Delete("/coupons/:coupon_id", validators.IDParams("coupon_id"), billingController.DeleteCoupon)

	// Payments and refunds
	adminGroup.Get("/payments", validators.Paginate(), billingValidator.PaymentList(), billingController.AdminListPayments)
	adminGroup.Post("/payments/:payment_id/refund", validators.IDParams("payment_id"), billingValidator.Refund(), billingController.RefundPayment)

	// Instructor commissions
	adminGroup.Get("/commissions", validators.Paginate(), billingValidator.CommissionList(), billingController.AdminListCommissions)
	adminGroup.Post("/commissions/payout", billingValidator.Payout(), billingController.PayoutCommissions)
}
