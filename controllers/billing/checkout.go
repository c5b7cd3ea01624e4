package billingController

import (
	"errors"
	"fmt"
	"log"
	"time"

	"learnhub/config"
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/models/billing"
	courseModels "learnhub/models/course"
	gm "learnhub/models/gamification"
	"learnhub/services/events"
	"learnhub/services/gamification"
	"learnhub/services/pricing"
	"learnhub/services/wallet"
	"learnhub/utils"
	"learnhub/validators"
	billingValidator "learnhub/validators/billing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

var (
	errAlreadyEnrolled = errors.New("already enrolled")
	errNotRefundable   = errors.New("payment is not refundable")
)

func findPurchasableCourse(c *fiber.Ctx, courseID uint) (*courseModels.Course, error) {
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ? AND is_published = ?",
		courseID, false, courseModels.CourseStatusActive, true).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
		}
		return nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load course!", nil)
	}
	return &course, nil
}

// PurchaseResult is what a successful checkout created
type PurchaseResult struct {
	Payment    billing.Payment           `json:"payment"`
	Enrollment courseModels.Enrollment   `json:"enrollment"`
	Commission *billing.Commission       `json:"commission,omitempty"`
	Wallet     billing.WalletTransaction `json:"wallet_transaction"`
	Quote      pricing.Quote             `json:"quote"`
}

// Checkout buys a paid course from the wallet, optionally with a coupon.
// Coupon consumption, the debit, the payment, the commission and the
// enrollment commit together or not at all.
func Checkout(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	reqData, ok := c.Locals("validatedCheckout").(*billingValidator.CheckoutInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := findPurchasableCourse(c, reqData.CourseID)
	if course == nil {
		return err
	}
	if course.IsFree() {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This course is free! Enroll directly.", nil)
	}

	db := database.Database.Db
	now := time.Now()

	quote := pricing.NoDiscount(course.Price)
	var coupon billing.Coupon
	if reqData.CouponCode != "" {
		coupon, err = findCouponByCode(db, reqData.CouponCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Coupon not found!", nil)
			}
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load coupon!", nil)
		}
		if quote, err = pricing.ApplyCoupon(coupon, course.Price, course.ID, now); err != nil {
			return couponError(c, err)
		}
	}

	split, err := pricing.CalculateCommission(quote.FinalAmount, config.AppConfig.PlatformCommissionPercent)
	if err != nil {
		log.Printf("[BILLING] commission rate %d rejected: %v", config.AppConfig.PlatformCommissionPercent, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Commission is misconfigured!", nil)
	}

	var result PurchaseResult
	result.Quote = quote

	err = db.Transaction(func(tx *gorm.DB) error {
		var enrolled int64
		if err := tx.Model(&courseModels.Enrollment{}).
			Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, course.ID, false).
			Count(&enrolled).Error; err != nil {
			return err
		}
		if enrolled > 0 {
			return errAlreadyEnrolled
		}

		if coupon.ID != 0 {
			// usage never exceeds max_uses under concurrent checkouts
			res := tx.Model(&billing.Coupon{}).
				Where("id = ? AND is_active = ? AND (max_uses = 0 OR used_count < max_uses)", coupon.ID, true).
				Update("used_count", gorm.Expr("used_count + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return pricing.ErrCouponExhausted
			}
		}

		payment := billing.Payment{
			UserID:         user.ID,
			CourseID:       course.ID,
			CouponID:       coupon.ID,
			CouponCode:     quote.CouponCode,
			OriginalAmount: quote.OriginalAmount,
			DiscountAmount: quote.DiscountAmount,
			Amount:         quote.FinalAmount,
			Method:         "WALLET",
			Status:         billing.PaymentCompleted,
			PaidAt:         now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		if quote.FinalAmount.IsPositive() {
			entry, err := wallet.Apply(tx, user.ID, quote.FinalAmount.Neg(), billing.WalletTransaction{
				TransactionType: billing.TransactionTypePurchase,
				Description:     fmt.Sprintf("Purchase of course %q", course.Title),
				ReferenceType:   "payment",
				ReferenceID:     payment.ID,
				TransactionDate: now,
			})
			if err != nil {
				return err
			}
			result.Wallet = entry

			commission := billing.Commission{
				PaymentID:         payment.ID,
				InstructorID:      course.InstructorID,
				CourseID:          course.ID,
				GrossAmount:       split.GrossAmount,
				RatePercent:       split.RatePercent,
				PlatformFee:       split.PlatformFee,
				InstructorEarning: split.InstructorEarning,
				Status:            billing.CommissionPending,
			}
			if err := tx.Create(&commission).Error; err != nil {
				return err
			}
			result.Commission = &commission
		}

		enrollment := courseModels.Enrollment{
			UserID:         user.ID,
			CourseID:       course.ID,
			PaymentID:      payment.ID,
			Status:         courseModels.EnrollmentEnrolled,
			LastActivityAt: &now,
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}

		result.Payment = payment
		result.Enrollment = enrollment
		return nil
	})
	switch {
	case errors.Is(err, errAlreadyEnrolled):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	case errors.Is(err, pricing.ErrCouponExhausted):
		return couponError(c, err)
	case errors.Is(err, wallet.ErrInsufficientBalance):
		return middleware.JsonResponse(c, fiber.StatusPaymentRequired, false, "Insufficient wallet balance!", fiber.Map{
			"required": quote.FinalAmount,
			"balance":  user.WalletBalance,
		})
	case err != nil:
		log.Printf("[BILLING] checkout of course %d by user %d failed: %v", course.ID, user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Checkout failed!", nil)
	}

	if _, err := gamification.Award(db, user.ID, gm.ReasonCoursePurchased, course.ID); err != nil {
		log.Printf("[BILLING] purchase points for user %d failed: %v", user.ID, err)
	}

	utils.SendPaymentReceiptEmail(user.Email, user.Name, course.Title, result.Payment.ID,
		quote.OriginalAmount, quote.DiscountAmount, quote.FinalAmount)
	utils.Broadcast(events.PaymentCompleted, "payment", result.Payment.ID, result.Payment)
	utils.Broadcast(events.EnrollmentCreated, "enrollment", result.Enrollment.ID, result.Enrollment)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course purchased successfully!", result)
}

func listPayments(c *fiber.Ctx, db *gorm.DB) error {
	page := validators.PageOf(c)

	db = db.Model(&billing.Payment{}).Where("is_deleted = ?", false)
	if reqData, ok := c.Locals("validatedPaymentList").(*billingValidator.PaymentListQuery); ok {
		if reqData.Status != "" {
			db = db.Where("status = ?", reqData.Status)
		}
		if reqData.UserID != 0 {
			db = db.Where("user_id = ?", reqData.UserID)
		}
		if reqData.CourseID != 0 {
			db = db.Where("course_id = ?", reqData.CourseID)
		}
	}

	var total int64
	db.Count(&total)

	var payments []billing.Payment
	if err := db.Offset(page.Offset()).Limit(page.Limit).Order("paid_at desc, id desc").Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", fiber.Map{
		"payments":   payments,
		"pagination": page.Meta(total),
	})
}

// GetMyPayments lists the caller's payments
func GetMyPayments(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	return listPayments(c, database.Database.Db.Where("user_id = ?", user.ID))
}

// AdminListPayments lists every payment (Admin only)
func AdminListPayments(c *fiber.Ctx) error {
	return listPayments(c, database.Database.Db)
}

// RefundPayment returns a completed payment to the buyer's wallet and
// revokes the enrollment it paid for (Admin only).
func RefundPayment(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRefund").(*billingValidator.RefundInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var payment billing.Payment
	if err := db.Where("id = ? AND is_deleted = ?", validators.ID(c, "payment_id"), false).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load payment!", nil)
	}

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&billing.Payment{}).
			Where("id = ? AND status = ?", payment.ID, billing.PaymentCompleted).
			Updates(map[string]interface{}{
				"status":        billing.PaymentRefunded,
				"refunded_at":   now,
				"refund_reason": reqData.Reason,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotRefundable
		}

		if payment.Amount.IsPositive() {
			if _, err := wallet.Apply(tx, payment.UserID, payment.Amount, billing.WalletTransaction{
				TransactionType: billing.TransactionTypeRefund,
				Description:     "Refund: " + reqData.Reason,
				ReferenceType:   "payment",
				ReferenceID:     payment.ID,
				TransactionDate: now,
			}); err != nil {
				return err
			}
		}

		if err := tx.Model(&courseModels.Enrollment{}).
			Where("payment_id = ? AND is_deleted = ?", payment.ID, false).
			Update("is_deleted", true).Error; err != nil {
			return err
		}

		return tx.Model(&billing.Commission{}).
			Where("payment_id = ?", payment.ID).
			Update("status", billing.CommissionReversed).Error
	})
	switch {
	case errors.Is(err, errNotRefundable):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Only completed payments can be refunded!", nil)
	case err != nil:
		log.Printf("[BILLING] refund of payment %d failed: %v", payment.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Refund failed!", nil)
	}

	payment.Status = billing.PaymentRefunded
	payment.RefundedAt = &now
	payment.RefundReason = reqData.Reason

	var buyer models.User
	var course courseModels.Course
	db.Where("id = ?", payment.UserID).First(&buyer)
	db.Where("id = ?", payment.CourseID).First(&course)

	utils.SendRefundEmail(buyer.Email, buyer.Name, course.Title, payment.Amount, reqData.Reason)
	utils.Broadcast(events.PaymentRefunded, "payment", payment.ID, payment)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment refunded successfully!", payment)
}
