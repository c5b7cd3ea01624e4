package billingValidator

import (
	"strings"

	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

type CheckoutInput struct {
	CourseID   uint   `json:"course_id" validate:"required"`
	CouponCode string `json:"coupon_code" validate:"max=50"`
}

func (r *CheckoutInput) Normalize() {
	r.CouponCode = strings.ToUpper(strings.TrimSpace(r.CouponCode))
}

func Checkout() fiber.Handler {
	return validators.Body[CheckoutInput]("validatedCheckout")
}

type RefundInput struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

func (r *RefundInput) Normalize() {
	r.Reason = strings.TrimSpace(r.Reason)
}

func Refund() fiber.Handler {
	return validators.Body[RefundInput]("validatedRefund")
}

type PaymentListQuery struct {
	Status   string `query:"status" validate:"omitempty,oneof=COMPLETED REFUNDED"`
	UserID   uint   `query:"user_id"`
	CourseID uint   `query:"course_id"`
}

func (q *PaymentListQuery) Normalize() {
	q.Status = strings.ToUpper(strings.TrimSpace(q.Status))
}

func PaymentList() fiber.Handler {
	return validators.Query[PaymentListQuery]("validatedPaymentList")
}

type CommissionListQuery struct {
	Status       string `query:"status" validate:"omitempty,oneof=PENDING PAID REVERSED"`
	InstructorID uint   `query:"instructor_id"`
}

func (q *CommissionListQuery) Normalize() {
	q.Status = strings.ToUpper(strings.TrimSpace(q.Status))
}

func CommissionList() fiber.Handler {
	return validators.Query[CommissionListQuery]("validatedCommissionList")
}

type PayoutInput struct {
	CommissionIDs []uint `json:"commission_ids" validate:"required,min=1,max=500"`
}

func Payout() fiber.Handler {
	return validators.Body[PayoutInput]("validatedPayout")
}
