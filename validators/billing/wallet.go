package billingValidator

import (
	"regexp"
	"strings"
	"time"

	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ============ Wallet Validators ============

type DepositInput struct {
	Amount         decimal.Decimal `json:"amount" validate:"gt=0"`
	PaymentGateway string          `json:"payment_gateway" validate:"required,max=50"`
	PaymentID      string          `json:"payment_id" validate:"required,max=100"`
	PaymentMethod  string          `json:"payment_method" validate:"max=50"`
}

func (r *DepositInput) Normalize() {
	r.PaymentGateway = strings.TrimSpace(r.PaymentGateway)
	r.PaymentID = strings.TrimSpace(r.PaymentID)
	r.Amount = r.Amount.Round(2)
}

// Deposit validates user deposit request
func Deposit() fiber.Handler {
	return validators.Body[DepositInput]("validatedDeposit")
}

type HistoryQuery struct {
	Type string `query:"type" validate:"omitempty,oneof=DEPOSIT PURCHASE REFUND ADMIN_CREDIT"`
}

func (q *HistoryQuery) Normalize() {
	q.Type = strings.ToUpper(strings.TrimSpace(q.Type))
}

func WalletHistory() fiber.Handler {
	return validators.Query[HistoryQuery]("validatedHistory")
}

type AdminCreditInput struct {
	UserID uint            `json:"user_id" validate:"required"`
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	Reason string          `json:"reason" validate:"required,min=3,max=255"`
}

func (r *AdminCreditInput) Normalize() {
	r.Reason = strings.TrimSpace(r.Reason)
	r.Amount = r.Amount.Round(2)
}

func AddBalance() fiber.Handler {
	return validators.Body[AdminCreditInput]("validatedAddBalance")
}

// ============ Coupon Validators ============

var couponCode = regexp.MustCompile(`^[A-Z0-9_-]+$`)

type CouponInput struct {
	Code           string          `json:"code" validate:"required,min=3,max=50"`
	Description    string          `json:"description" validate:"max=255"`
	DiscountType   string          `json:"discount_type" validate:"required,oneof=PERCENTAGE FIXED"`
	DiscountValue  decimal.Decimal `json:"discount_value" validate:"gt=0"`
	MaxUses        int             `json:"max_uses" validate:"gte=0"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount" validate:"gte=0"`
	CourseID       uint            `json:"course_id"`
	ExpiresAt      *time.Time      `json:"expires_at"`
	IsActive       *bool           `json:"is_active"`
}

func (r *CouponInput) Normalize() {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	r.DiscountType = strings.ToUpper(strings.TrimSpace(r.DiscountType))
	r.Description = strings.TrimSpace(r.Description)
}

func (r *CouponInput) Check(errors map[string]string) {
	if _, ok := errors["code"]; !ok && !couponCode.MatchString(r.Code) {
		errors["code"] = "Code may only contain letters, digits, '-' and '_'!"
	}
	if r.DiscountType == "PERCENTAGE" && r.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		errors["discount_value"] = "Percentage discount cannot exceed 100!"
	}
	if r.ExpiresAt != nil && !r.ExpiresAt.After(time.Now()) {
		errors["expires_at"] = "Expiry must be in the future!"
	}
}

// Active defaults to true
func (r *CouponInput) Active() bool {
	return r.IsActive == nil || *r.IsActive
}

func CreateCoupon() fiber.Handler {
	return validators.Body[CouponInput]("validatedCoupon")
}

type CouponUpdateInput struct {
	Description    *string          `json:"description" validate:"omitempty,max=255"`
	DiscountValue  *decimal.Decimal `json:"discount_value" validate:"omitempty,gt=0"`
	MaxUses        *int             `json:"max_uses" validate:"omitempty,gte=0"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount" validate:"omitempty,gte=0"`
	ExpiresAt      *time.Time       `json:"expires_at"`
	IsActive       *bool            `json:"is_active"`
}

func UpdateCoupon() fiber.Handler {
	return validators.Body[CouponUpdateInput]("validatedCouponUpdate")
}

type ValidateCouponInput struct {
	Code     string `json:"code" validate:"required"`
	CourseID uint   `json:"course_id" validate:"required"`
}

func (r *ValidateCouponInput) Normalize() {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
}

func ValidateCoupon() fiber.Handler {
	return validators.Body[ValidateCouponInput]("validatedCouponCheck")
}
