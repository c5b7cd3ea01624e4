// Package pricing holds the money arithmetic for checkout: coupon discounts
// and the platform/instructor commission split.
package pricing

import (
	"errors"
	"fmt"
	"time"

	"learnhub/models/billing"

	"github.com/shopspring/decimal"
)

var (
	ErrCouponInactive     = errors.New("coupon is not active")
	ErrCouponExpired      = errors.New("coupon has expired")
	ErrCouponExhausted    = errors.New("coupon usage limit reached")
	ErrCouponNotForCourse = errors.New("coupon does not apply to this course")
	ErrBelowMinimum       = errors.New("order amount is below the coupon minimum")
	ErrInvalidRate        = errors.New("commission rate must be between 0 and 100")
)

var hundred = decimal.NewFromInt(100)

// Quote is the result of applying a coupon to an amount
type Quote struct {
	OriginalAmount decimal.Decimal `json:"original_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	CouponCode     string          `json:"coupon_code,omitempty"`
}

// NoDiscount quotes the amount as is
func NoDiscount(amount decimal.Decimal) Quote {
	amount = amount.Round(2)
	return Quote{OriginalAmount: amount, DiscountAmount: decimal.Zero, FinalAmount: amount}
}

// ApplyCoupon computes the discount a coupon gives on amount for courseID.
// The coupon is not consumed.
func ApplyCoupon(coupon billing.Coupon, amount decimal.Decimal, courseID uint, now time.Time) (Quote, error) {
	if !coupon.IsActive || coupon.IsDeleted {
		return Quote{}, ErrCouponInactive
	}
	if coupon.ExpiresAt != nil && !now.Before(*coupon.ExpiresAt) {
		return Quote{}, ErrCouponExpired
	}
	if coupon.MaxUses > 0 && coupon.UsedCount >= coupon.MaxUses {
		return Quote{}, ErrCouponExhausted
	}
	if coupon.CourseID != 0 && coupon.CourseID != courseID {
		return Quote{}, ErrCouponNotForCourse
	}
	if amount.LessThan(coupon.MinOrderAmount) {
		return Quote{}, ErrBelowMinimum
	}

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case billing.DiscountPercentage:
		discount = amount.Mul(coupon.DiscountValue).Div(hundred)
	case billing.DiscountFixed:
		discount = coupon.DiscountValue
	default:
		return Quote{}, fmt.Errorf("unknown discount type %q", coupon.DiscountType)
	}

	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(amount) {
		discount = amount
	}
	discount = discount.Round(2)

	final := amount.Sub(discount).Round(2)
	if final.IsNegative() {
		final = decimal.Zero
	}

	return Quote{
		OriginalAmount: amount.Round(2),
		DiscountAmount: discount,
		FinalAmount:    final,
		CouponCode:     coupon.Code,
	}, nil
}

// Split is the platform/instructor share of a payment
type Split struct {
	GrossAmount       decimal.Decimal
	RatePercent       int
	PlatformFee       decimal.Decimal
	InstructorEarning decimal.Decimal
}

// CalculateCommission splits amount. The fee is rounded to cents and the
// instructor gets the remainder, so the parts always add up to the gross.
func CalculateCommission(amount decimal.Decimal, ratePercent int) (Split, error) {
	if ratePercent < 0 || ratePercent > 100 {
		return Split{}, ErrInvalidRate
	}
	gross := amount.Round(2)
	fee := gross.Mul(decimal.NewFromInt(int64(ratePercent))).Div(hundred).Round(2)
	return Split{
		GrossAmount:       gross,
		RatePercent:       ratePercent,
		PlatformFee:       fee,
		InstructorEarning: gross.Sub(fee),
	}, nil
}
