package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentCompleted = "COMPLETED"
	PaymentRefunded  = "REFUNDED"
)

// Payment records a course purchase
type Payment struct {
	gorm.Model
	UserID         uint            `json:"user_id" gorm:"index;not null"`
	CourseID       uint            `json:"course_id" gorm:"index;not null"`
	CouponID       uint            `json:"coupon_id" gorm:"default:0"`
	CouponCode     string          `json:"coupon_code"`
	OriginalAmount decimal.Decimal `json:"original_amount" gorm:"type:decimal(12,2);not null"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:decimal(12,2);not null"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Method         string          `json:"method" gorm:"type:varchar(20);default:'WALLET'"`
	Status         string          `json:"status" gorm:"type:varchar(20);default:'COMPLETED'"` // COMPLETED, REFUNDED
	PaidAt         time.Time       `json:"paid_at"`
	RefundedAt     *time.Time      `json:"refunded_at"`
	RefundReason   string          `json:"refund_reason"`
	IsDeleted      bool            `json:"-" gorm:"default:false"`
}

const (
	CommissionPending  = "PENDING"
	CommissionPaid     = "PAID"
	CommissionReversed = "REVERSED"
)

// Commission splits a payment between the platform and the course instructor
type Commission struct {
	gorm.Model
	PaymentID         uint            `json:"payment_id" gorm:"uniqueIndex;not null"`
	InstructorID      uint            `json:"instructor_id" gorm:"index;not null"`
	CourseID          uint            `json:"course_id" gorm:"index;not null"`
	GrossAmount       decimal.Decimal `json:"gross_amount" gorm:"type:decimal(12,2);not null"`
	RatePercent       int             `json:"rate_percent"`
	PlatformFee       decimal.Decimal `json:"platform_fee" gorm:"type:decimal(12,2);not null"`
	InstructorEarning decimal.Decimal `json:"instructor_earning" gorm:"type:decimal(12,2);not null"`
	Status            string          `json:"status" gorm:"type:varchar(20);default:'PENDING'"` // PENDING, PAID, REVERSED
	PaidOutAt         *time.Time      `json:"paid_out_at"`
}
