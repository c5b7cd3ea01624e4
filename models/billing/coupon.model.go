package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DiscountPercentage = "PERCENTAGE"
	DiscountFixed      = "FIXED"
)

// Coupon is a discount code redeemable at checkout
type Coupon struct {
	gorm.Model
	Code           string          `json:"code" gorm:"type:varchar(50);uniqueIndex;not null"`
	Description    string          `json:"description"`
	DiscountType   string          `json:"discount_type" gorm:"type:varchar(20);not null"` // PERCENTAGE, FIXED
	DiscountValue  decimal.Decimal `json:"discount_value" gorm:"type:decimal(12,2);not null"`
	MaxUses        int             `json:"max_uses" gorm:"default:0"` // 0 means unlimited
	UsedCount      int             `json:"used_count" gorm:"default:0"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount" gorm:"type:decimal(12,2);not null"`
	CourseID       uint            `json:"course_id" gorm:"default:0"` // 0 applies to every course
	ExpiresAt      *time.Time      `json:"expires_at"`
	IsActive       bool            `json:"is_active"`
	IsDeleted      bool            `json:"-" gorm:"default:false"`
}
