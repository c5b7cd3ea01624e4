package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleUser       = "USER"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"
)

// User is provisioned by the identity provider; tokens carry its ID.
type User struct {
	gorm.Model
	Name          string          `json:"name" gorm:"default:''"`
	Email         string          `json:"email" gorm:"uniqueIndex;not null"`
	Role          string          `json:"role" gorm:"default:'USER'"` // USER, INSTRUCTOR, ADMIN
	OrgID         uint            `json:"org_id" gorm:"index;default:0"`
	WalletBalance decimal.Decimal `json:"wallet_balance" gorm:"type:decimal(12,2);not null"`
	IsBlocked     bool            `json:"is_blocked" gorm:"default:false"`
	IsDeleted     bool            `json:"-" gorm:"default:false"`
}
