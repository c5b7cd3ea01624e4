package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType defines the type of wallet transaction
type TransactionType string

const (
	TransactionTypeDeposit     TransactionType = "DEPOSIT"
	TransactionTypePurchase    TransactionType = "PURCHASE"
	TransactionTypeRefund      TransactionType = "REFUND"
	TransactionTypeAdminCredit TransactionType = "ADMIN_CREDIT"
)

// TransactionStatus defines the status of a transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// WalletTransaction tracks all wallet transactions for a user
type WalletTransaction struct {
	gorm.Model
	UserID          uint              `gorm:"not null;index" json:"userId"`
	TransactionType TransactionType   `gorm:"type:varchar(50);not null" json:"transactionType"`
	Amount          decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	BalanceBefore   decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"balanceBefore"`
	BalanceAfter    decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"balanceAfter"`
	Status          TransactionStatus `gorm:"type:varchar(20);default:'COMPLETED'" json:"status"`
	Description     string            `gorm:"type:text" json:"description"`

	// Payment gateway details, deposits only. NULL elsewhere so the unique
	// index ignores other transaction types.
	PaymentGateway *string `gorm:"type:varchar(50);uniqueIndex:idx_wallet_gateway_payment" json:"paymentGateway,omitempty"`
	PaymentID      *string `gorm:"type:varchar(100);uniqueIndex:idx_wallet_gateway_payment" json:"paymentId,omitempty"`
	PaymentMethod  string  `gorm:"type:varchar(50)" json:"paymentMethod"`

	// Reference details (for purchases and refunds)
	ReferenceType string `gorm:"type:varchar(50)" json:"referenceType"` // course, payment
	ReferenceID   uint   `gorm:"default:0" json:"referenceId"`

	TransactionDate time.Time `gorm:"not null" json:"transactionDate"`
	IsDeleted       bool      `gorm:"default:false" json:"-"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
