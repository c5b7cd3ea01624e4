// Package wallet moves money in and out of user wallets and keeps the
// transaction ledger.
package wallet

import (
	"errors"
	"time"

	"learnhub/models"
	"learnhub/models/billing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrUserNotFound        = errors.New("user not found")
	ErrZeroAmount          = errors.New("amount must not be zero")
)

// Apply changes the user's balance by delta and records entry with the
// resulting before/after balances. A debit never takes the balance below zero.
// Call it inside the caller's transaction.
func Apply(tx *gorm.DB, userID uint, delta decimal.Decimal, entry billing.WalletTransaction) (billing.WalletTransaction, error) {
	if delta.IsZero() {
		return entry, ErrZeroAmount
	}

	update := tx.Model(&models.User{}).Where("id = ? AND is_deleted = ?", userID, false)
	if delta.IsNegative() {
		update = update.Where("wallet_balance >= ?", delta.Abs())
	}
	result := update.Update("wallet_balance", gorm.Expr("wallet_balance + ?", delta))
	if result.Error != nil {
		return entry, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ? AND is_deleted = ?", userID, false).Count(&count).Error; err != nil {
			return entry, err
		}
		if count == 0 {
			return entry, ErrUserNotFound
		}
		return entry, ErrInsufficientBalance
	}

	var user models.User
	if err := tx.Select("id", "wallet_balance").Where("id = ?", userID).First(&user).Error; err != nil {
		return entry, err
	}

	entry.UserID = userID
	entry.Amount = delta.Abs()
	entry.BalanceAfter = user.WalletBalance
	entry.BalanceBefore = user.WalletBalance.Sub(delta)
	if entry.Status == "" {
		entry.Status = billing.TransactionStatusCompleted
	}
	if entry.TransactionDate.IsZero() {
		entry.TransactionDate = time.Now()
	}
	if err := tx.Create(&entry).Error; err != nil {
		return entry, err
	}
	return entry, nil
}
