package wallet

import (
	"testing"

	"learnhub/models"
	"learnhub/models/billing"
	"learnhub/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestApplyCreditAndDebit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "Wallet Owner", models.RoleUser, 50)

	credit, err := Apply(db, user.ID, decimal.RequireFromString("25.50"), billing.WalletTransaction{
		TransactionType: billing.TransactionTypeDeposit,
		Description:     "top up",
	})
	require.NoError(t, err)
	assert.True(t, credit.BalanceBefore.Equal(decimal.NewFromInt(50)), credit.BalanceBefore.String())
	assert.True(t, credit.BalanceAfter.Equal(decimal.RequireFromString("75.5")), credit.BalanceAfter.String())
	assert.True(t, credit.Amount.Equal(decimal.RequireFromString("25.5")))

	debit, err := Apply(db, user.ID, decimal.NewFromInt(-75), billing.WalletTransaction{TransactionType: billing.TransactionTypePurchase})
	require.NoError(t, err)
	assert.True(t, debit.BalanceAfter.Equal(decimal.RequireFromString("0.5")), debit.BalanceAfter.String())

	var count int64
	db.Model(&billing.WalletTransaction{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestApplyRejectsOverdraft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "Short Funds", models.RoleUser, 10)

	_, err := Apply(db, user.ID, decimal.NewFromInt(-11), billing.WalletTransaction{TransactionType: billing.TransactionTypePurchase})
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.True(t, reloaded.WalletBalance.Equal(decimal.NewFromInt(10)))
}

func TestApplyUnknownUserAndZero(t *testing.T) {
	db := testutil.SetupTestDB(t)

	_, err := Apply(db, 999, decimal.NewFromInt(5), billing.WalletTransaction{})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = Apply(db, 1, decimal.Zero, billing.WalletTransaction{})
	assert.ErrorIs(t, err, ErrZeroAmount)
}

func TestGatewayPaymentIsUnique(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "Double Deposit", models.RoleUser, 0)

	gateway, paymentID := "razorpay", "pay_123"
	deposit := func() error {
		return db.Transaction(func(tx *gorm.DB) error {
			_, err := Apply(tx, user.ID, decimal.NewFromInt(40), billing.WalletTransaction{
				TransactionType: billing.TransactionTypeDeposit,
				PaymentGateway:  &gateway,
				PaymentID:       &paymentID,
			})
			return err
		})
	}

	require.NoError(t, deposit())
	assert.ErrorIs(t, deposit(), gorm.ErrDuplicatedKey)

	// rows without gateway details never collide
	for i := 0; i < 2; i++ {
		_, err := Apply(db, user.ID, decimal.NewFromInt(-5), billing.WalletTransaction{TransactionType: billing.TransactionTypePurchase})
		require.NoError(t, err)
	}

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.True(t, reloaded.WalletBalance.Equal(decimal.NewFromInt(30)), reloaded.WalletBalance.String())
}
