package walletController

import (
	"errors"
	"fmt"
	"time"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/models/billing"
	"learnhub/services/wallet"
	"learnhub/validators"
	billingValidator "learnhub/validators/billing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var errDuplicatePayment = errors.New("payment already processed")

// GetWalletBalance returns user's current wallet balance
func GetWalletBalance(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet balance fetched!", fiber.Map{
		"balance":  user.WalletBalance,
		"currency": "INR",
	})
}

// DepositToWallet credits a gateway payment. A payment id is only ever
// credited once.
func DepositToWallet(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	reqData, ok := c.Locals("validatedDeposit").(*billingValidator.DepositInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var transaction billing.WalletTransaction
	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&billing.WalletTransaction{}).
			Where("payment_gateway = ? AND payment_id = ?", reqData.PaymentGateway, reqData.PaymentID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errDuplicatePayment
		}

		var err error
		transaction, err = wallet.Apply(tx, user.ID, reqData.Amount, billing.WalletTransaction{
			TransactionType: billing.TransactionTypeDeposit,
			Description:     "Wallet deposit via " + reqData.PaymentGateway,
			PaymentGateway:  &reqData.PaymentGateway,
			PaymentID:       &reqData.PaymentID,
			PaymentMethod:   reqData.PaymentMethod,
		})
		return err
	})
	switch {
	// a concurrent deposit of the same payment loses on the unique index
	case errors.Is(err, errDuplicatePayment), errors.Is(err, gorm.ErrDuplicatedKey):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Transaction already processed!", nil)
	case err != nil:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process deposit!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit successful!", fiber.Map{
		"transactionId": transaction.ID,
		"amount":        transaction.Amount,
		"balanceBefore": transaction.BalanceBefore,
		"balanceAfter":  transaction.BalanceAfter,
		"paymentId":     transaction.PaymentID,
		"status":        transaction.Status,
	})
}

func history(c *fiber.Ctx, userID uint) (fiber.Map, error) {
	page := validators.PageOf(c)

	query := database.Database.Db.Model(&billing.WalletTransaction{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	if reqData, ok := c.Locals("validatedHistory").(*billingValidator.HistoryQuery); ok && reqData.Type != "" {
		query = query.Where("transaction_type = ?", reqData.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var transactions []billing.WalletTransaction
	if err := query.Order("transaction_date DESC, id DESC").Offset(page.Offset()).Limit(page.Limit).Find(&transactions).Error; err != nil {
		return nil, err
	}

	return fiber.Map{
		"transactions": transactions,
		"pagination":   page.Meta(total),
	}, nil
}

// GetWalletHistory returns user's wallet transaction history
func GetWalletHistory(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	data, err := history(c, user.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}
	data["currentBalance"] = user.WalletBalance

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet history fetched!", data)
}

// AddBalance adds balance to user's wallet (Admin only)
func AddBalance(c *fiber.Ctx) error {
	admin, err := middleware.CurrentUser(c)
	if admin == nil {
		return err
	}

	reqData, ok := c.Locals("validatedAddBalance").(*billingValidator.AdminCreditInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var transaction billing.WalletTransaction
	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var err error
		transaction, err = wallet.Apply(tx, reqData.UserID, reqData.Amount, billing.WalletTransaction{
			TransactionType: billing.TransactionTypeAdminCredit,
			Description:     fmt.Sprintf("Admin credit by #%d: %s", admin.ID, reqData.Reason),
			ReferenceType:   "admin",
			ReferenceID:     admin.ID,
			TransactionDate: time.Now(),
		})
		return err
	})
	switch {
	case errors.Is(err, wallet.ErrUserNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	case err != nil:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add balance!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Balance added successfully!", transaction)
}

// GetUserWalletHistory returns any user's wallet history (Admin only)
func GetUserWalletHistory(c *fiber.Ctx) error {
	var target models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", validators.ID(c, "user_id"), false).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load user!", nil)
	}

	data, err := history(c, target.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}
	data["currentBalance"] = target.WalletBalance
	data["user"] = fiber.Map{"id": target.ID, "name": target.Name, "email": target.Email}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet history fetched!", data)
}
