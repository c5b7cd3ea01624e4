package billingController

import (
	"time"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models/billing"
	"learnhub/services/events"
	"learnhub/utils"
	"learnhub/validators"
	billingValidator "learnhub/validators/billing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EarningsTotal is the sum of one commission status
type EarningsTotal struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

func earningsByStatus(db *gorm.DB, instructorID uint) ([]EarningsTotal, error) {
	var rows []EarningsTotal
	err := db.Model(&billing.Commission{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(instructor_earning), 0) AS amount").
		Where("instructor_id = ?", instructorID).
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func listCommissions(c *fiber.Ctx, db *gorm.DB) (fiber.Map, error) {
	page := validators.PageOf(c)

	db = db.Model(&billing.Commission{})
	if reqData, ok := c.Locals("validatedCommissionList").(*billingValidator.CommissionListQuery); ok {
		if reqData.Status != "" {
			db = db.Where("status = ?", reqData.Status)
		}
		if reqData.InstructorID != 0 {
			db = db.Where("instructor_id = ?", reqData.InstructorID)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var commissions []billing.Commission
	if err := db.Offset(page.Offset()).Limit(page.Limit).Order("created_at desc, id desc").Find(&commissions).Error; err != nil {
		return nil, err
	}

	return fiber.Map{
		"commissions": commissions,
		"pagination":  page.Meta(total),
	}, nil
}

// GetInstructorEarnings returns the caller's commission totals and history
func GetInstructorEarnings(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	db := database.Database.Db

	totals, err := earningsByStatus(db, user.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch earnings!", nil)
	}

	data, err := listCommissions(c, db.Where("instructor_id = ?", user.ID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch earnings!", nil)
	}

	lifetime := decimal.Zero
	for _, t := range totals {
		if t.Status != billing.CommissionReversed {
			lifetime = lifetime.Add(t.Amount)
		}
	}
	data["totals"] = totals
	data["lifetime_earnings"] = lifetime.Round(2)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Earnings fetched successfully!", data)
}

// AdminListCommissions lists commissions (Admin only)
func AdminListCommissions(c *fiber.Ctx) error {
	data, err := listCommissions(c, database.Database.Db)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch commissions!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Commissions fetched successfully!", data)
}

// PayoutCommissions marks pending commissions as paid out (Admin only).
// Commissions that are not PENDING are skipped.
func PayoutCommissions(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPayout").(*billingValidator.PayoutInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	now := time.Now()

	var paid []billing.Commission
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id IN ? AND status = ?", reqData.CommissionIDs, billing.CommissionPending).Find(&paid).Error; err != nil {
			return err
		}
		if len(paid) == 0 {
			return nil
		}
		ids := make([]uint, len(paid))
		for i, p := range paid {
			ids[i] = p.ID
		}
		return tx.Model(&billing.Commission{}).
			Where("id IN ? AND status = ?", ids, billing.CommissionPending).
			Updates(map[string]interface{}{"status": billing.CommissionPaid, "paid_out_at": now}).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to pay out commissions!", nil)
	}

	total := decimal.Zero
	for i := range paid {
		paid[i].Status = billing.CommissionPaid
		paid[i].PaidOutAt = &now
		total = total.Add(paid[i].InstructorEarning)
		utils.Broadcast(events.CommissionPaidOut, "commission", paid[i].ID, paid[i])
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Commissions paid out successfully!", fiber.Map{
		"paid_count":  len(paid),
		"skipped":     len(reqData.CommissionIDs) - len(paid),
		"total":       total.Round(2),
		"commissions": paid,
	})
}
