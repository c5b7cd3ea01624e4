package billingController_test

import (
	"fmt"
	"testing"

	"learnhub/models"
	"learnhub/models/billing"
	courseModels "learnhub/models/course"
	"learnhub/routers"
	"learnhub/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func paidCourse(t *testing.T, db *gorm.DB, instructorID uint, price string) courseModels.Course {
	t.Helper()
	course := courseModels.Course{
		Title:        "Distributed Systems",
		Description:  "Consensus and friends",
		Author:       "Core Team",
		InstructorID: instructorID,
		Price:        decimal.RequireFromString(price),
		Status:       courseModels.CourseStatusActive,
		IsPublished:  true,
	}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func balanceOf(t *testing.T, db *gorm.DB, userID uint) decimal.Decimal {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	return user.WalletBalance
}

func TestCheckoutWithCouponAndRefund(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := routers.New(routers.Options{})

	admin := testutil.CreateUser(t, db, "Billing Admin", models.RoleAdmin, 0)
	instructor := testutil.CreateUser(t, db, "Ines Instructor", models.RoleInstructor, 0)
	buyer := testutil.CreateUser(t, db, "Bo Buyer", models.RoleUser, 100)
	second := testutil.CreateUser(t, db, "Sam Second", models.RoleUser, 100)
	adminToken := testutil.Token(t, admin)
	buyerToken := testutil.Token(t, buyer)

	course := paidCourse(t, db, instructor.ID, "50")

	resp := testutil.Do(t, app, "POST", "/admin/billing/coupons", adminToken, fiber.Map{
		"code":           "save20",
		"discount_type":  "percentage",
		"discount_value": "20",
		"max_uses":       1,
	})
	require.Equal(t, fiber.StatusCreated, resp.Code, resp.Message)
	var coupon billing.Coupon
	resp.Decode(t, &coupon)
	assert.Equal(t, "SAVE20", coupon.Code)

	resp = testutil.Do(t, app, "POST", "/billing/coupon/validate", buyerToken, fiber.Map{"code": "save20", "course_id": course.ID})
	require.Equal(t, fiber.StatusOK, resp.Code, resp.Message)

	resp = testutil.Do(t, app, "POST", "/billing/checkout", buyerToken, fiber.Map{"course_id": course.ID, "coupon_code": "save20"})
	require.Equal(t, fiber.StatusCreated, resp.Code, resp.Message)

	var result struct {
		Payment    billing.Payment     `json:"payment"`
		Commission *billing.Commission `json:"commission"`
	}
	resp.Decode(t, &result)
	assert.True(t, result.Payment.Amount.Equal(decimal.NewFromInt(40)), result.Payment.Amount.String())
	assert.True(t, result.Payment.DiscountAmount.Equal(decimal.NewFromInt(10)))
	require.NotNil(t, result.Commission)
	assert.True(t, result.Commission.PlatformFee.Equal(decimal.NewFromInt(12)), result.Commission.PlatformFee.String())
	assert.True(t, result.Commission.InstructorEarning.Equal(decimal.NewFromInt(28)))
	assert.True(t, balanceOf(t, db, buyer.ID).Equal(decimal.NewFromInt(60)))

	var used billing.Coupon
	require.NoError(t, db.First(&used, coupon.ID).Error)
	assert.Equal(t, 1, used.UsedCount)

	resp = testutil.Do(t, app, "POST", "/billing/checkout", buyerToken, fiber.Map{"course_id": course.ID})
	assert.Equal(t, fiber.StatusConflict, resp.Code)

	resp = testutil.Do(t, app, "POST", "/billing/checkout", testutil.Token(t, second), fiber.Map{"course_id": course.ID, "coupon_code": "SAVE20"})
	assert.Equal(t, fiber.StatusConflict, resp.Code)
	assert.Equal(t, "Coupon usage limit reached!", resp.Message)

	resp = testutil.Do(t, app, "GET", "/billing/earnings", testutil.Token(t, instructor), nil)
	require.Equal(t, fiber.StatusOK, resp.Code, resp.Message)
	var earnings struct {
		Lifetime decimal.Decimal `json:"lifetime_earnings"`
	}
	resp.Decode(t, &earnings)
	assert.True(t, earnings.Lifetime.Equal(decimal.NewFromInt(28)), earnings.Lifetime.String())

	refund := fmt.Sprintf("/admin/billing/payments/%d/refund", result.Payment.ID)
	resp = testutil.Do(t, app, "POST", refund, adminToken, fiber.Map{"reason": "Changed my mind"})
	require.Equal(t, fiber.StatusOK, resp.Code, resp.Message)
	assert.True(t, balanceOf(t, db, buyer.ID).Equal(decimal.NewFromInt(100)))

	var enrolled int64
	db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND course_id = ? AND is_deleted = ?", buyer.ID, course.ID, false).Count(&enrolled)
	assert.Zero(t, enrolled)

	var commission billing.Commission
	require.NoError(t, db.Where("payment_id = ?", result.Payment.ID).First(&commission).Error)
	assert.Equal(t, billing.CommissionReversed, commission.Status)

	resp = testutil.Do(t, app, "POST", refund, adminToken, fiber.Map{"reason": "Again please"})
	assert.Equal(t, fiber.StatusConflict, resp.Code)
}

func TestCheckoutInsufficientBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := routers.New(routers.Options{})

	buyer := testutil.CreateUser(t, db, "Low Balance", models.RoleUser, 10)
	course := paidCourse(t, db, 0, "25")

	resp := testutil.Do(t, app, "POST", "/billing/checkout", testutil.Token(t, buyer), fiber.Map{"course_id": course.ID})
	assert.Equal(t, fiber.StatusPaymentRequired, resp.Code)

	var payments, enrollments int64
	db.Model(&billing.Payment{}).Count(&payments)
	db.Model(&courseModels.Enrollment{}).Count(&enrollments)
	assert.Zero(t, payments)
	assert.Zero(t, enrollments)
	assert.True(t, balanceOf(t, db, buyer.ID).Equal(decimal.NewFromInt(10)))
}

func TestDepositIsCreditedOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := routers.New(routers.Options{})

	user := testutil.CreateUser(t, db, "Dee Positor", models.RoleUser, 0)
	token := testutil.Token(t, user)
	body := fiber.Map{"amount": "75.50", "payment_gateway": "razorpay", "payment_id": "pay_123"}

	resp := testutil.Do(t, app, "POST", "/wallet/deposit", token, body)
	require.Equal(t, fiber.StatusOK, resp.Code, resp.Message)

	resp = testutil.Do(t, app, "POST", "/wallet/deposit", token, body)
	assert.Equal(t, fiber.StatusConflict, resp.Code)

	resp = testutil.Do(t, app, "POST", "/wallet/deposit", token, fiber.Map{"amount": "0", "payment_gateway": "razorpay", "payment_id": "pay_124"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.Code)

	assert.True(t, balanceOf(t, db, user.ID).Equal(decimal.RequireFromString("75.5")))

	resp = testutil.Do(t, app, "GET", "/wallet/history?type=deposit", token, nil)
	require.Equal(t, fiber.StatusOK, resp.Code, resp.Message)
	var history struct {
		Transactions []billing.WalletTransaction `json:"transactions"`
	}
	resp.Decode(t, &history)
	require.Len(t, history.Transactions, 1)
	require.NotNil(t, history.Transactions[0].PaymentID)
	assert.Equal(t, "pay_123", *history.Transactions[0].PaymentID)
}

func TestEarningsRequireInstructorRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := routers.New(routers.Options{})

	learner := testutil.CreateUser(t, db, "Plain Learner", models.RoleUser, 0)
	resp := testutil.Do(t, app, "GET", "/billing/earnings", testutil.Token(t, learner), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.Code)
}
