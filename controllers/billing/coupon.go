package billingController

import (
	"errors"
	"time"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models/billing"
	courseModels "learnhub/models/course"
	"learnhub/services/pricing"
	"learnhub/validators"
	billingValidator "learnhub/validators/billing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// couponError maps pricing failures onto responses
func couponError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, pricing.ErrCouponInactive):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Coupon is not active!", nil)
	case errors.Is(err, pricing.ErrCouponExpired):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Coupon has expired!", nil)
	case errors.Is(err, pricing.ErrCouponExhausted):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Coupon usage limit reached!", nil)
	case errors.Is(err, pricing.ErrCouponNotForCourse):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Coupon does not apply to this course!", nil)
	case errors.Is(err, pricing.ErrBelowMinimum):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Order amount is below the coupon minimum!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Coupon cannot be applied!", nil)
	}
}

func findCouponByCode(db *gorm.DB, code string) (billing.Coupon, error) {
	var coupon billing.Coupon
	err := db.Where("code = ? AND is_deleted = ?", code, false).First(&coupon).Error
	return coupon, err
}

// CreateCoupon creates a discount code (Admin only)
func CreateCoupon(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCoupon").(*billingValidator.CouponInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var existing int64
	db.Model(&billing.Coupon{}).Where("code = ?", reqData.Code).Count(&existing)
	if existing > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Coupon code already exists!", nil)
	}

	if reqData.CourseID != 0 {
		var course int64
		db.Model(&courseModels.Course{}).Where("id = ? AND is_deleted = ?", reqData.CourseID, false).Count(&course)
		if course == 0 {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
	}

	coupon := billing.Coupon{
		Code:           reqData.Code,
		Description:    reqData.Description,
		DiscountType:   reqData.DiscountType,
		DiscountValue:  reqData.DiscountValue.Round(2),
		MaxUses:        reqData.MaxUses,
		MinOrderAmount: reqData.MinOrderAmount.Round(2),
		CourseID:       reqData.CourseID,
		ExpiresAt:      reqData.ExpiresAt,
		IsActive:       reqData.Active(),
	}

	if err := db.Create(&coupon).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create coupon!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Coupon created successfully!", coupon)
}

// ListCoupons lists coupons (Admin only)
func ListCoupons(c *fiber.Ctx) error {
	page := validators.PageOf(c)

	db := database.Database.Db.Model(&billing.Coupon{}).Where("is_deleted = ?", false)

	var total int64
	db.Count(&total)

	var coupons []billing.Coupon
	if err := db.Offset(page.Offset()).Limit(page.Limit).Order("created_at desc").Find(&coupons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch coupons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupons fetched successfully!", fiber.Map{
		"coupons":    coupons,
		"pagination": page.Meta(total),
	})
}

func findCoupon(c *fiber.Ctx) (*billing.Coupon, error) {
	var coupon billing.Coupon
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", validators.ID(c, "coupon_id"), false).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Coupon not found!", nil)
		}
		return nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load coupon!", nil)
	}
	return &coupon, nil
}

// GetCoupon returns one coupon (Admin only)
func GetCoupon(c *fiber.Ctx) error {
	coupon, err := findCoupon(c)
	if coupon == nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupon fetched successfully!", coupon)
}

// UpdateCoupon changes a coupon (Admin only)
func UpdateCoupon(c *fiber.Ctx) error {
	coupon, err := findCoupon(c)
	if coupon == nil {
		return err
	}

	reqData, ok := c.Locals("validatedCouponUpdate").(*billingValidator.CouponUpdateInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Description != nil {
		coupon.Description = *reqData.Description
	}
	if reqData.DiscountValue != nil {
		if coupon.DiscountType == billing.DiscountPercentage && reqData.DiscountValue.GreaterThan(hundred) {
			return middleware.ValidationErrorResponse(c, map[string]string{"discount_value": "Percentage discount cannot exceed 100!"})
		}
		coupon.DiscountValue = reqData.DiscountValue.Round(2)
	}
	if reqData.MaxUses != nil {
		coupon.MaxUses = *reqData.MaxUses
	}
	if reqData.MinOrderAmount != nil {
		coupon.MinOrderAmount = reqData.MinOrderAmount.Round(2)
	}
	if reqData.ExpiresAt != nil {
		coupon.ExpiresAt = reqData.ExpiresAt
	}
	if reqData.IsActive != nil {
		coupon.IsActive = *reqData.IsActive
	}

	if err := database.Database.Db.Save(coupon).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update coupon!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupon updated successfully!", coupon)
}

// DeleteCoupon soft deletes a coupon (Admin only)
func DeleteCoupon(c *fiber.Ctx) error {
	coupon, err := findCoupon(c)
	if coupon == nil {
		return err
	}

	if err := database.Database.Db.Model(coupon).Updates(map[string]interface{}{"is_deleted": true, "is_active": false}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete coupon!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupon deleted successfully!", nil)
}

// ValidateCoupon quotes a coupon against a course without consuming it
func ValidateCoupon(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCouponCheck").(*billingValidator.ValidateCouponInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := findPurchasableCourse(c, reqData.CourseID)
	if course == nil {
		return err
	}

	coupon, err := findCouponByCode(database.Database.Db, reqData.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Coupon not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load coupon!", nil)
	}

	quote, err := pricing.ApplyCoupon(coupon, course.Price, course.ID, time.Now())
	if err != nil {
		return couponError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupon is valid!", quote)
}
