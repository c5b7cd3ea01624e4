package platformController

import (
	"errors"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models/platform"
	"learnhub/services/events"
	"learnhub/services/featureflag"
	"learnhub/utils"
	"learnhub/validators"
	platformValidator "learnhub/validators/platform"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func findFlag(c *fiber.Ctx) (*platform.FeatureFlag, error) {
	var flag platform.FeatureFlag
	if err := database.Database.Db.First(&flag, validators.ID(c, "flag_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Feature flag not found!", nil)
		}
		return nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load feature flag!", nil)
	}
	return &flag, nil
}

// CreateFlag creates a feature flag (Admin only)
func CreateFlag(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedFlag").(*platformValidator.FlagInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var existing int64
	db.Model(&platform.FeatureFlag{}).Where("flag_key = ?", reqData.Key).Count(&existing)
	if existing > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Feature flag key already exists!", nil)
	}

	flag := platform.FeatureFlag{
		Key:               reqData.Key,
		Description:       reqData.Description,
		Enabled:           reqData.Enabled,
		RolloutPercentage: reqData.RolloutPercentage,
		Metadata:          reqData.Metadata,
	}
	if err := db.Create(&flag).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create feature flag!", nil)
	}

	utils.Broadcast(events.FeatureFlagChanged, "feature_flag", flag.ID, flag)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Feature flag created successfully!", flag)
}

// ListFlags lists every flag (Admin only)
func ListFlags(c *fiber.Ctx) error {
	page := validators.PageOf(c)
	db := database.Database.Db.Model(&platform.FeatureFlag{})

	var total int64
	db.Count(&total)

	var flags []platform.FeatureFlag
	if err := db.Offset(page.Offset()).Limit(page.Limit).Order("flag_key asc").Find(&flags).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch feature flags!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feature flags fetched successfully!", fiber.Map{
		"flags":      flags,
		"pagination": page.Meta(total),
	})
}

// GetFlag returns a flag with its overrides (Admin only)
func GetFlag(c *fiber.Ctx) error {
	flag, err := findFlag(c)
	if flag == nil {
		return err
	}

	var overrides []platform.FeatureFlagOverride
	database.Database.Db.Where("flag_id = ?", flag.ID).Order("scope asc, target_id asc").Find(&overrides)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feature flag fetched successfully!", fiber.Map{
		"flag":      flag,
		"overrides": overrides,
	})
}

// UpdateFlag changes a flag (Admin only)
func UpdateFlag(c *fiber.Ctx) error {
	flag, err := findFlag(c)
	if flag == nil {
		return err
	}

	reqData, ok := c.Locals("validatedFlagUpdate").(*platformValidator.FlagUpdateInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Description != nil {
		flag.Description = *reqData.Description
	}
	if reqData.Enabled != nil {
		flag.Enabled = *reqData.Enabled
	}
	if reqData.RolloutPercentage != nil {
		flag.RolloutPercentage = *reqData.RolloutPercentage
	}
	if reqData.Metadata != nil {
		flag.Metadata = reqData.Metadata
	}

	if err := database.Database.Db.Save(flag).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update feature flag!", nil)
	}

	utils.Broadcast(events.FeatureFlagChanged, "feature_flag", flag.ID, flag)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feature flag updated successfully!", flag)
}

// DeleteFlag removes a flag and its overrides (Admin only)
func DeleteFlag(c *fiber.Ctx) error {
	flag, err := findFlag(c)
	if flag == nil {
		return err
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("flag_id = ?", flag.ID).Delete(&platform.FeatureFlagOverride{}).Error; err != nil {
			return err
		}
		// hard delete frees the key for reuse
		return tx.Unscoped().Delete(flag).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete feature flag!", nil)
	}

	utils.Broadcast(events.FeatureFlagChanged, "feature_flag", flag.ID, fiber.Map{"key": flag.Key, "deleted": true})
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feature flag deleted successfully!", nil)
}

// SetFlagOverride creates or replaces a user or organisation override (Admin only)
func SetFlagOverride(c *fiber.Ctx) error {
	flag, err := findFlag(c)
	if flag == nil {
		return err
	}

	reqData, ok := c.Locals("validatedOverride").(*platformValidator.OverrideInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	override := platform.FeatureFlagOverride{
		FlagID:   flag.ID,
		Scope:    reqData.Scope,
		TargetID: reqData.TargetID,
		Value:    reqData.Value,
	}
	if err := database.Database.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "flag_id"}, {Name: "scope"}, {Name: "target_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&override).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save override!", nil)
	}

	utils.Broadcast(events.FeatureFlagChanged, "feature_flag", flag.ID, fiber.Map{"key": flag.Key, "override": override})
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Override saved successfully!", override)
}

// DeleteFlagOverride removes one override (Admin only)
func DeleteFlagOverride(c *fiber.Ctx) error {
	flag, err := findFlag(c)
	if flag == nil {
		return err
	}

	result := database.Database.Db.Unscoped().
		Where("id = ? AND flag_id = ?", validators.ID(c, "override_id"), flag.ID).
		Delete(&platform.FeatureFlagOverride{})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete override!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Override not found!", nil)
	}

	utils.Broadcast(events.FeatureFlagChanged, "feature_flag", flag.ID, fiber.Map{"key": flag.Key})
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Override deleted successfully!", nil)
}

// callerOrg prefers the org from the query and falls back to the user's own
func callerOrg(c *fiber.Ctx, userOrg uint) uint {
	if q, ok := c.Locals("validatedEvaluate").(*platformValidator.EvaluateQuery); ok && q.OrgID > 0 {
		return q.OrgID
	}
	return userOrg
}

// EvaluateFlag tells the caller whether one flag is on for them
func EvaluateFlag(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	decision, err := featureflag.NewEvaluator(database.Database.Db).
		Evaluate(c.UserContext(), c.Params("key"), user.ID, callerOrg(c, user.OrgID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to evaluate feature flag!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feature flag evaluated successfully!", decision)
}

// EvaluateAllFlags evaluates every enabled flag for the caller
func EvaluateAllFlags(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	decisions, err := featureflag.NewEvaluator(database.Database.Db).
		EvaluateAll(c.UserContext(), user.ID, callerOrg(c, user.OrgID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to evaluate feature flags!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feature flags evaluated successfully!", decisions)
}
