package platformController

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models/platform"
	"learnhub/services/events"
	"learnhub/services/webhook"
	"learnhub/validators"
	platformValidator "learnhub/validators/platform"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const pingTimeout = 30 * time.Second

// eventList checks subscribed names against the known events and joins them
func eventList(names []string) (string, map[string]string) {
	seen := make(map[string]bool, len(names))
	var list []string
	for i, name := range names {
		if name != "*" && !events.IsKnown(name) {
			return "", map[string]string{fmt.Sprintf("events[%d]", i): fmt.Sprintf("Unknown event %q!", name)}
		}
		if !seen[name] {
			seen[name] = true
			list = append(list, name)
		}
	}
	return strings.Join(list, ","), nil
}

// CreateWebhook registers an outbound endpoint (Admin only)
func CreateWebhook(c *fiber.Ctx) error {
	admin, err := middleware.CurrentUser(c)
	if admin == nil {
		return err
	}

	reqData, ok := c.Locals("validatedWebhook").(*platformValidator.WebhookInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	subscribed, invalid := eventList(reqData.Events)
	if invalid != nil {
		return middleware.ValidationErrorResponse(c, invalid)
	}

	hook := platform.Webhook{
		URL:       reqData.URL,
		Secret:    reqData.Secret,
		Events:    subscribed,
		IsActive:  reqData.Active(),
		CreatedBy: admin.ID,
	}
	if err := database.Database.Db.Create(&hook).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create webhook!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Webhook created successfully!", hook)
}

// ListWebhooks lists registered endpoints (Admin only)
func ListWebhooks(c *fiber.Ctx) error {
	page := validators.PageOf(c)
	db := database.Database.Db.Model(&platform.Webhook{}).Where("is_deleted = ?", false)

	var total int64
	db.Count(&total)

	var hooks []platform.Webhook
	if err := db.Offset(page.Offset()).Limit(page.Limit).Order("created_at desc").Find(&hooks).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch webhooks!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhooks fetched successfully!", fiber.Map{
		"webhooks":   hooks,
		"pagination": page.Meta(total),
	})
}

func findWebhook(c *fiber.Ctx) (*platform.Webhook, error) {
	var hook platform.Webhook
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", validators.ID(c, "webhook_id"), false).
		First(&hook).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Webhook not found!", nil)
		}
		return nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load webhook!", nil)
	}
	return &hook, nil
}

// UpdateWebhook changes an endpoint (Admin only)
func UpdateWebhook(c *fiber.Ctx) error {
	hook, err := findWebhook(c)
	if hook == nil {
		return err
	}

	reqData, ok := c.Locals("validatedWebhookUpdate").(*platformValidator.WebhookUpdateInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.URL != nil {
		hook.URL = strings.TrimSpace(*reqData.URL)
	}
	if reqData.Secret != nil {
		hook.Secret = *reqData.Secret
	}
	if len(reqData.Events) > 0 {
		subscribed, invalid := eventList(reqData.Events)
		if invalid != nil {
			return middleware.ValidationErrorResponse(c, invalid)
		}
		hook.Events = subscribed
	}
	if reqData.IsActive != nil {
		hook.IsActive = *reqData.IsActive
	}

	if err := database.Database.Db.Save(hook).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update webhook!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook updated successfully!", hook)
}

// DeleteWebhook soft deletes an endpoint (Admin only)
func DeleteWebhook(c *fiber.Ctx) error {
	hook, err := findWebhook(c)
	if hook == nil {
		return err
	}

	if err := database.Database.Db.Model(hook).Updates(map[string]interface{}{
		"is_deleted": true,
		"is_active":  false,
	}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete webhook!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook deleted successfully!", nil)
}

// ListWebhookDeliveries lists the delivery log of an endpoint (Admin only)
func ListWebhookDeliveries(c *fiber.Ctx) error {
	hook, err := findWebhook(c)
	if hook == nil {
		return err
	}

	page := validators.PageOf(c)
	db := database.Database.Db.Model(&platform.WebhookDelivery{}).Where("webhook_id = ?", hook.ID)
	if status := strings.ToUpper(c.Query("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	var deliveries []platform.WebhookDelivery
	if err := db.Offset(page.Offset()).Limit(page.Limit).Order("created_at desc").Find(&deliveries).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch deliveries!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deliveries fetched successfully!", fiber.Map{
		"deliveries": deliveries,
		"pagination": page.Meta(total),
	})
}

// PingWebhook sends a webhook.ping synchronously and returns the delivery (Admin only)
func PingWebhook(c *fiber.Ctx) error {
	hook, err := findWebhook(c)
	if hook == nil {
		return err
	}

	if webhook.Default == nil {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Webhook delivery is unavailable!", nil)
	}

	ctx, cancel := contextWithTimeout(c, pingTimeout)
	defer cancel()

	delivery, err := webhook.Default.Deliver(ctx, *hook, webhook.EventPing, fiber.Map{
		"webhook_id": hook.ID,
		"message":    "ping",
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Ping delivery failed!", delivery)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ping delivered successfully!", delivery)
}
