package middleware

import (
	"errors"

	"learnhub/database"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CurrentUser loads the caller set by JWTMiddleware. Deleted and blocked
// users are rejected.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if cached, ok := c.Locals("currentUser").(*models.User); ok && cached.ID == userID {
		return cached, nil
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}
		return nil, JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while loading user!", nil)
	}

	if user.IsBlocked {
		return nil, JsonResponse(c, fiber.StatusForbidden, false, "Your account is blocked!", nil)
	}

	c.Locals("currentUser", &user)
	return &user, nil
}

// RequireRole returns a middleware that only lets the listed roles through
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if user == nil {
			return err
		}

		if !allowed[user.Role] {
			return JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
		}

		return c.Next()
	}
}

// AdminOnly is RequireRole(ADMIN)
var AdminOnly = RequireRole(models.RoleAdmin)
