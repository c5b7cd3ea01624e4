package superAdminController

import (
	"errors"
	"log"
	"strings"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/validators"
	superAdminValidator "learnhub/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func UserList(c *fiber.Ctx) error {
	reqData, ok := c.Locals("list").(*superAdminValidator.UserListQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	page := validators.PageOf(c)

	db := database.Database.Db.Model(&models.User{}).Where("is_deleted = ?", false)
	if reqData.Role != "" {
		db = db.Where("role = ?", reqData.Role)
	}
	if reqData.Search != "" {
		pattern := "%" + strings.ToLower(reqData.Search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var total int64
	db.Count(&total)

	var users []models.User
	if err := db.Offset(page.Offset()).Limit(page.Limit).Order("created_at desc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user list!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User List.", fiber.Map{
		"users":      users,
		"pagination": page.Meta(total),
	})
}

// RegisterUser provisions a platform user. Credentials stay with the identity provider.
func RegisterUser(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*superAdminValidator.CreateUserInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	newUser := models.User{
		Name:          reqData.Name,
		Email:         reqData.Email,
		Role:          reqData.Role,
		OrgID:         reqData.OrgID,
		WalletBalance: decimal.Zero,
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

func findUser(c *fiber.Ctx) (*models.User, error) {
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", validators.ID(c, "user_id"), false).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		return nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load user!", nil)
	}
	return &user, nil
}

// ChangeRole sets the user's role. Admins cannot demote themselves.
func ChangeRole(c *fiber.Ctx) error {
	admin, err := middleware.CurrentUser(c)
	if admin == nil {
		return err
	}
	user, err := findUser(c)
	if user == nil {
		return err
	}

	reqData, ok := c.Locals("validatedRole").(*superAdminValidator.RoleInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if user.ID == admin.ID && reqData.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot remove your own admin role!", nil)
	}

	if err := database.Database.Db.Model(user).Update("role", reqData.Role).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to change role!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Role updated successfully.", user)
}

// BlockUser blocks or unblocks a user
func BlockUser(c *fiber.Ctx) error {
	admin, err := middleware.CurrentUser(c)
	if admin == nil {
		return err
	}
	user, err := findUser(c)
	if user == nil {
		return err
	}

	reqData, ok := c.Locals("validatedBlock").(*superAdminValidator.BlockInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if user.ID == admin.ID && reqData.Blocked {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot block yourself!", nil)
	}

	if err := database.Database.Db.Model(user).Update("is_blocked", reqData.Blocked).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	message := "User unblocked successfully."
	if reqData.Blocked {
		message = "User blocked successfully."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, user)
}
