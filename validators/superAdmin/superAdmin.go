package superAdminValidator

import (
	"strings"

	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

type UserListQuery struct {
	Role   string `query:"role" validate:"omitempty,oneof=USER INSTRUCTOR ADMIN"`
	Search string `query:"search" validate:"max=100"`
}

func (q *UserListQuery) Normalize() {
	q.Role = strings.ToUpper(strings.TrimSpace(q.Role))
	q.Search = strings.TrimSpace(q.Search)
}

func List() fiber.Handler {
	return validators.Query[UserListQuery]("list")
}

type CreateUserInput struct {
	Name  string `json:"name" validate:"required,min=3,max=100,excludesall=<>{}"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=USER INSTRUCTOR ADMIN"`
	OrgID uint   `json:"org_id"`
}

func (r *CreateUserInput) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
	if r.Role == "" {
		r.Role = "USER"
	}
}

// RegisterUser validates admin provisioning of a platform user
func RegisterUser() fiber.Handler {
	return validators.Body[CreateUserInput]("validatedUser")
}

type RoleInput struct {
	Role string `json:"role" validate:"required,oneof=USER INSTRUCTOR ADMIN"`
}

func (r *RoleInput) Normalize() {
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
}

func ChangeRole() fiber.Handler {
	return validators.Body[RoleInput]("validatedRole")
}

type BlockInput struct {
	Blocked bool `json:"blocked"`
}

func Block() fiber.Handler {
	return validators.Body[BlockInput]("validatedBlock")
}
