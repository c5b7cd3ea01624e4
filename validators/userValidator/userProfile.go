package userValidator

import (
	"strings"

	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

type ProfileInput struct {
	Name string `json:"name" validate:"required,min=3,max=100,excludesall=<>{}"`
}

func (r *ProfileInput) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// UpdateProfile validates the editable profile fields
func UpdateProfile() fiber.Handler {
	return validators.Body[ProfileInput]("validatedProfile")
}
