package courseValidator

import (
	"strings"

	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (r *ReviewInput) Normalize() {
	r.Comment = strings.TrimSpace(r.Comment)
}

func CreateReview() fiber.Handler {
	return validators.Body[ReviewInput]("validatedReview")
}

type ReviewUpdateInput struct {
	Rating  *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

func (r *ReviewUpdateInput) Normalize() {
	trim(r.Comment)
}

func UpdateReview() fiber.Handler {
	return validators.Body[ReviewUpdateInput]("validatedReviewUpdate")
}
