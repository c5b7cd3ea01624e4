package courseValidator

import (
	"strings"

	courseModels "learnhub/models/course"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

type ContentInput struct {
	Day         int    `json:"day" validate:"gte=0"`
	Title       string `json:"title" validate:"required,min=3,max=200,excludesall=<>{}"`
	Description string `json:"description" validate:"max=1000"`
	ContentType string `json:"content_type" validate:"required,oneof=TEXT MCQ VIDEO IMAGE"`
	TextContent string `json:"text_content"`
	VideoURL    string `json:"video_url" validate:"omitempty,url"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}

func (r *ContentInput) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.ContentType = strings.ToUpper(strings.TrimSpace(r.ContentType))
	if r.Day == 0 {
		r.Day = 1
	}
}

func (r *ContentInput) Check(errors map[string]string) {
	switch r.ContentType {
	case courseModels.ContentTypeText:
		if strings.TrimSpace(r.TextContent) == "" {
			errors["text_content"] = "Text content is required for TEXT content!"
		}
	case courseModels.ContentTypeImage:
		if r.ImageURL == "" {
			errors["image_url"] = "Image URL is required for IMAGE content!"
		}
	}
}

// CreateContentAdmin validates content creation inside a module
func CreateContentAdmin() fiber.Handler {
	return validators.Body[ContentInput]("validatedContent")
}

type ContentUpdateInput struct {
	Day         *int    `json:"day" validate:"omitempty,gte=1"`
	Title       *string `json:"title" validate:"omitempty,min=3,max=200,excludesall=<>{}"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	TextContent *string `json:"text_content"`
	VideoURL    *string `json:"video_url" validate:"omitempty,url"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	OrderIndex  *int    `json:"order_index" validate:"omitempty,gte=0"`
}

func (r *ContentUpdateInput) Normalize() {
	trim(r.Title, r.Description)
}

func UpdateContentAdmin() fiber.Handler {
	return validators.Body[ContentUpdateInput]("validatedContentUpdate")
}

func PublishContentAdmin() fiber.Handler {
	return validators.Query[PublishQuery]("publishStatus")
}

// ============ MCQ Validators ============

type MCQOptionInput struct {
	OptionText string `json:"option_text" validate:"required,max=500"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex int    `json:"order_index" validate:"gte=0"`
}

func (r *MCQOptionInput) Normalize() {
	r.OptionText = strings.TrimSpace(r.OptionText)
}

func AddMCQOption() fiber.Handler {
	return validators.Body[MCQOptionInput]("validatedMCQOption")
}

type MCQOptionUpdateInput struct {
	OptionText *string `json:"option_text" validate:"omitempty,min=1,max=500"`
	IsCorrect  *bool   `json:"is_correct"`
	OrderIndex *int    `json:"order_index" validate:"omitempty,gte=0"`
}

func (r *MCQOptionUpdateInput) Normalize() {
	trim(r.OptionText)
}

func UpdateMCQOption() fiber.Handler {
	return validators.Body[MCQOptionUpdateInput]("validatedMCQOptionUpdate")
}

// MCQSubmitInput is checked for an empty selection by the handler
type MCQSubmitInput struct {
	SelectedOptionIDs []uint `json:"selected_option_ids"`
}

func SubmitMCQ() fiber.Handler {
	return validators.Body[MCQSubmitInput]("validatedMCQSubmit")
}
