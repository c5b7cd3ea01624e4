package platformValidator

import (
	"regexp"
	"strings"

	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

var flagKey = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

type FlagInput struct {
	Key               string         `json:"key" validate:"required,min=2,max=100"`
	Description       string         `json:"description" validate:"max=500"`
	Enabled           bool           `json:"enabled"`
	RolloutPercentage int            `json:"rollout_percentage" validate:"gte=0,lte=100"`
	Metadata          datatypes.JSON `json:"metadata"`
}

func (r *FlagInput) Normalize() {
	r.Key = strings.ToLower(strings.TrimSpace(r.Key))
	r.Description = strings.TrimSpace(r.Description)
}

func (r *FlagInput) Check(errors map[string]string) {
	if _, ok := errors["key"]; !ok && !flagKey.MatchString(r.Key) {
		errors["key"] = "Key may only contain lowercase letters, digits, '.', '-' and '_'!"
	}
}

func CreateFlag() fiber.Handler {
	return validators.Body[FlagInput]("validatedFlag")
}

type FlagUpdateInput struct {
	Description       *string        `json:"description" validate:"omitempty,max=500"`
	Enabled           *bool          `json:"enabled"`
	RolloutPercentage *int           `json:"rollout_percentage" validate:"omitempty,gte=0,lte=100"`
	Metadata          datatypes.JSON `json:"metadata"`
}

func UpdateFlag() fiber.Handler {
	return validators.Body[FlagUpdateInput]("validatedFlagUpdate")
}

type OverrideInput struct {
	Scope    string `json:"scope" validate:"required,oneof=USER ORG"`
	TargetID uint   `json:"target_id" validate:"required"`
	Value    bool   `json:"value"`
}

func (r *OverrideInput) Normalize() {
	r.Scope = strings.ToUpper(strings.TrimSpace(r.Scope))
}

func SetOverride() fiber.Handler {
	return validators.Body[OverrideInput]("validatedOverride")
}

// EvaluateQuery carries the caller's organisation; the user comes from the token
type EvaluateQuery struct {
	OrgID uint `query:"org_id"`
}

func Evaluate() fiber.Handler {
	return validators.Query[EvaluateQuery]("validatedEvaluate")
}
