package platformValidator

import (
	"strings"

	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// ============ Video ============

type VideoInput struct {
	ContentID uint   `json:"content_id" validate:"required"`
	SourceURL string `json:"source_url" validate:"required,url"`
}

func (r *VideoInput) Normalize() {
	r.SourceURL = strings.TrimSpace(r.SourceURL)
}

func RegisterVideo() fiber.Handler {
	return validators.Body[VideoInput]("validatedVideo")
}

// ============ Webhooks ============

type WebhookInput struct {
	URL      string   `json:"url" validate:"required,http_url"`
	Secret   string   `json:"secret" validate:"required,min=16,max=200"`
	Events   []string `json:"events" validate:"required,min=1,dive,required"`
	IsActive *bool    `json:"is_active"`
}

func (r *WebhookInput) Normalize() {
	r.URL = strings.TrimSpace(r.URL)
	for i, e := range r.Events {
		r.Events[i] = strings.TrimSpace(e)
	}
}

func (r *WebhookInput) Active() bool {
	return r.IsActive == nil || *r.IsActive
}

func CreateWebhook() fiber.Handler {
	return validators.Body[WebhookInput]("validatedWebhook")
}

type WebhookUpdateInput struct {
	URL      *string  `json:"url" validate:"omitempty,http_url"`
	Secret   *string  `json:"secret" validate:"omitempty,min=16,max=200"`
	Events   []string `json:"events" validate:"omitempty,min=1,dive,required"`
	IsActive *bool    `json:"is_active"`
}

func UpdateWebhook() fiber.Handler {
	return validators.Body[WebhookUpdateInput]("validatedWebhookUpdate")
}

// ============ Assistant ============

type ExplainInput struct {
	Question string `json:"question" validate:"max=1000"`
}

func (r *ExplainInput) Normalize() {
	r.Question = strings.TrimSpace(r.Question)
}

func Explain() fiber.Handler {
	return validators.Body[ExplainInput]("validatedExplain")
}

// ============ Analytics & Gamification ============

const (
	DefaultDays = 7
	MaxDays     = 90
)

type DailyQuery struct {
	Days int `query:"days" validate:"gte=0,lte=90"`
}

func (q *DailyQuery) Normalize() {
	if q.Days == 0 {
		q.Days = DefaultDays
	}
}

func Daily() fiber.Handler {
	return validators.Query[DailyQuery]("validatedDaily")
}

type LeaderboardQuery struct {
	Limit int `query:"limit" validate:"gte=0,lte=100"`
}

func Leaderboard() fiber.Handler {
	return validators.Query[LeaderboardQuery]("validatedLeaderboard")
}
