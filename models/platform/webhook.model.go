package platform

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Webhook is an outbound endpoint subscribed to platform events
type Webhook struct {
	gorm.Model
	URL       string `json:"url" gorm:"not null"`
	Secret    string `json:"-" gorm:"not null"`
	Events    string `json:"events" gorm:"not null"` // comma separated event names or *
	IsActive  bool   `json:"is_active"`
	CreatedBy uint   `json:"created_by"`
	IsDeleted bool   `json:"-" gorm:"default:false"`
}

// Subscribed reports whether the webhook wants the given event
func (w Webhook) Subscribed(event string) bool {
	for _, e := range strings.Split(w.Events, ",") {
		e = strings.TrimSpace(e)
		if e == "*" || e == event {
			return true
		}
	}
	return false
}

const (
	DeliverySuccess = "SUCCESS"
	DeliveryFailed  = "FAILED"
)

// WebhookDelivery records the outcome of sending one event to one webhook
type WebhookDelivery struct {
	gorm.Model
	WebhookID      uint           `json:"webhook_id" gorm:"index;not null"`
	DeliveryID     string         `json:"delivery_id" gorm:"type:varchar(64);uniqueIndex"`
	Event          string         `json:"event" gorm:"type:varchar(100);index"`
	Payload        datatypes.JSON `json:"payload"`
	Status         string         `json:"status" gorm:"type:varchar(20)"`
	Attempts       int            `json:"attempts"`
	LastStatusCode int            `json:"last_status_code"`
	LastError      string         `json:"last_error" gorm:"type:text"`
	DeliveredAt    *time.Time     `json:"delivered_at"`
}
