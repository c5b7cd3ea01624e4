// Package webhook delivers signed platform events to subscriber endpoints.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"learnhub/metrics"
	"learnhub/models/platform"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	HeaderSignature = "X-Webhook-Signature"
	HeaderEvent     = "X-Webhook-Event"
	HeaderDelivery  = "X-Webhook-Delivery"

	// EventPing is sent by the ping endpoint only
	EventPing = "webhook.ping"
)

// Default is the dispatcher used by the HTTP handlers; nil until main sets it.
var Default *Dispatcher

// Envelope is the JSON body posted to subscribers
type Envelope struct {
	ID        string      `json:"id"`
	Event     string      `json:"event"`
	CreatedAt time.Time   `json:"created_at"`
	Data      interface{} `json:"data"`
}

// StatusError is a non-2xx answer from a subscriber
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("subscriber responded with status %d", e.Code)
}

type Dispatcher struct {
	db       *gorm.DB
	client   *resty.Client
	attempts uint
	delay    time.Duration
}

func NewDispatcher(db *gorm.DB, timeout time.Duration, attempts int, delay time.Duration) *Dispatcher {
	if attempts < 1 {
		attempts = 1
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "LearnHub-Webhooks/1.0")

	return &Dispatcher{
		db:       db,
		client:   client,
		attempts: uint(attempts),
		delay:    delay,
	}
}

// Sign returns the signature header value for body
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a signature header value in constant time
func Verify(secret string, body []byte, signature string) bool {
	return hmac.Equal([]byte(Sign(secret, body)), []byte(signature))
}

// Dispatch sends event to every active webhook subscribed to it and returns
// how many deliveries succeeded.
func (d *Dispatcher) Dispatch(ctx context.Context, event string, data interface{}) (int, error) {
	var hooks []platform.Webhook
	if err := d.db.WithContext(ctx).
		Where("is_active = ? AND is_deleted = ?", true, false).
		Find(&hooks).Error; err != nil {
		return 0, err
	}

	var targets []platform.Webhook
	for _, h := range hooks {
		if h.Subscribed(event) {
			targets = append(targets, h)
		}
	}
	if len(targets) == 0 {
		return 0, nil
	}

	results := make([]bool, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, hook := range targets {
		i, hook := i, hook
		g.Go(func() error {
			delivery, err := d.Deliver(gctx, hook, event, data)
			if err != nil {
				log.Printf("[WEBHOOK] delivery %s of %s to webhook %d failed: %v", delivery.DeliveryID, event, hook.ID, err)
				return nil
			}
			results[i] = true
			return nil
		})
	}
	_ = g.Wait()

	delivered := 0
	for _, ok := range results {
		if ok {
			delivered++
		}
	}
	return delivered, nil
}

// Deliver posts one event to one webhook with retries and records the outcome
func (d *Dispatcher) Deliver(ctx context.Context, hook platform.Webhook, event string, data interface{}) (platform.WebhookDelivery, error) {
	env := Envelope{
		ID:        uuid.NewString(),
		Event:     event,
		CreatedAt: time.Now().UTC(),
		Data:      data,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return platform.WebhookDelivery{DeliveryID: env.ID}, err
	}

	delivery := platform.WebhookDelivery{
		WebhookID:  hook.ID,
		DeliveryID: env.ID,
		Event:      event,
		Payload:    datatypes.JSON(body),
	}

	signature := Sign(hook.Secret, body)
	sendErr := retry.Do(
		func() error {
			delivery.Attempts++
			code, err := d.post(ctx, hook.URL, event, env.ID, signature, body)
			delivery.LastStatusCode = code
			return err
		},
		retry.Context(ctx),
		retry.Attempts(d.attempts),
		retry.Delay(d.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
	)

	if sendErr != nil {
		delivery.Status = platform.DeliveryFailed
		delivery.LastError = sendErr.Error()
	} else {
		now := time.Now()
		delivery.Status = platform.DeliverySuccess
		delivery.DeliveredAt = &now
	}
	metrics.WebhookDeliveries.WithLabelValues(event, delivery.Status).Inc()

	if err := d.db.Create(&delivery).Error; err != nil {
		log.Printf("[WEBHOOK] could not record delivery %s: %v", delivery.DeliveryID, err)
	}
	return delivery, sendErr
}

func (d *Dispatcher) post(ctx context.Context, url, event, deliveryID, signature string, body []byte) (int, error) {
	resp, err := d.client.R().
		SetContext(ctx).
		SetHeader(HeaderEvent, event).
		SetHeader(HeaderDelivery, deliveryID).
		SetHeader(HeaderSignature, signature).
		SetBody(body).
		Post(url)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return resp.StatusCode(), &StatusError{Code: resp.StatusCode()}
	}
	return resp.StatusCode(), nil
}

// retryable keeps retrying transport errors, 5xx and 429 only
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= http.StatusInternalServerError || se.Code == http.StatusTooManyRequests
	}
	return true
}
