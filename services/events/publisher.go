// Package events publishes domain events to the platform event stream.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"learnhub/metrics"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Event types shared by the event stream and webhooks
const (
	CoursePublished    = "course.published"
	EnrollmentCreated  = "enrollment.created"
	ContentCompleted   = "content.completed"
	CourseCompleted    = "course.completed"
	PaymentCompleted   = "payment.completed"
	PaymentRefunded    = "payment.refunded"
	CertificateIssued  = "certificate.issued"
	ReviewCreated      = "review.created"
	VideoProcessed     = "video.processed"
	VideoFailed        = "video.failed"
	CommissionPaidOut  = "commission.paid_out"
	FeatureFlagChanged = "feature_flag.changed"
)

// Types lists every event a webhook may subscribe to
var Types = []string{
	CoursePublished, EnrollmentCreated, ContentCompleted, CourseCompleted,
	PaymentCompleted, PaymentRefunded, CertificateIssued, ReviewCreated,
	VideoProcessed, VideoFailed, CommissionPaidOut, FeatureFlagChanged,
}

// IsKnown reports whether t is one of Types
func IsKnown(t string) bool {
	for _, known := range Types {
		if known == t {
			return true
		}
	}
	return false
}

type Event struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	AggregateID string      `json:"aggregate_id"`
	OccurredAt  time.Time   `json:"occurred_at"`
	Data        interface{} `json:"data"`
}

func New(eventType, aggregateID string, data interface{}) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Data:        data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Default is replaced by a Kafka publisher when brokers are configured
var Default Publisher = NoopPublisher{}

// NoopPublisher drops events
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }

// KafkaPublisher writes each event as a JSON message keyed by aggregate id
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers list is empty")
	}
	if topic == "" {
		return nil, errors.New("kafka topic is empty")
	}

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return NewKafkaPublisherWithProducer(producer, topic), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.AggregateID),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.Type)},
			{Key: []byte("event-id"), Value: []byte(event.ID)},
		},
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		metrics.EventsPublished.WithLabelValues(event.Type, "error").Inc()
		log.Printf("[EVENTS] failed to publish %s for %s: %v", event.Type, event.AggregateID, err)
		return err
	}
	metrics.EventsPublished.WithLabelValues(event.Type, "ok").Inc()
	return nil
}

func (p *KafkaPublisher) Close() error {
	log.Println("[EVENTS] closing Kafka producer")
	return p.producer.Close()
}
