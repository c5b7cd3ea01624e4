package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisherSendsKeyedJSON(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got Event
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.Type != PaymentCompleted || got.AggregateID != "payment:12" {
			return errors.New("unexpected event body")
		}
		return nil
	})

	p := NewKafkaPublisherWithProducer(producer, "learnhub.events")
	require.NoError(t, p.Publish(context.Background(), New(PaymentCompleted, "payment:12", map[string]string{"amount": "49.99"})))
	require.NoError(t, p.Close())
}

func TestKafkaPublisherReturnsProducerError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaPublisherWithProducer(producer, "learnhub.events")
	err := p.Publish(context.Background(), New(CoursePublished, "course:1", nil))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestKafkaPublisherHonoursCancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	p := NewKafkaPublisherWithProducer(producer, "learnhub.events")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, New(CoursePublished, "course:1", nil)), context.Canceled)
	require.NoError(t, p.Close())
}

func TestNewKafkaPublisherValidatesConfig(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "topic")
	assert.Error(t, err)
	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "")
	assert.Error(t, err)
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown(EnrollmentCreated))
	assert.False(t, IsKnown("course.deleted"))
}
