package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"learnhub/services/events"
	"learnhub/services/webhook"
)

const broadcastTimeout = 2 * time.Minute

// Broadcast hands a domain event to the webhook dispatcher and the event
// stream in the background. Failures are logged and dropped.
func Broadcast(event, aggregate string, id uint, data interface{}) {
	aggregateID := fmt.Sprintf("%s:%d", aggregate, id)
	dispatcher := webhook.Default
	publisher := events.Default

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), broadcastTimeout)
		defer cancel()

		if dispatcher != nil {
			if _, err := dispatcher.Dispatch(ctx, event, data); err != nil {
				log.Printf("[WEBHOOK] dispatch of %s for %s failed: %v", event, aggregateID, err)
			}
		}
		if publisher != nil {
			if err := publisher.Publish(ctx, events.New(event, aggregateID, data)); err != nil {
				log.Printf("[EVENTS] publish of %s for %s failed: %v", event, aggregateID, err)
			}
		}
	}()
}
