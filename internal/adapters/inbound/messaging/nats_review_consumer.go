package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/ports"

	"github.com/nats-io/nats.go"
)

// NatsReviewConsumer applies manual review decisions published by the
// moderation dashboard.
type NatsReviewConsumer struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	reviews ports.ReviewUseCase
}

type reviewDecisionEvent struct {
	MediaID  string `json:"media_id"`
	Approved bool   `json:"approved"`
	Note     string `json:"note"`
}

func NewNatsReviewConsumer(url string, reviews ports.ReviewUseCase) (ports.EventConsumer, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("error getting JetStream context: %w", err)
	}

	return &NatsReviewConsumer{
		nc:      nc,
		js:      js,
		reviews: reviews,
	}, nil
}

func (c *NatsReviewConsumer) Listen(ctx context.Context) error {
	log.Println("👂 Listening for review decisions on 'uploads.review.decision'...")

	// Durable push-based consumer; handler errors are redelivered.
	sub, err := c.js.Subscribe("uploads.review.decision", func(m *nats.Msg) {
		var event reviewDecisionEvent
		if err := json.Unmarshal(m.Data, &event); err != nil {
			log.Printf("❌ Error unmarshaling review decision: %v", err)
			m.Ack()
			return
		}

		log.Printf("📥 Received review decision: media_id=%s, approved=%t", event.MediaID, event.Approved)

		if err := c.reviews.ResolveReview(ctx, event.MediaID, event.Approved, event.Note); err != nil {
			log.Printf("❌ Error applying review decision for %s: %v", event.MediaID, err)
			m.Nak()
			return
		}

		m.Ack()
	}, nats.Durable("review-worker"), nats.ManualAck())

	if err != nil {
		return fmt.Errorf("error subscribing to NATS: %w", err)
	}

	log.Printf("✅ Subscribed to %s", sub.Subject)
	return nil
}
