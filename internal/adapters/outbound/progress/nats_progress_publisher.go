package progress

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/domain"
	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/ports"

	"github.com/nats-io/nats.go"
)

// NatsProgressPublisher streams progress events to the uploader's real-time
// channel on `uploads.progress.<owner>`. Delivery is best-effort: publish
// failures are logged and never surface to the pipeline.
type NatsProgressPublisher struct {
	nc *nats.Conn
}

func NewNatsProgressPublisher(url string) (*NatsProgressPublisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to NATS: %w", err)
	}
	return &NatsProgressPublisher{nc: nc}, nil
}

func (p *NatsProgressPublisher) Publish(event domain.ProgressEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("⚠️ Error marshaling progress event for upload %s: %v", event.UploadID, err)
		return
	}

	subject := "uploads.progress." + event.OwnerID
	if err := p.nc.Publish(subject, payload); err != nil {
		log.Printf("⚠️ Error publishing progress for upload %s: %v", event.UploadID, err)
	}
}

func (p *NatsProgressPublisher) Close() {
	p.nc.Close()
}

// NoopProgressPublisher stands in when NATS is unreachable so verification
// keeps running without progress streaming.
type NoopProgressPublisher struct{}

func (NoopProgressPublisher) Publish(event domain.ProgressEvent) {}

var (
	_ ports.ProgressPublisher = (*NatsProgressPublisher)(nil)
	_ ports.ProgressPublisher = NoopProgressPublisher{}
)
