package ports

import "context"

// EventConsumer is the Inbound Port for message-driven work, such as manual
// review decisions arriving from the moderation dashboard.
type EventConsumer interface {
	Listen(ctx context.Context) error
}
