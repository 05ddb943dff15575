package ports

import "context"

// EventPublisher is the outbound publish port used by the outbox relay.
// Keeping it abstract keeps broker/client concerns in adapters.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte) error
}
