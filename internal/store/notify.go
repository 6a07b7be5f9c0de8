package store

import (
	"context"

	"github.com/google/uuid"
)

// Notifier receives change notifications after message writes so connected
// clients can re-fetch. Implementations must not block; a slow consumer is
// the consumer's problem, not the store's.
type Notifier interface {
	MessagesChanged(ctx context.Context, conversationID uuid.UUID)
}

// NopNotifier is a Notifier that drops every notification. Useful in tests
// and in tools that do not serve a realtime feed.
type NopNotifier struct{}

func (NopNotifier) MessagesChanged(context.Context, uuid.UUID) {}
