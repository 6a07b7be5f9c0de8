// Package realtime serves the change feed that lets clients re-fetch a
// conversation's messages after writes land elsewhere (edits, deletes,
// stream completions).
package realtime

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tmaxmax/go-sse"
)

// ChangeEventType is the SSE event type published on every message write.
var ChangeEventType = sse.Type("change")

// Hub fans message-change notifications out to subscribed clients over
// Server-Sent Events. One topic per conversation.
type Hub struct {
	srv *sse.Server
}

// NewHub creates a hub whose sessions subscribe to the conversation named
// in the request's conversation_id query parameter.
func NewHub() *Hub {
	return &Hub{
		srv: &sse.Server{
			OnSession: func(s *sse.Session) (sse.Subscription, bool) {
				topics := []string{sse.DefaultTopic}

				conversationID := s.Req.URL.Query().Get("conversation_id")
				if conversationID != "" {
					topics = append(topics, ConversationTopic(conversationID))
				}

				return sse.Subscription{
					Client:      s,
					LastEventID: s.LastEventID,
					Topics:      topics,
				}, true
			},
		},
	}
}

// ConversationTopic names the SSE topic for one conversation.
func ConversationTopic(conversationID string) string {
	return fmt.Sprintf("conversation-%s", conversationID)
}

// MessagesChanged implements store.Notifier: it tells every subscriber of
// the conversation that its message list changed. Publishing never blocks
// the write path for long; failures are logged and dropped.
func (h *Hub) MessagesChanged(_ context.Context, conversationID uuid.UUID) {
	msg := &sse.Message{Type: ChangeEventType}
	msg.AppendData(conversationID.String())

	if err := h.srv.Publish(msg, ConversationTopic(conversationID.String())); err != nil {
		log.Printf("WARN [RealtimeHub] Failed to publish change for conversation %s: %v", conversationID, err)
	}
}

// Handler exposes the hub as an HTTP handler for the events endpoint.
func (h *Hub) Handler() http.Handler {
	return h.srv
}

// Shutdown closes all client connections, waiting up to five seconds.
func (h *Hub) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.srv.Shutdown(ctx)
}
