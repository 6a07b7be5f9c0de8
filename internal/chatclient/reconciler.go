package chatclient

import (
	"context"
	"fmt"
	"log"

	"pnuchat-backend/internal/models"

	"github.com/google/uuid"
)

// PendingMessage is the in-flight assistant reply. It lives only in the
// reconciler until the stream finishes and the text is persisted.
type PendingMessage struct {
	TempID         uuid.UUID
	ConversationID uuid.UUID
	Content        string
}

// Reconciler merges streamed deltas into at most one pending assistant
// message for a single conversation. Deltas for any other conversation are
// discarded, which covers the user switching conversations mid-stream.
type Reconciler struct {
	conversationID uuid.UUID
	store          Store

	// onUpdate fires after each applied delta with the cumulative pending
	// message. onRemove fires when the pending message is discarded without
	// being persisted.
	onUpdate func(PendingMessage)
	onRemove func(uuid.UUID)

	pending  *PendingMessage
	finished bool
}

// ReconcilerOption configures optional reconciler callbacks.
type ReconcilerOption func(*Reconciler)

// WithUpdateCallback registers a callback invoked with the cumulative
// pending message after every applied delta.
func WithUpdateCallback(fn func(PendingMessage)) ReconcilerOption {
	return func(r *Reconciler) { r.onUpdate = fn }
}

// WithRemoveCallback registers a callback invoked with the pending message's
// temporary ID when it is dropped without being persisted.
func WithRemoveCallback(fn func(uuid.UUID)) ReconcilerOption {
	return func(r *Reconciler) { r.onRemove = fn }
}

// NewReconciler binds a reconciler to one conversation.
func NewReconciler(conversationID uuid.UUID, store Store, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		conversationID: conversationID,
		store:          store,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ApplyDelta appends a delta to the pending message, creating it on the
// first delta. Deltas arriving after Finish or for a different conversation
// are ignored.
func (r *Reconciler) ApplyDelta(conversationID uuid.UUID, delta string) {
	if r.finished || conversationID != r.conversationID || delta == "" {
		return
	}
	if r.pending == nil {
		r.pending = &PendingMessage{
			TempID:         uuid.New(),
			ConversationID: r.conversationID,
		}
	}
	r.pending.Content += delta
	if r.onUpdate != nil {
		r.onUpdate(*r.pending)
	}
}

// Pending returns a copy of the pending message, if any.
func (r *Reconciler) Pending() (PendingMessage, bool) {
	if r.pending == nil {
		return PendingMessage{}, false
	}
	return *r.pending, true
}

// Finish persists the accumulated text as an assistant message exactly once.
// An empty accumulation persists nothing. Repeated calls after the first are
// no-ops. On persistence failure the pending message is kept so the caller
// still has the full text. On success the pending slot is cleared without
// firing onRemove: the message survives as the persisted row, so the UI keeps
// showing the final text instead of flickering it away.
func (r *Reconciler) Finish(ctx context.Context) (*models.MessageResponse, error) {
	if r.finished {
		return nil, nil
	}
	if r.pending == nil || r.pending.Content == "" {
		r.discard()
		r.finished = true
		return nil, nil
	}

	msg, err := r.store.CreateMessage(ctx, r.conversationID, models.RoleAssistant, r.pending.Content, nil)
	if err != nil {
		log.Printf("[ChatClient] WARN: failed to persist assistant message: %v", err)
		return nil, fmt.Errorf("failed to persist assistant message: %w", err)
	}
	r.finished = true
	r.pending = nil
	return msg, nil
}

// Fail drops the pending message without persisting anything.
func (r *Reconciler) Fail() {
	if r.finished {
		return
	}
	r.discard()
	r.finished = true
}

func (r *Reconciler) discard() {
	if r.pending == nil {
		return
	}
	if r.onRemove != nil {
		r.onRemove(r.pending.TempID)
	}
	r.pending = nil
}
