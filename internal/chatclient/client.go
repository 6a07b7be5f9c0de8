package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"pnuchat-backend/internal/models"
	"pnuchat-backend/internal/sse"

	"github.com/google/uuid"
)

var (
	// ErrRateLimited mirrors a 429 from the relay endpoint.
	ErrRateLimited = errors.New("rate limited by relay")
	// ErrQuotaExhausted mirrors a 402 from the relay endpoint.
	ErrQuotaExhausted = errors.New("relay quota exhausted")
)

// RelayError is a non-2xx response from the backend that is neither a rate
// limit nor a quota failure. Message carries the server's user-facing text
// when one was returned.
type RelayError struct {
	StatusCode int
	Message    string
}

func (e *RelayError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("relay returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("relay returned status %d", e.StatusCode)
}

// Client drives a chat stream end to end: open the relay, decode deltas,
// feed the reconciler, and persist through the store adapter.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	store      Store
}

// NewClient creates a client for the backend at baseURL. The token, if
// non-empty, is sent as a bearer credential on every request.
func NewClient(baseURL, token string) *Client {
	httpClient := &http.Client{Timeout: 5 * time.Minute}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
		store: &apiStore{
			baseURL:    baseURL,
			token:      token,
			httpClient: httpClient,
		},
	}
}

// Store returns the conversation store adapter bound to this client's
// credentials.
func (c *Client) Store() Store {
	return c.store
}

// OpenStream starts a relay call and returns the raw SSE body. The caller
// owns the body and must close it.
func (c *Client) OpenStream(ctx context.Context, history []models.ChatRequestMessage, userID *uuid.UUID) (io.ReadCloser, error) {
	payload, err := json.Marshal(models.ChatRequest{Messages: history, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, classifyStatus(resp)
	}
	return resp.Body, nil
}

// Relay runs one full streaming exchange for the reconciler's conversation.
// Deltas are applied as they arrive; on clean end of stream the accumulated
// text is persisted, on any failure the pending message is dropped and
// nothing is persisted.
func (c *Client) Relay(ctx context.Context, rec *Reconciler, history []models.ChatRequestMessage, userID *uuid.UUID) error {
	body, err := c.OpenStream(ctx, history, userID)
	if err != nil {
		rec.Fail()
		return err
	}
	defer body.Close()

	dec := sse.NewDecoder(body)
	for {
		delta, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			rec.Fail()
			return fmt.Errorf("stream decode failed: %w", err)
		}
		rec.ApplyDelta(rec.conversationID, delta)
	}

	if _, err := rec.Finish(ctx); err != nil {
		return err
	}
	return nil
}

// RegenerateAfterEdit rewrites an edited user message and streams a fresh
// reply into rec. Updating the message removes the assistant reply that
// followed it before the new relay call starts, so a failed regeneration
// leaves the transcript without a stale answer and never restores it.
func (c *Client) RegenerateAfterEdit(ctx context.Context, rec *Reconciler, conversationID, editedMessageID uuid.UUID, content string, userID *uuid.UUID) error {
	if err := c.store.UpdateMessage(ctx, editedMessageID, content); err != nil {
		return fmt.Errorf("failed to update edited message: %w", err)
	}

	msgs, err := c.store.ListMessages(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("failed to list messages: %w", err)
	}

	// Rebuild the history up to and including the edited message.
	history := make([]models.ChatRequestMessage, 0, len(msgs))
	for _, msg := range msgs {
		history = append(history, models.ChatRequestMessage{
			Role:     msg.Role,
			Content:  msg.Content,
			ImageURL: msg.ImageURL,
		})
		if msg.ID == editedMessageID {
			break
		}
	}

	return c.Relay(ctx, rec, history, userID)
}

func classifyStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusPaymentRequired:
		return ErrQuotaExhausted
	default:
		return decodeAPIError(resp)
	}
}
