package chatclient

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	gosse "github.com/tmaxmax/go-sse"
)

// Subscribe opens a change-feed subscription for one conversation and calls
// onChange every time its message set changes. Clients reload the transcript
// on change instead of trusting event payloads. The returned function stops
// the subscription; calling it more than once is harmless.
func (c *Client) Subscribe(ctx context.Context, conversationID uuid.UUID, onChange func()) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	url := c.baseURL + "/v1/realtime?conversation_id=" + conversationID.String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	conn := gosse.NewConnection(req)
	unsubscribe := conn.SubscribeEvent("change", func(gosse.Event) {
		onChange()
	})

	go func() {
		if err := conn.Connect(); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[ChatClient] WARN: change feed disconnected: %v", err)
		}
	}()

	return func() {
		unsubscribe()
		cancel()
	}, nil
}
