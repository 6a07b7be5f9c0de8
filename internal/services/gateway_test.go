package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pnuchat-backend/internal/models"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGateway(t *testing.T, handler http.HandlerFunc) *GatewayRelay {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	relay, err := NewGatewayRelay(GatewayConfig{
		APIKey:      "test-key",
		BaseURL:     srv.URL,
		TextModel:   "google/gemini-2.5-flash",
		VisionModel: "google/gemini-2.5-pro",
	})
	require.NoError(t, err)
	return relay
}

func TestNewGatewayRelay_MissingKey(t *testing.T) {
	_, err := NewGatewayRelay(GatewayConfig{BaseURL: "http://localhost"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestStream_PassesBodyThroughVerbatim(t *testing.T) {
	const raw = "data: {\"choices\":[{\"delta\":{\"content\":\"hi\"}}]}\n\ndata: [DONE]\n\n"

	relay := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req goopenai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)
		assert.Equal(t, "google/gemini-2.5-flash", req.Model)
		assert.InDelta(t, 0.7, req.Temperature, 0.001)
		assert.Equal(t, 2000, req.MaxTokens)

		// First message is always the system prompt.
		require.NotEmpty(t, req.Messages)
		assert.Equal(t, goopenai.ChatMessageRoleSystem, req.Messages[0].Role)
		assert.Equal(t, "prompt", req.Messages[0].Content)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(raw))
	})

	body, err := relay.Stream(context.Background(), "prompt", []models.ChatRequestMessage{
		{Role: models.RoleUser, Content: "سلام"},
	})
	require.NoError(t, err)
	defer body.Close()

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, raw, string(got))
}

func TestStream_ImageSelectsVisionModel(t *testing.T) {
	relay := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		var req goopenai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "google/gemini-2.5-pro", req.Model)
		assert.InDelta(t, 0.2, req.Temperature, 0.001)
		w.Write([]byte("data: [DONE]\n\n"))
	})

	body, err := relay.Stream(context.Background(), "prompt", []models.ChatRequestMessage{
		{Role: models.RoleUser, Content: "چیست؟", ImageURL: strPtr("https://cdn.example.com/a.png")},
	})
	require.NoError(t, err)
	body.Close()
}

func TestStream_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"quota exhausted", http.StatusPaymentRequired, ErrQuotaExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := relay.Stream(context.Background(), "prompt", []models.ChatRequestMessage{
				{Role: models.RoleUser, Content: "x"},
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStream_OtherStatusBecomesGatewayError(t *testing.T) {
	relay := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"upstream exploded"}`))
	})

	_, err := relay.Stream(context.Background(), "prompt", []models.ChatRequestMessage{
		{Role: models.RoleUser, Content: "x"},
	})
	require.Error(t, err)

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusBadGateway, gwErr.StatusCode)
}

func TestComplete_ReturnsAnswer(t *testing.T) {
	relay := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(goopenai.ChatCompletionResponse{
			Choices: []goopenai.ChatCompletionChoice{
				{Message: goopenai.ChatCompletionMessage{Role: "assistant", Content: "پاسخ کامل"}},
			},
		})
	})

	answer, err := relay.Complete(context.Background(), "prompt", []models.ChatRequestMessage{
		{Role: models.RoleUser, Content: "سوال"},
	})
	require.NoError(t, err)
	assert.Equal(t, "پاسخ کامل", answer)
}
