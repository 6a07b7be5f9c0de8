package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"pnuchat-backend/internal/models"

	goopenai "github.com/sashabaranov/go-openai"
)

// Relay error classification. Handlers translate these into localized
// user-facing responses; the raw gateway body is only ever logged.
var (
	// ErrMissingAPIKey means the gateway credential is absent. Checked at
	// construction so the server fails fast instead of on the first chat.
	ErrMissingAPIKey = errors.New("ai gateway api key is not configured")

	// ErrRateLimited corresponds to HTTP 429 from the gateway. Transient;
	// the user may retry, the relay itself never does.
	ErrRateLimited = errors.New("ai gateway rate limited")

	// ErrQuotaExhausted corresponds to HTTP 402: the account is out of
	// credits until an operator intervenes.
	ErrQuotaExhausted = errors.New("ai gateway quota exhausted")
)

// GatewayError covers every other non-2xx gateway response.
type GatewayError struct {
	StatusCode int
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("ai gateway returned status %d", e.StatusCode)
}

// GatewayConfig parameterizes the relay. Model selection, temperatures and
// output cap are configuration, not code branches.
type GatewayConfig struct {
	APIKey      string
	BaseURL     string // e.g. https://ai.gateway.lovable.dev/v1
	TextModel   string
	VisionModel string
	MaxTokens   int

	// TextTemperature is used for plain text requests; image analysis uses
	// the lower VisionTemperature for more deterministic output.
	TextTemperature   float32
	VisionTemperature float32
}

// GatewayRelay forwards chat requests to the AI gateway. Stateless per
// request; its only side effect is the outbound HTTP call.
type GatewayRelay struct {
	cfg        GatewayConfig
	httpClient *http.Client
	client     *goopenai.Client // non-streaming completions
}

// NewGatewayRelay validates the credential and builds the relay.
func NewGatewayRelay(cfg GatewayConfig) (*GatewayRelay, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.TextTemperature == 0 {
		cfg.TextTemperature = 0.7
	}
	if cfg.VisionTemperature == 0 {
		cfg.VisionTemperature = 0.2
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &GatewayRelay{
		cfg: cfg,
		httpClient: &http.Client{
			// Covers connection + headers; body streaming is unbounded.
			Timeout: 0,
		},
		client: goopenai.NewClientWithConfig(clientCfg),
	}, nil
}

// selectVariant picks the model and temperature for a request: the
// image-capable model with low randomness when an attachment is present,
// the faster text model otherwise.
func (r *GatewayRelay) selectVariant(hasImage bool) (model string, temperature float32) {
	if hasImage {
		return r.cfg.VisionModel, r.cfg.VisionTemperature
	}
	return r.cfg.TextModel, r.cfg.TextTemperature
}

// Stream POSTs the assembled request with stream:true and returns the open
// response body for the caller to relay or decode. The caller owns closing
// the returned body.
func (r *GatewayRelay) Stream(ctx context.Context, systemPrompt string, history []models.ChatRequestMessage) (io.ReadCloser, error) {
	model, temperature := r.selectVariant(HasImageAttachment(history))

	msgs := make([]goopenai.ChatCompletionMessage, 0, len(history)+1)
	msgs = append(msgs, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	msgs = append(msgs, GatewayMessages(history)...)

	reqBody := goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    msgs,
		Stream:      true,
		Temperature: temperature,
		MaxTokens:   r.cfg.MaxTokens,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gateway request: %w", err)
	}

	url := strings.TrimRight(r.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			return nil, ErrRateLimited
		case http.StatusPaymentRequired:
			return nil, ErrQuotaExhausted
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
			log.Printf("ERROR [GatewayRelay] Gateway error: status=%d body=%s", resp.StatusCode, string(body))
			return nil, &GatewayError{StatusCode: resp.StatusCode}
		}
	}

	return resp.Body, nil
}

// Complete issues a non-streaming completion for flows that want the whole
// answer at once.
func (r *GatewayRelay) Complete(ctx context.Context, systemPrompt string, history []models.ChatRequestMessage) (string, error) {
	model, temperature := r.selectVariant(HasImageAttachment(history))

	msgs := make([]goopenai.ChatCompletionMessage, 0, len(history)+1)
	msgs = append(msgs, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	msgs = append(msgs, GatewayMessages(history)...)

	resp, err := r.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    msgs,
		Temperature: temperature,
		MaxTokens:   r.cfg.MaxTokens,
	})
	if err != nil {
		return "", classifyClientError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from AI")
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyClientError maps go-openai API errors onto the relay taxonomy.
func classifyClientError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return ErrRateLimited
		case http.StatusPaymentRequired:
			return ErrQuotaExhausted
		default:
			log.Printf("ERROR [GatewayRelay] Gateway error: status=%d message=%s", apiErr.HTTPStatusCode, apiErr.Message)
			return &GatewayError{StatusCode: apiErr.HTTPStatusCode}
		}
	}
	return fmt.Errorf("gateway request failed: %w", err)
}
