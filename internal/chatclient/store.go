// Package chatclient is the consuming side of the streaming relay: it opens
// the chat stream, decodes deltas, reconciles them into a pending assistant
// message, and persists the final text through the conversation store
// adapter.
package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"pnuchat-backend/internal/models"

	"github.com/google/uuid"
)

// Attachment carries the optional file references of a message.
type Attachment struct {
	ImageURL *string
	FileURL  *string
}

// Store is the thin adapter to the external relational store. Only the
// operations the streaming consumer needs are part of the contract.
type Store interface {
	CreateMessage(ctx context.Context, conversationID uuid.UUID, role models.MessageRole, content string, attachment *Attachment) (*models.MessageResponse, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error
	UpdateMessage(ctx context.Context, id uuid.UUID, content string) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.MessageResponse, error)
	UpdateConversationTitle(ctx context.Context, id uuid.UUID, title string) error
}

// apiStore implements Store against the backend's /v1 HTTP API.
type apiStore struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ Store = (*apiStore)(nil)

func (s *apiStore) CreateMessage(ctx context.Context, conversationID uuid.UUID, role models.MessageRole, content string, attachment *Attachment) (*models.MessageResponse, error) {
	req := models.CreateMessageRequest{
		Role:    role,
		Content: content,
	}
	if attachment != nil {
		req.ImageURL = attachment.ImageURL
		req.FileURL = attachment.FileURL
	}

	var msg models.MessageResponse
	err := s.do(ctx, http.MethodPost, fmt.Sprintf("/v1/conversations/%s/messages", conversationID), req, &msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *apiStore) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	return s.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/messages/%s", id), nil, nil)
}

func (s *apiStore) UpdateMessage(ctx context.Context, id uuid.UUID, content string) error {
	return s.do(ctx, http.MethodPut, fmt.Sprintf("/v1/messages/%s", id), models.UpdateMessageRequest{Content: content}, nil)
}

func (s *apiStore) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.MessageResponse, error) {
	var msgs []models.MessageResponse
	err := s.do(ctx, http.MethodGet, fmt.Sprintf("/v1/conversations/%s/messages", conversationID), nil, &msgs)
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *apiStore) UpdateConversationTitle(ctx context.Context, id uuid.UUID, title string) error {
	return s.do(ctx, http.MethodPatch, fmt.Sprintf("/v1/conversations/%s", id), models.UpdateConversationRequest{Title: title}, nil)
}

// do issues one JSON request against the API and decodes the response into
// out, if non-nil.
func (s *apiStore) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var apiErr models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
		return &RelayError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}
	return &RelayError{StatusCode: resp.StatusCode}
}
