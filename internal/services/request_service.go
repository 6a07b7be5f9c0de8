package services

import (
	"context"
	"encoding/json"
	"fmt"

	"pnuchat-backend/internal/models"
	"pnuchat-backend/internal/store"

	"github.com/google/uuid"
)

// Valid content request categories.
var requestCategories = map[string]bool{
	"book":    true,
	"summary": true,
	"sample":  true,
	"video":   true,
	"other":   true,
}

// Statuses an admin decision may set. New requests always start pending.
var requestStatuses = map[string]bool{
	"pending":  true,
	"approved": true,
	"rejected": true,
}

// RequestService manages student content requests and the admin-editable
// system settings.
type RequestService struct {
	store store.Store
}

// NewRequestService creates a new RequestService.
func NewRequestService(s store.Store) *RequestService {
	return &RequestService{store: s}
}

// SubmitRequest records a content request for the calling user. The request
// starts in pending status awaiting an admin decision.
func (s *RequestService) SubmitRequest(ctx context.Context, userID uuid.UUID, req models.CreateContentRequestRequest) (*models.Request, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !requestCategories[req.Category] {
		return nil, fmt.Errorf("%w: invalid request category %q", ErrValidation, req.Category)
	}

	return s.store.CreateRequest(ctx, store.CreateRequestParams{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
}

// ListOwnRequests returns the calling user's requests newest first.
func (s *RequestService) ListOwnRequests(ctx context.Context, userID uuid.UUID) ([]models.Request, error) {
	return s.store.ListRequestsByUser(ctx, userID)
}

// ListAllRequests returns every request with the submitter's name, optionally
// filtered by status. An empty status means all.
func (s *RequestService) ListAllRequests(ctx context.Context, status string) ([]store.RequestWithProfile, error) {
	if status != "" && !requestStatuses[status] {
		return nil, fmt.Errorf("%w: invalid request status %q", ErrValidation, status)
	}
	return s.store.ListRequests(ctx, status)
}

// ReviewRequest applies an admin decision to a request.
func (s *RequestService) ReviewRequest(ctx context.Context, id uuid.UUID, req models.ReviewContentRequestRequest) (*models.Request, error) {
	if !requestStatuses[req.Status] {
		return nil, fmt.Errorf("%w: invalid request status %q", ErrValidation, req.Status)
	}

	return s.store.ReviewRequest(ctx, store.ReviewRequestParams{
		ID:            id,
		Status:        req.Status,
		AdminResponse: req.AdminResponse,
	})
}

// DeleteRequest removes a request.
func (s *RequestService) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteRequest(ctx, id)
}

// ListSettings returns all system settings ordered by category.
func (s *RequestService) ListSettings(ctx context.Context) ([]models.SystemSetting, error) {
	return s.store.ListSettings(ctx)
}

// UpdateSetting replaces one setting's value. The value must be valid JSON;
// its shape (boolean, number, string) is up to the setting itself.
func (s *RequestService) UpdateSetting(ctx context.Context, id uuid.UUID, value json.RawMessage) (*models.SystemSetting, error) {
	if len(value) == 0 || !json.Valid(value) {
		return nil, fmt.Errorf("%w: setting value must be valid JSON", ErrValidation)
	}
	return s.store.UpdateSettingValue(ctx, id, value)
}
