package services

import (
	"context"
	"fmt"

	"pnuchat-backend/internal/models"
	"pnuchat-backend/internal/store"

	"github.com/google/uuid"
)

// Valid ad positions in the chat UI.
var adPositions = map[string]bool{
	"chat_top":    true,
	"chat_bottom": true,
}

// ContentService manages ads and news items.
type ContentService struct {
	store store.Store
}

// NewContentService creates a new ContentService.
func NewContentService(s store.Store) *ContentService {
	return &ContentService{store: s}
}

// UpsertAd creates or updates an ad. A nil id creates a new one.
func (s *ContentService) UpsertAd(ctx context.Context, id uuid.UUID, req models.UpsertAdRequest) (*models.Ad, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !adPositions[req.Position] {
		return nil, fmt.Errorf("%w: invalid ad position %q", ErrValidation, req.Position)
	}

	return s.store.UpsertAd(ctx, store.UpsertAdParams{
		ID:       id,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
		Position: req.Position,
		IsActive: req.IsActive,
	})
}

// ListAds returns ads for a position; non-admin callers only see active ones.
func (s *ContentService) ListAds(ctx context.Context, position string, activeOnly bool) ([]models.Ad, error) {
	return s.store.ListAds(ctx, position, activeOnly)
}

// DeleteAd removes an ad.
func (s *ContentService) DeleteAd(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteAd(ctx, id)
}

// UpsertNews creates or updates a news item. A nil id creates a new one.
func (s *ContentService) UpsertNews(ctx context.Context, id uuid.UUID, req models.UpsertNewsRequest) (*models.NewsItem, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	return s.store.UpsertNews(ctx, store.UpsertNewsParams{
		ID:          id,
		Title:       req.Title,
		Content:     req.Content,
		ImageURL:    req.ImageURL,
		IsPublished: req.IsPublished,
	})
}

// ListNews returns news items; non-admin callers only see published ones.
func (s *ContentService) ListNews(ctx context.Context, publishedOnly bool) ([]models.NewsItem, error) {
	return s.store.ListNews(ctx, publishedOnly)
}

// DeleteNews removes a news item.
func (s *ContentService) DeleteNews(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteNews(ctx, id)
}
