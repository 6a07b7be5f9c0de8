package services

import (
	"context"
	"fmt"

	"pnuchat-backend/internal/models"
	"pnuchat-backend/internal/store"

	"github.com/google/uuid"
)

// MaterialService manages the downloadable materials catalog.
type MaterialService struct {
	store    store.Store
	resolver URLResolver
}

// NewMaterialService creates a new MaterialService.
func NewMaterialService(s store.Store, resolver URLResolver) *MaterialService {
	return &MaterialService{store: s, resolver: resolver}
}

// CreateMaterial registers an uploaded file as a material.
func (s *MaterialService) CreateMaterial(ctx context.Context, uploadedBy uuid.UUID, req models.CreateMaterialRequest) (*models.MaterialResponse, error) {
	if req.Title == "" || req.FilePath == "" {
		return nil, fmt.Errorf("%w: title and file_path are required", ErrValidation)
	}

	m, err := s.store.CreateMaterial(ctx, store.CreateMaterialParams{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		FilePath:    req.FilePath,
		UploadedBy:  uploadedBy,
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(m), nil
}

// ListMaterials returns the catalog newest first with resolved URLs.
func (s *MaterialService) ListMaterials(ctx context.Context, limit int) ([]models.MaterialResponse, error) {
	if limit <= 0 || limit > MaterialCatalogCap {
		limit = MaterialCatalogCap
	}

	materials, err := s.store.ListMaterials(ctx, limit)
	if err != nil {
		return nil, err
	}

	resp := make([]models.MaterialResponse, 0, len(materials))
	for i := range materials {
		resp = append(resp, *s.toResponse(&materials[i]))
	}
	return resp, nil
}

// DeleteMaterial removes a material record.
func (s *MaterialService) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteMaterial(ctx, id)
}

func (s *MaterialService) toResponse(m *models.Material) *models.MaterialResponse {
	return &models.MaterialResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		DownloadURL: s.resolver.Resolve(m.FilePath),
		CreatedAt:   m.CreatedAt,
	}
}
