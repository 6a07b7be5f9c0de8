package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"pnuchat-backend/internal/auth"
	"pnuchat-backend/internal/models"
	"pnuchat-backend/internal/services"
	"pnuchat-backend/internal/store"
	"pnuchat-backend/pkg/httputil"

	"github.com/google/uuid"
)

// MaterialService defines the interface expected from the material service.
type MaterialService interface {
	CreateMaterial(ctx context.Context, uploadedBy uuid.UUID, req models.CreateMaterialRequest) (*models.MaterialResponse, error)
	ListMaterials(ctx context.Context, limit int) ([]models.MaterialResponse, error)
	DeleteMaterial(ctx context.Context, id uuid.UUID) error
}

type MaterialHandlers struct {
	materialService MaterialService
}

func NewMaterialHandlers(materialSvc MaterialService) *MaterialHandlers {
	return &MaterialHandlers{
		materialService: materialSvc,
	}
}

// HandleListMaterials handles GET /v1/materials. The optional limit query
// parameter caps how many of the newest materials are returned.
func (h *MaterialHandlers) HandleListMaterials(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	materials, err := h.materialService.ListMaterials(r.Context(), limit)
	if err != nil {
		log.Printf("[MaterialHandlers] List failed: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list materials")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, materials)
}

// HandleCreateMaterial handles POST /v1/admin/materials.
func (h *MaterialHandlers) HandleCreateMaterial(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CreateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	material, err := h.materialService.CreateMaterial(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[MaterialHandlers] Create failed: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to create material")
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, material)
}

// HandleDeleteMaterial handles DELETE /v1/admin/materials/{materialID}.
func (h *MaterialHandlers) HandleDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	materialID, ok := uuidParam(w, r, "materialID")
	if !ok {
		return
	}

	if err := h.materialService.DeleteMaterial(r.Context(), materialID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Material not found")
			return
		}
		log.Printf("[MaterialHandlers] Delete failed for %s: %v", materialID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to delete material")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
