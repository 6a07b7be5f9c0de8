package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"pnuchat-backend/internal/auth"
	"pnuchat-backend/internal/models"
	"pnuchat-backend/internal/services"
	"pnuchat-backend/internal/store"
	"pnuchat-backend/pkg/httputil"

	"github.com/google/uuid"
)

// RequestService defines the interface expected from the content request and
// system settings service.
type RequestService interface {
	SubmitRequest(ctx context.Context, userID uuid.UUID, req models.CreateContentRequestRequest) (*models.Request, error)
	ListOwnRequests(ctx context.Context, userID uuid.UUID) ([]models.Request, error)
	ListAllRequests(ctx context.Context, status string) ([]store.RequestWithProfile, error)
	ReviewRequest(ctx context.Context, id uuid.UUID, req models.ReviewContentRequestRequest) (*models.Request, error)
	DeleteRequest(ctx context.Context, id uuid.UUID) error
	ListSettings(ctx context.Context) ([]models.SystemSetting, error)
	UpdateSetting(ctx context.Context, id uuid.UUID, value json.RawMessage) (*models.SystemSetting, error)
}

type RequestHandlers struct {
	requestService RequestService
}

func NewRequestHandlers(requestSvc RequestService) *RequestHandlers {
	return &RequestHandlers{
		requestService: requestSvc,
	}
}

// HandleSubmitRequest handles POST /v1/requests.
func (h *RequestHandlers) HandleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	userID, found := auth.GetUserIDFromContext(r.Context())
	if !found {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CreateContentRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	created, err := h.requestService.SubmitRequest(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[RequestHandlers] Submit request failed for user %s: %v", userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to submit request")
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, created)
}

// HandleListOwnRequests handles GET /v1/requests.
func (h *RequestHandlers) HandleListOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID, found := auth.GetUserIDFromContext(r.Context())
	if !found {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	requests, err := h.requestService.ListOwnRequests(r.Context(), userID)
	if err != nil {
		log.Printf("[RequestHandlers] List requests failed for user %s: %v", userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list requests")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, requests)
}

// HandleAdminListRequests handles GET /v1/admin/requests with an optional
// status query filter.
func (h *RequestHandlers) HandleAdminListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requestService.ListAllRequests(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[RequestHandlers] Admin list requests failed: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list requests")
		return
	}

	resp := make([]models.ContentRequestResponse, 0, len(requests))
	for _, req := range requests {
		resp = append(resp, models.ContentRequestResponse{
			ID:            req.ID,
			UserID:        req.UserID,
			FullName:      req.FullName,
			Title:         req.Title,
			Description:   req.Description,
			Category:      req.Category,
			Status:        req.Status,
			AdminResponse: req.AdminResponse,
			CreatedAt:     req.CreatedAt,
			UpdatedAt:     req.UpdatedAt,
		})
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleReviewRequest handles PUT /v1/admin/requests/{requestID}.
func (h *RequestHandlers) HandleReviewRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := uuidParam(w, r, "requestID")
	if !ok {
		return
	}

	var req models.ReviewContentRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	updated, err := h.requestService.ReviewRequest(r.Context(), requestID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNotFound):
			httputil.RespondError(w, http.StatusNotFound, "Request not found")
		default:
			log.Printf("[RequestHandlers] Review request failed for %s: %v", requestID, err)
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to review request")
		}
		return
	}
	httputil.RespondJSON(w, http.StatusOK, updated)
}

// HandleDeleteRequest handles DELETE /v1/admin/requests/{requestID}.
func (h *RequestHandlers) HandleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := uuidParam(w, r, "requestID")
	if !ok {
		return
	}

	if err := h.requestService.DeleteRequest(r.Context(), requestID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Request not found")
			return
		}
		log.Printf("[RequestHandlers] Delete request failed for %s: %v", requestID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to delete request")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListSettings handles GET /v1/admin/settings.
func (h *RequestHandlers) HandleListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.requestService.ListSettings(r.Context())
	if err != nil {
		log.Printf("[RequestHandlers] List settings failed: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list settings")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, settings)
}

// HandleUpdateSetting handles PUT /v1/admin/settings/{settingID}.
func (h *RequestHandlers) HandleUpdateSetting(w http.ResponseWriter, r *http.Request) {
	settingID, ok := uuidParam(w, r, "settingID")
	if !ok {
		return
	}

	var req models.UpdateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	setting, err := h.requestService.UpdateSetting(r.Context(), settingID, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNotFound):
			httputil.RespondError(w, http.StatusNotFound, "Setting not found")
		default:
			log.Printf("[RequestHandlers] Update setting failed for %s: %v", settingID, err)
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to update setting")
		}
		return
	}
	httputil.RespondJSON(w, http.StatusOK, setting)
}
