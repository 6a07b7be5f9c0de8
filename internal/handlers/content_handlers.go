package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"pnuchat-backend/internal/models"
	"pnuchat-backend/internal/services"
	"pnuchat-backend/internal/store"
	"pnuchat-backend/pkg/httputil"

	"github.com/google/uuid"
)

// ContentService defines the interface expected from the ads and news
// service.
type ContentService interface {
	UpsertAd(ctx context.Context, id uuid.UUID, req models.UpsertAdRequest) (*models.Ad, error)
	ListAds(ctx context.Context, position string, activeOnly bool) ([]models.Ad, error)
	DeleteAd(ctx context.Context, id uuid.UUID) error
	UpsertNews(ctx context.Context, id uuid.UUID, req models.UpsertNewsRequest) (*models.NewsItem, error)
	ListNews(ctx context.Context, publishedOnly bool) ([]models.NewsItem, error)
	DeleteNews(ctx context.Context, id uuid.UUID) error
}

type ContentHandlers struct {
	contentService ContentService
}

func NewContentHandlers(contentSvc ContentService) *ContentHandlers {
	return &ContentHandlers{
		contentService: contentSvc,
	}
}

// HandleListAds handles GET /v1/ads. Regular callers see only active ads,
// optionally filtered by position.
func (h *ContentHandlers) HandleListAds(w http.ResponseWriter, r *http.Request) {
	position := r.URL.Query().Get("position")

	ads, err := h.contentService.ListAds(r.Context(), position, true)
	if err != nil {
		log.Printf("[ContentHandlers] List ads failed: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list ads")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, ads)
}

// HandleAdminListAds handles GET /v1/admin/ads, including inactive ads.
func (h *ContentHandlers) HandleAdminListAds(w http.ResponseWriter, r *http.Request) {
	ads, err := h.contentService.ListAds(r.Context(), r.URL.Query().Get("position"), false)
	if err != nil {
		log.Printf("[ContentHandlers] Admin list ads failed: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list ads")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, ads)
}

// HandleCreateAd handles POST /v1/admin/ads.
func (h *ContentHandlers) HandleCreateAd(w http.ResponseWriter, r *http.Request) {
	h.upsertAd(w, r, uuid.Nil)
}

// HandleUpdateAd handles PUT /v1/admin/ads/{adID}.
func (h *ContentHandlers) HandleUpdateAd(w http.ResponseWriter, r *http.Request) {
	adID, ok := uuidParam(w, r, "adID")
	if !ok {
		return
	}
	h.upsertAd(w, r, adID)
}

func (h *ContentHandlers) upsertAd(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req models.UpsertAdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	ad, err := h.contentService.UpsertAd(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[ContentHandlers] Upsert ad failed: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to save ad")
		return
	}

	status := http.StatusOK
	if id == uuid.Nil {
		status = http.StatusCreated
	}
	httputil.RespondJSON(w, status, ad)
}

// HandleDeleteAd handles DELETE /v1/admin/ads/{adID}.
func (h *ContentHandlers) HandleDeleteAd(w http.ResponseWriter, r *http.Request) {
	adID, ok := uuidParam(w, r, "adID")
	if !ok {
		return
	}

	if err := h.contentService.DeleteAd(r.Context(), adID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Ad not found")
			return
		}
		log.Printf("[ContentHandlers] Delete ad failed for %s: %v", adID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to delete ad")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListNews handles GET /v1/news. Regular callers see only published
// items.
func (h *ContentHandlers) HandleListNews(w http.ResponseWriter, r *http.Request) {
	news, err := h.contentService.ListNews(r.Context(), true)
	if err != nil {
		log.Printf("[ContentHandlers] List news failed: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list news")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, news)
}

// HandleAdminListNews handles GET /v1/admin/news, including drafts.
func (h *ContentHandlers) HandleAdminListNews(w http.ResponseWriter, r *http.Request) {
	news, err := h.contentService.ListNews(r.Context(), false)
	if err != nil {
		log.Printf("[ContentHandlers] Admin list news failed: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list news")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, news)
}

// HandleCreateNews handles POST /v1/admin/news.
func (h *ContentHandlers) HandleCreateNews(w http.ResponseWriter, r *http.Request) {
	h.upsertNews(w, r, uuid.Nil)
}

// HandleUpdateNews handles PUT /v1/admin/news/{newsID}.
func (h *ContentHandlers) HandleUpdateNews(w http.ResponseWriter, r *http.Request) {
	newsID, ok := uuidParam(w, r, "newsID")
	if !ok {
		return
	}
	h.upsertNews(w, r, newsID)
}

func (h *ContentHandlers) upsertNews(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req models.UpsertNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	item, err := h.contentService.UpsertNews(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[ContentHandlers] Upsert news failed: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to save news item")
		return
	}

	status := http.StatusOK
	if id == uuid.Nil {
		status = http.StatusCreated
	}
	httputil.RespondJSON(w, status, item)
}

// HandleDeleteNews handles DELETE /v1/admin/news/{newsID}.
func (h *ContentHandlers) HandleDeleteNews(w http.ResponseWriter, r *http.Request) {
	newsID, ok := uuidParam(w, r, "newsID")
	if !ok {
		return
	}

	if err := h.contentService.DeleteNews(r.Context(), newsID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "News item not found")
			return
		}
		log.Printf("[ContentHandlers] Delete news failed for %s: %v", newsID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to delete news item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
