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

// UserService defines the interface expected from the admin user service.
type UserService interface {
	ListUsers(ctx context.Context, searchQuery string) ([]models.AdminUserResponse, error)
	SetRole(ctx context.Context, userID uuid.UUID, role string) error
	DeleteUser(ctx context.Context, callerID, userID uuid.UUID) error
}

type UserHandlers struct {
	userService UserService
}

func NewUserHandlers(userSvc UserService) *UserHandlers {
	return &UserHandlers{
		userService: userSvc,
	}
}

// HandleListUsers handles GET /v1/admin/users with an optional search query.
func (h *UserHandlers) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		log.Printf("[UserHandlers] List failed: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, users)
}

// HandleSetRole handles PUT /v1/admin/users/{userID}/role.
func (h *UserHandlers) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(w, r, "userID")
	if !ok {
		return
	}

	var req models.SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.userService.SetRole(r.Context(), userID, req.Role); err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNotFound):
			httputil.RespondError(w, http.StatusNotFound, "User not found")
		default:
			log.Printf("[UserHandlers] Set role failed for %s: %v", userID, err)
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to set role")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteUser handles DELETE /v1/admin/users/{userID}. An admin cannot
// delete their own account.
func (h *UserHandlers) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	callerID, userID, ok := callerAndParam(w, r, "userID")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(r.Context(), callerID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrSelfDelete):
			httputil.RespondError(w, http.StatusBadRequest, "You cannot delete your own account")
		case errors.Is(err, store.ErrNotFound):
			httputil.RespondError(w, http.StatusNotFound, "User not found")
		default:
			log.Printf("[UserHandlers] Delete failed for %s: %v", userID, err)
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to delete user")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
