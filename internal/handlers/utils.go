package handlers

import (
	"net/http"

	"pnuchat-backend/internal/auth"
	"pnuchat-backend/pkg/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// callerAndParam extracts the authenticated caller and a UUID path
// parameter, writing the error response itself when either is missing.
func callerAndParam(w http.ResponseWriter, r *http.Request, param string) (callerID, paramID uuid.UUID, ok bool) {
	callerID, found := auth.GetUserIDFromContext(r.Context())
	if !found {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	paramID, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid "+param)
		return uuid.Nil, uuid.Nil, false
	}
	return callerID, paramID, true
}

// uuidParam parses a UUID path parameter, writing a 400 itself on failure.
func uuidParam(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}
