package httputil

import (
	"encoding/json"
	"log"
	"net/http"

	"pnuchat-backend/internal/models"
)

// RespondJSON writes payload as a JSON body with the given status code. The
// explicit charset keeps Persian text rendering correctly in clients that
// default to something other than UTF-8.
func RespondJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// The status line is already out; all we can do is log.
		log.Printf("[HTTP] WARN: encoding JSON response: %v", err)
	}
}

// RespondError writes {"error": message} with the given status code.
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondJSON(w, statusCode, models.ErrorResponse{Error: message})
}
