package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"pnuchat-backend/internal/auth"
	"pnuchat-backend/internal/models"
	"pnuchat-backend/internal/services"
	"pnuchat-backend/pkg/httputil"

	"github.com/google/uuid"
)

// User-facing error messages, in Persian like the rest of the product.
const (
	msgRateLimited    = "محدودیت تعداد درخواست‌ها. لطفاً چند لحظه صبر کنید و دوباره تلاش کنید."
	msgQuotaExhausted = "اعتبار استفاده از هوش مصنوعی تمام شده است. لطفاً با پشتیبانی تماس بگیرید."
	msgDailyLimit     = "به محدودیت روزانه پیام‌ها رسیده‌اید. لطفاً فردا دوباره تلاش کنید."
	msgGatewayFailed  = "خطا در دریافت پاسخ از هوش مصنوعی"
)

// ChatService defines the interface expected from the chat service.
type ChatService interface {
	StreamChat(ctx context.Context, req models.ChatRequest) (io.ReadCloser, error)
	Complete(ctx context.Context, req models.ChatRequest) (string, error)
	RemainingMessages(ctx context.Context, userID uuid.UUID) (remaining int, isAdmin bool, err error)
}

type ChatHandlers struct {
	chatService ChatService
}

func NewChatHandlers(chatSvc ChatService) *ChatHandlers {
	return &ChatHandlers{
		chatService: chatSvc,
	}
}

// HandleChat handles POST /v1/chat: it opens a gateway stream for the
// request and relays the SSE bytes to the caller unmodified, flushing as
// chunks arrive.
func (h *ChatHandlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if len(req.Messages) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "At least one message is required")
		return
	}

	// A signed-in caller's identity always comes from the token, not the
	// body. The body field stays for anonymous access through the relay.
	if userID, ok := auth.GetUserIDFromContext(r.Context()); ok {
		req.UserID = &userID
	}

	stream, err := h.chatService.StreamChat(r.Context(), req)
	if err != nil {
		h.respondChatError(w, err)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)
	buf := make([]byte, 4096)
	for {
		n, readErr := stream.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				log.Printf("[ChatHandlers] Client disconnected mid-stream: %v", writeErr)
				return
			}
			if canFlush {
				flusher.Flush()
			}
		}
		if readErr == io.EOF {
			return
		}
		if readErr != nil {
			log.Printf("[ChatHandlers] Gateway stream read failed: %v", readErr)
			return
		}
	}
}

// HandleComplete handles POST /v1/chat/complete, the non-streaming variant.
func (h *ChatHandlers) HandleComplete(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if len(req.Messages) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "At least one message is required")
		return
	}

	if userID, ok := auth.GetUserIDFromContext(r.Context()); ok {
		req.UserID = &userID
	}

	answer, err := h.chatService.Complete(r.Context(), req)
	if err != nil {
		h.respondChatError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.CompleteResponse{Message: answer})
}

// HandleLimits handles GET /v1/limits for the signed-in caller.
func (h *ChatHandlers) HandleLimits(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	remaining, isAdmin, err := h.chatService.RemainingMessages(r.Context(), userID)
	if err != nil {
		log.Printf("[ChatHandlers] Failed to read limits for user %s: %v", userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to read limits")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.LimitsResponse{
		RemainingMessages: remaining,
		IsAdmin:           isAdmin,
	})
}

// respondChatError maps relay errors to the statuses and Persian messages
// the client surfaces directly.
func (h *ChatHandlers) respondChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrDailyLimitReached):
		httputil.RespondError(w, http.StatusTooManyRequests, msgDailyLimit)
	case errors.Is(err, services.ErrRateLimited):
		httputil.RespondError(w, http.StatusTooManyRequests, msgRateLimited)
	case errors.Is(err, services.ErrQuotaExhausted):
		httputil.RespondError(w, http.StatusPaymentRequired, msgQuotaExhausted)
	default:
		log.Printf("[ChatHandlers] Relay failed: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, msgGatewayFailed)
	}
}
