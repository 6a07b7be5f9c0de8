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

// ConversationService defines the interface expected from the conversation
// service.
type ConversationService interface {
	CreateConversation(ctx context.Context, userID uuid.UUID, priorActiveID *uuid.UUID) (*models.Conversation, error)
	GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*models.Conversation, error)
	RenameConversation(ctx context.Context, userID, conversationID uuid.UUID, title string) error
	ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error)
	DeleteConversation(ctx context.Context, userID, conversationID uuid.UUID) error
	ListMessages(ctx context.Context, userID, conversationID uuid.UUID) ([]models.Message, error)
	AddMessage(ctx context.Context, userID, conversationID uuid.UUID, req models.CreateMessageRequest) (*models.Message, error)
	EditMessage(ctx context.Context, userID, messageID uuid.UUID, content string) (uuid.UUID, error)
	DeleteMessage(ctx context.Context, userID, messageID uuid.UUID) error
}

type ConversationHandlers struct {
	convService ConversationService
}

func NewConversationHandlers(convSvc ConversationService) *ConversationHandlers {
	return &ConversationHandlers{
		convService: convSvc,
	}
}

// HandleCreateConversation handles POST /v1/conversations.
func (h *ConversationHandlers) HandleCreateConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	// The body is optional; an empty one simply starts a fresh conversation.
	var req models.CreateConversationRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
		defer r.Body.Close()
	}

	conv, err := h.convService.CreateConversation(r.Context(), userID, req.PriorConversationID)
	if err != nil {
		log.Printf("[ConversationHandlers] Create failed for user %s: %v", userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to create conversation")
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, toConversationResponse(conv))
}

// HandleListConversations handles GET /v1/conversations.
func (h *ConversationHandlers) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	convs, err := h.convService.ListConversations(r.Context(), userID)
	if err != nil {
		log.Printf("[ConversationHandlers] List failed for user %s: %v", userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list conversations")
		return
	}

	resp := make([]models.ConversationResponse, 0, len(convs))
	for i := range convs {
		resp = append(resp, *toConversationResponse(&convs[i]))
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleGetConversation handles GET /v1/conversations/{conversationID}.
func (h *ConversationHandlers) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	userID, conversationID, ok := callerAndParam(w, r, "conversationID")
	if !ok {
		return
	}

	conv, err := h.convService.GetConversation(r.Context(), userID, conversationID)
	if err != nil {
		h.respondConversationError(w, err, "fetch conversation")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, toConversationResponse(conv))
}

// HandleRenameConversation handles PATCH /v1/conversations/{conversationID}.
func (h *ConversationHandlers) HandleRenameConversation(w http.ResponseWriter, r *http.Request) {
	userID, conversationID, ok := callerAndParam(w, r, "conversationID")
	if !ok {
		return
	}

	var req models.UpdateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.Title == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Title is required")
		return
	}

	if err := h.convService.RenameConversation(r.Context(), userID, conversationID, req.Title); err != nil {
		h.respondConversationError(w, err, "rename conversation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteConversation handles DELETE /v1/conversations/{conversationID}.
func (h *ConversationHandlers) HandleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	userID, conversationID, ok := callerAndParam(w, r, "conversationID")
	if !ok {
		return
	}

	if err := h.convService.DeleteConversation(r.Context(), userID, conversationID); err != nil {
		h.respondConversationError(w, err, "delete conversation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListMessages handles GET /v1/conversations/{conversationID}/messages.
func (h *ConversationHandlers) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	userID, conversationID, ok := callerAndParam(w, r, "conversationID")
	if !ok {
		return
	}

	msgs, err := h.convService.ListMessages(r.Context(), userID, conversationID)
	if err != nil {
		h.respondConversationError(w, err, "list messages")
		return
	}

	resp := make([]models.MessageResponse, 0, len(msgs))
	for i := range msgs {
		resp = append(resp, *toMessageResponse(&msgs[i]))
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleAddMessage handles POST /v1/conversations/{conversationID}/messages.
func (h *ConversationHandlers) HandleAddMessage(w http.ResponseWriter, r *http.Request) {
	userID, conversationID, ok := callerAndParam(w, r, "conversationID")
	if !ok {
		return
	}

	var req models.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.Role != models.RoleUser && req.Role != models.RoleAssistant {
		httputil.RespondError(w, http.StatusBadRequest, "Role must be user or assistant")
		return
	}
	if req.Content == "" && req.ImageURL == nil && req.FileURL == nil {
		httputil.RespondError(w, http.StatusBadRequest, "Message content is required")
		return
	}

	msg, err := h.convService.AddMessage(r.Context(), userID, conversationID, req)
	if err != nil {
		h.respondConversationError(w, err, "add message")
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, toMessageResponse(msg))
}

// HandleEditMessage handles PUT /v1/messages/{messageID}. Editing a user
// message also removes the assistant reply that followed it.
func (h *ConversationHandlers) HandleEditMessage(w http.ResponseWriter, r *http.Request) {
	userID, messageID, ok := callerAndParam(w, r, "messageID")
	if !ok {
		return
	}

	var req models.UpdateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.Content == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Content is required")
		return
	}

	deletedID, err := h.convService.EditMessage(r.Context(), userID, messageID, req.Content)
	if err != nil {
		h.respondConversationError(w, err, "edit message")
		return
	}

	resp := map[string]any{"id": messageID}
	if deletedID != uuid.Nil {
		resp["deleted_assistant_message_id"] = deletedID
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleDeleteMessage handles DELETE /v1/messages/{messageID}.
func (h *ConversationHandlers) HandleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID, messageID, ok := callerAndParam(w, r, "messageID")
	if !ok {
		return
	}

	if err := h.convService.DeleteMessage(r.Context(), userID, messageID); err != nil {
		h.respondConversationError(w, err, "delete message")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ConversationHandlers) respondConversationError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrNotOwner):
		httputil.RespondError(w, http.StatusForbidden, "Conversation does not belong to the caller")
	default:
		log.Printf("[ConversationHandlers] Failed to %s: %v", op, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Internal error")
	}
}

func toConversationResponse(c *models.Conversation) *models.ConversationResponse {
	return &models.ConversationResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toMessageResponse(m *models.Message) *models.MessageResponse {
	return &models.MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           m.Role,
		Content:        m.Content,
		ImageURL:       m.ImageURL,
		FileURL:        m.FileURL,
		CreatedAt:      m.CreatedAt,
	}
}
