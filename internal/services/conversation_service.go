package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pnuchat-backend/internal/models"
	"pnuchat-backend/internal/store"

	"github.com/google/uuid"
)

// ErrNotOwner is returned when a caller touches a conversation that belongs
// to another user.
var ErrNotOwner = errors.New("conversation does not belong to the caller")

// titleLimit is how many characters of the first user message become the
// conversation title.
const titleLimit = 50

// ConversationService owns conversation and message persistence rules:
// ownership checks, first-message titling, and the edit/regenerate cleanup
// of the trailing assistant turn.
type ConversationService struct {
	store store.Store
}

// NewConversationService creates a new ConversationService.
func NewConversationService(s store.Store) *ConversationService {
	return &ConversationService{store: s}
}

// CreateConversation starts a new conversation. If the user had another
// conversation active, its updated_at is bumped so it keeps its place in
// the sidebar ordering.
func (s *ConversationService) CreateConversation(ctx context.Context, userID uuid.UUID, priorActiveID *uuid.UUID) (*models.Conversation, error) {
	if priorActiveID != nil {
		if err := s.store.TouchConversation(ctx, *priorActiveID); err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Printf("WARN [ConversationService] Failed to touch prior conversation %s: %v", *priorActiveID, err)
		}
	}

	conv, err := s.store.CreateConversation(ctx, userID, "گفتگوی جدید")
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

// GetConversation returns a conversation after verifying ownership.
func (s *ConversationService) GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*models.Conversation, error) {
	conv, err := s.store.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, ErrNotOwner
	}
	return conv, nil
}

// RenameConversation sets a conversation's title after verifying ownership.
func (s *ConversationService) RenameConversation(ctx context.Context, userID, conversationID uuid.UUID, title string) error {
	if _, err := s.GetConversation(ctx, userID, conversationID); err != nil {
		return err
	}
	return s.store.UpdateConversationTitle(ctx, conversationID, truncateTitle(title))
}

// ListConversations returns the caller's conversations, most recent first.
func (s *ConversationService) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	return s.store.ListConversationsByUser(ctx, userID)
}

// DeleteConversation removes a conversation the caller owns.
func (s *ConversationService) DeleteConversation(ctx context.Context, userID, conversationID uuid.UUID) error {
	if _, err := s.GetConversation(ctx, userID, conversationID); err != nil {
		return err
	}
	return s.store.DeleteConversation(ctx, conversationID)
}

// ListMessages returns a conversation's messages oldest first.
func (s *ConversationService) ListMessages(ctx context.Context, userID, conversationID uuid.UUID) ([]models.Message, error) {
	if _, err := s.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, conversationID)
}

// AddMessage persists one message. The first user message of a conversation
// also sets its title from the leading characters of the content.
func (s *ConversationService) AddMessage(ctx context.Context, userID, conversationID uuid.UUID, req models.CreateMessageRequest) (*models.Message, error) {
	if _, err := s.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	existing, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	msg, err := s.store.CreateMessage(ctx, store.CreateMessageParams{
		ConversationID: conversationID,
		Role:           req.Role,
		Content:        req.Content,
		ImageURL:       req.ImageURL,
		FileURL:        req.FileURL,
	})
	if err != nil {
		return nil, err
	}

	if len(existing) == 0 && req.Role == models.RoleUser {
		if err := s.store.UpdateConversationTitle(ctx, conversationID, truncateTitle(req.Content)); err != nil {
			log.Printf("WARN [ConversationService] Failed to set title for conversation %s: %v", conversationID, err)
		}
	}

	return msg, nil
}

// EditMessage replaces a user message's content and deletes the immediately
// following assistant message, if any, so the caller can regenerate it.
// Returns the id of the deleted assistant message, or uuid.Nil.
func (s *ConversationService) EditMessage(ctx context.Context, userID, messageID uuid.UUID, content string) (uuid.UUID, error) {
	msg, err := s.store.GetMessageByID(ctx, messageID)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := s.GetConversation(ctx, userID, msg.ConversationID); err != nil {
		return uuid.Nil, err
	}

	if err := s.store.UpdateMessageContent(ctx, messageID, content); err != nil {
		return uuid.Nil, err
	}

	if msg.Role != models.RoleUser {
		return uuid.Nil, nil
	}

	messages, err := s.store.ListMessages(ctx, msg.ConversationID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to list messages: %w", err)
	}
	for i, m := range messages {
		if m.ID != messageID {
			continue
		}
		if i+1 < len(messages) && messages[i+1].Role == models.RoleAssistant {
			next := messages[i+1].ID
			if err := s.store.DeleteMessage(ctx, next); err != nil {
				return uuid.Nil, fmt.Errorf("failed to delete following assistant message: %w", err)
			}
			return next, nil
		}
		break
	}
	return uuid.Nil, nil
}

// DeleteMessage removes one message the caller owns.
func (s *ConversationService) DeleteMessage(ctx context.Context, userID, messageID uuid.UUID) error {
	msg, err := s.store.GetMessageByID(ctx, messageID)
	if err != nil {
		return err
	}
	if _, err := s.GetConversation(ctx, userID, msg.ConversationID); err != nil {
		return err
	}
	return s.store.DeleteMessage(ctx, messageID)
}

// truncateTitle cuts content to the title limit on rune boundaries; Persian
// text would be mangled by a byte slice.
func truncateTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleLimit {
		return content
	}
	return string(runes[:titleLimit])
}
