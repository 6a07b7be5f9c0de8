package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"pnuchat-backend/internal/models"
	"pnuchat-backend/internal/store"

	"github.com/google/uuid"
)

// ErrDailyLimitReached means the user spent their AI message allowance for
// the day. Admins never hit it.
var ErrDailyLimitReached = errors.New("daily ai message limit reached")

// ChatService orchestrates one relay call: usage accounting, system prompt
// assembly, and the outbound gateway stream.
type ChatService struct {
	store      store.Store
	relay      *GatewayRelay
	contextB   *ContextBuilder
	dailyLimit int
}

// NewChatService creates a new ChatService.
func NewChatService(s store.Store, relay *GatewayRelay, contextB *ContextBuilder, dailyLimit int) *ChatService {
	return &ChatService{
		store:      s,
		relay:      relay,
		contextB:   contextB,
		dailyLimit: dailyLimit,
	}
}

// StreamChat runs the full relay path for one request and returns the open
// gateway byte stream. The caller owns closing it.
func (s *ChatService) StreamChat(ctx context.Context, req models.ChatRequest) (io.ReadCloser, error) {
	if err := s.consumeAllowance(ctx, req.UserID); err != nil {
		return nil, err
	}

	systemPrompt := s.contextB.BuildSystemPrompt(ctx, req.UserID, time.Now())
	return s.relay.Stream(ctx, systemPrompt, req.Messages)
}

// Complete runs the non-streaming relay path and returns the full answer.
func (s *ChatService) Complete(ctx context.Context, req models.ChatRequest) (string, error) {
	if err := s.consumeAllowance(ctx, req.UserID); err != nil {
		return "", err
	}

	systemPrompt := s.contextB.BuildSystemPrompt(ctx, req.UserID, time.Now())
	return s.relay.Complete(ctx, systemPrompt, req.Messages)
}

// RemainingMessages reports how many AI messages the user has left today.
func (s *ChatService) RemainingMessages(ctx context.Context, userID uuid.UUID) (remaining int, isAdmin bool, err error) {
	if s.isAdmin(ctx, userID) {
		return s.dailyLimit, true, nil
	}

	limit, err := s.currentLimit(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	remaining = s.dailyLimit - limit.MessagesToday
	if remaining < 0 {
		remaining = 0
	}
	return remaining, false, nil
}

// consumeAllowance checks and increments the caller's daily usage.
// Anonymous callers are not accounted; admins bypass the cap.
func (s *ChatService) consumeAllowance(ctx context.Context, userID *uuid.UUID) error {
	if userID == nil {
		return nil
	}
	if s.isAdmin(ctx, *userID) {
		return nil
	}

	limit, err := s.currentLimit(ctx, *userID)
	if err != nil {
		return err
	}
	if limit.MessagesToday >= s.dailyLimit {
		return ErrDailyLimitReached
	}

	limit.MessagesToday++
	if err := s.store.UpsertDailyLimit(ctx, limit); err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// currentLimit fetches the usage row for today, creating or resetting it as
// needed when the date rolled over.
func (s *ChatService) currentLimit(ctx context.Context, userID uuid.UUID) (*models.DailyLimit, error) {
	today := time.Now().Format("2006-01-02")

	limit, err := s.store.GetDailyLimit(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		limit = &models.DailyLimit{UserID: userID, MessagesToday: 0, LastResetDate: today}
		if err := s.store.UpsertDailyLimit(ctx, limit); err != nil {
			return nil, fmt.Errorf("failed to create daily limit: %w", err)
		}
		return limit, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily limit: %w", err)
	}

	if limit.LastResetDate != today {
		limit.MessagesToday = 0
		limit.LastResetDate = today
		if err := s.store.UpsertDailyLimit(ctx, limit); err != nil {
			return nil, fmt.Errorf("failed to reset daily limit: %w", err)
		}
	}
	return limit, nil
}

func (s *ChatService) isAdmin(ctx context.Context, userID uuid.UUID) bool {
	role, err := s.store.GetUserRole(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("WARN [ChatService] Role lookup failed for user %s: %v", userID, err)
		}
		return false
	}
	return role == "admin"
}
