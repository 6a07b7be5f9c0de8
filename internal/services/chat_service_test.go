package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"pnuchat-backend/internal/models"
	"pnuchat-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChatService(t *testing.T, st *memStore, dailyLimit int) *ChatService {
	t.Helper()
	relay := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: [DONE]\n\n"))
	})
	resolver := storage.NewPublicURLResolver("https://example.supabase.co", "educational-files")
	return NewChatService(st, relay, NewContextBuilder(st, resolver, time.UTC), dailyLimit)
}

func streamOnce(t *testing.T, svc *ChatService, userID *uuid.UUID) error {
	t.Helper()
	body, err := svc.StreamChat(context.Background(), models.ChatRequest{
		Messages: []models.ChatRequestMessage{{Role: models.RoleUser, Content: "سلام"}},
		UserID:   userID,
	})
	if err != nil {
		return err
	}
	return body.Close()
}

func TestStreamChat_AnonymousSkipsAccounting(t *testing.T) {
	st := newMemStore()
	svc := testChatService(t, st, 1)

	require.NoError(t, streamOnce(t, svc, nil))
	require.NoError(t, streamOnce(t, svc, nil))
	assert.Empty(t, st.limits)
}

func TestStreamChat_DailyLimitEnforced(t *testing.T) {
	st := newMemStore()
	svc := testChatService(t, st, 2)
	userID := uuid.New()

	require.NoError(t, streamOnce(t, svc, &userID))
	require.NoError(t, streamOnce(t, svc, &userID))

	err := streamOnce(t, svc, &userID)
	assert.ErrorIs(t, err, ErrDailyLimitReached)
}

func TestStreamChat_AdminBypassesLimit(t *testing.T) {
	st := newMemStore()
	svc := testChatService(t, st, 1)
	adminID := uuid.New()
	require.NoError(t, st.SetUserRole(context.Background(), adminID, "admin"))

	require.NoError(t, streamOnce(t, svc, &adminID))
	require.NoError(t, streamOnce(t, svc, &adminID))
	require.NoError(t, streamOnce(t, svc, &adminID))
}

func TestStreamChat_DateRolloverResetsUsage(t *testing.T) {
	st := newMemStore()
	svc := testChatService(t, st, 2)
	userID := uuid.New()

	// Yesterday's exhausted allowance must not count today.
	st.limits[userID] = models.DailyLimit{
		UserID:        userID,
		MessagesToday: 2,
		LastResetDate: "2020-01-01",
	}

	require.NoError(t, streamOnce(t, svc, &userID))
	limit := st.limits[userID]
	assert.Equal(t, 1, limit.MessagesToday)
	assert.Equal(t, time.Now().Format("2006-01-02"), limit.LastResetDate)
}

func TestRemainingMessages(t *testing.T) {
	st := newMemStore()
	svc := testChatService(t, st, 10)
	userID := uuid.New()

	remaining, isAdmin, err := svc.RemainingMessages(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 10, remaining)
	assert.False(t, isAdmin)

	require.NoError(t, streamOnce(t, svc, &userID))

	remaining, _, err = svc.RemainingMessages(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 9, remaining)
}

func TestRemainingMessages_Admin(t *testing.T) {
	st := newMemStore()
	svc := testChatService(t, st, 10)
	adminID := uuid.New()
	require.NoError(t, st.SetUserRole(context.Background(), adminID, "admin"))

	remaining, isAdmin, err := svc.RemainingMessages(context.Background(), adminID)
	require.NoError(t, err)
	assert.True(t, isAdmin)
	assert.Equal(t, 10, remaining)
}
