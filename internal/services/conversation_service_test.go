package services

import (
	"context"
	"strings"
	"testing"

	"pnuchat-backend/internal/models"
	"pnuchat-backend/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addMessage(t *testing.T, svc *ConversationService, userID, convID uuid.UUID, role models.MessageRole, content string) *models.Message {
	t.Helper()
	msg, err := svc.AddMessage(context.Background(), userID, convID, models.CreateMessageRequest{
		Role:    role,
		Content: content,
	})
	require.NoError(t, err)
	return msg
}

func TestCreateConversation_DefaultTitle(t *testing.T) {
	svc := NewConversationService(newMemStore())
	userID := uuid.New()

	conv, err := svc.CreateConversation(context.Background(), userID, nil)
	require.NoError(t, err)
	assert.Equal(t, "گفتگوی جدید", conv.Title)
	assert.Equal(t, userID, conv.UserID)
}

func TestAddMessage_FirstUserMessageSetsTitle(t *testing.T) {
	st := newMemStore()
	svc := NewConversationService(st)
	userID := uuid.New()

	conv, err := svc.CreateConversation(context.Background(), userID, nil)
	require.NoError(t, err)

	long := strings.Repeat("سوال ", 20) // well past the title cutoff
	addMessage(t, svc, userID, conv.ID, models.RoleUser, long)

	got, err := svc.GetConversation(context.Background(), userID, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, len([]rune(got.Title)))
	assert.True(t, strings.HasPrefix(long, got.Title))

	// A second message must not retitle.
	addMessage(t, svc, userID, conv.ID, models.RoleUser, "دومین پیام")
	got, err = svc.GetConversation(context.Background(), userID, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, len([]rune(got.Title)))
}

func TestAddMessage_AssistantFirstDoesNotSetTitle(t *testing.T) {
	svc := NewConversationService(newMemStore())
	userID := uuid.New()

	conv, err := svc.CreateConversation(context.Background(), userID, nil)
	require.NoError(t, err)

	addMessage(t, svc, userID, conv.ID, models.RoleAssistant, "خوش آمدید")

	got, err := svc.GetConversation(context.Background(), userID, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "گفتگوی جدید", got.Title)
}

func TestGetConversation_OwnershipEnforced(t *testing.T) {
	svc := NewConversationService(newMemStore())
	owner := uuid.New()

	conv, err := svc.CreateConversation(context.Background(), owner, nil)
	require.NoError(t, err)

	_, err = svc.GetConversation(context.Background(), uuid.New(), conv.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.GetConversation(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEditMessage_DeletesFollowingAssistantOnce(t *testing.T) {
	st := newMemStore()
	svc := NewConversationService(st)
	userID := uuid.New()

	conv, err := svc.CreateConversation(context.Background(), userID, nil)
	require.NoError(t, err)

	q1 := addMessage(t, svc, userID, conv.ID, models.RoleUser, "سوال اول")
	a1 := addMessage(t, svc, userID, conv.ID, models.RoleAssistant, "پاسخ اول")
	q2 := addMessage(t, svc, userID, conv.ID, models.RoleUser, "سوال دوم")

	deleted, err := svc.EditMessage(context.Background(), userID, q1.ID, "سوال اول ویرایش شده")
	require.NoError(t, err)
	assert.Equal(t, a1.ID, deleted)

	msgs, err := svc.ListMessages(context.Background(), userID, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "سوال اول ویرایش شده", msgs[0].Content)
	assert.Equal(t, q2.ID, msgs[1].ID)

	// Editing again with no assistant follower deletes nothing more.
	deleted, err = svc.EditMessage(context.Background(), userID, q1.ID, "بار دوم")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, deleted)
}

func TestEditMessage_LastUserMessageDeletesNothing(t *testing.T) {
	svc := NewConversationService(newMemStore())
	userID := uuid.New()

	conv, err := svc.CreateConversation(context.Background(), userID, nil)
	require.NoError(t, err)
	q := addMessage(t, svc, userID, conv.ID, models.RoleUser, "تنها پیام")

	deleted, err := svc.EditMessage(context.Background(), userID, q.ID, "ویرایش")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, deleted)
}

func TestDeleteConversation_RemovesMessages(t *testing.T) {
	st := newMemStore()
	svc := NewConversationService(st)
	userID := uuid.New()

	conv, err := svc.CreateConversation(context.Background(), userID, nil)
	require.NoError(t, err)
	addMessage(t, svc, userID, conv.ID, models.RoleUser, "پیام")

	require.NoError(t, svc.DeleteConversation(context.Background(), userID, conv.ID))

	_, err = svc.GetConversation(context.Background(), userID, conv.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	msgs, err := st.ListMessages(context.Background(), conv.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
