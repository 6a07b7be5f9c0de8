package services

import (
	"testing"

	"pnuchat-backend/internal/models"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestGatewayMessages_TotalAndOrderPreserving(t *testing.T) {
	history := []models.ChatRequestMessage{
		{Role: models.RoleUser, Content: "سوال اول"},
		{Role: models.RoleAssistant, Content: "پاسخ اول"},
		{Role: models.RoleUser, Content: "این چیست؟", ImageURL: strPtr("https://cdn.example.com/a.png")},
		{Role: models.RoleUser, Content: "سوال آخر"},
	}

	msgs := GatewayMessages(history)
	require.Len(t, msgs, len(history))

	for i, m := range history {
		assert.Equal(t, string(m.Role), msgs[i].Role)
	}
	assert.Equal(t, "سوال اول", msgs[0].Content)
	assert.Equal(t, "پاسخ اول", msgs[1].Content)
	assert.Equal(t, "سوال آخر", msgs[3].Content)
}

func TestGatewayMessages_ImageBecomesTwoParts(t *testing.T) {
	history := []models.ChatRequestMessage{
		{Role: models.RoleUser, Content: "توضیح بده", ImageURL: strPtr("https://cdn.example.com/a.png")},
	}

	msgs := GatewayMessages(history)
	require.Len(t, msgs, 1)

	parts := msgs[0].MultiContent
	require.Len(t, parts, 2)
	assert.Equal(t, goopenai.ChatMessagePartTypeText, parts[0].Type)
	assert.Equal(t, "توضیح بده", parts[0].Text)
	assert.Equal(t, goopenai.ChatMessagePartTypeImageURL, parts[1].Type)
	require.NotNil(t, parts[1].ImageURL)
	assert.Equal(t, "https://cdn.example.com/a.png", parts[1].ImageURL.URL)
	assert.Empty(t, msgs[0].Content)
}

func TestGatewayMessages_EmptyImageURLStaysText(t *testing.T) {
	history := []models.ChatRequestMessage{
		{Role: models.RoleUser, Content: "متن خالی", ImageURL: strPtr("")},
	}

	msgs := GatewayMessages(history)
	require.Len(t, msgs, 1)
	assert.Nil(t, msgs[0].MultiContent)
	assert.Equal(t, "متن خالی", msgs[0].Content)
}

func TestHasImageAttachment(t *testing.T) {
	assert.False(t, HasImageAttachment(nil))
	assert.False(t, HasImageAttachment([]models.ChatRequestMessage{
		{Role: models.RoleUser, Content: "a"},
		{Role: models.RoleUser, Content: "b", ImageURL: strPtr("")},
	}))
	assert.True(t, HasImageAttachment([]models.ChatRequestMessage{
		{Role: models.RoleUser, Content: "a"},
		{Role: models.RoleUser, Content: "b", ImageURL: strPtr("https://cdn.example.com/x.jpg")},
	}))
}
