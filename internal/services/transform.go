package services

import (
	"pnuchat-backend/internal/models"

	goopenai "github.com/sashabaranov/go-openai"
)

// GatewayMessages converts a conversation history into the gateway's
// chat-completion message shape. The transformation is total and
// order-preserving: every history entry maps to exactly one gateway
// message. An entry carrying an image becomes a two-part message (text
// part + image_url part); everything else stays a single text part.
func GatewayMessages(history []models.ChatRequestMessage) []goopenai.ChatCompletionMessage {
	msgs := make([]goopenai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		gm := goopenai.ChatCompletionMessage{
			Role: string(m.Role),
		}
		if m.ImageURL != nil && *m.ImageURL != "" {
			gm.MultiContent = []goopenai.ChatMessagePart{
				{
					Type: goopenai.ChatMessagePartTypeText,
					Text: m.Content,
				},
				{
					Type: goopenai.ChatMessagePartTypeImageURL,
					ImageURL: &goopenai.ChatMessageImageURL{
						URL: *m.ImageURL,
					},
				},
			}
		} else {
			gm.Content = m.Content
		}
		msgs = append(msgs, gm)
	}
	return msgs
}

// HasImageAttachment reports whether any history entry carries an image,
// which decides the model variant the relay requests.
func HasImageAttachment(history []models.ChatRequestMessage) bool {
	for _, m := range history {
		if m.ImageURL != nil && *m.ImageURL != "" {
			return true
		}
	}
	return false
}
