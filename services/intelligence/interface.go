package intelligence

import (
	"context"

	"remindly/models"
)

// ReplyService produces the next assistant utterance for a conversation.
// Implementations receive the full ordered transcript, where turn 0 carries
// the system instructions and the final turn is the latest user message.
type ReplyService interface {
	GenerateReply(ctx context.Context, turns []models.Turn, maxTokens int32, temperature float32) (string, error)
}
