// File: services/intelligence/geminiClient.go
package intelligence

import (
	"context"
	"fmt"
	"strings"

	"remindly/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiReplyService generates assistant replies with Gemini.
type GeminiReplyService struct {
	client    *genai.Client
	modelName string
}

func NewGeminiReplyService(apiKey, modelName string) (*GeminiReplyService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiReplyService{client: client, modelName: modelName}, nil
}

// GenerateReply maps the transcript onto a Gemini chat session: turn 0
// becomes the system instruction, intermediate turns become history, and the
// final user turn is sent as the message.
func (g *GeminiReplyService) GenerateReply(ctx context.Context, turns []models.Turn, maxTokens int32, temperature float32) (string, error) {
	if len(turns) < 2 {
		return "", fmt.Errorf("transcript too short: %d turns", len(turns))
	}
	last := turns[len(turns)-1]
	if last.Role != models.RoleUser {
		return "", fmt.Errorf("last turn has role %q, want %q", last.Role, models.RoleUser)
	}

	model := g.client.GenerativeModel(g.modelName)
	model.SetMaxOutputTokens(maxTokens)
	model.SetTemperature(temperature)
	if turns[0].Role == models.RoleSystem {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(turns[0].Content)},
		}
	}

	cs := model.StartChat()
	for _, turn := range turns[1 : len(turns)-1] {
		role := "user"
		if turn.Role == models.RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
