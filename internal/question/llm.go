package question

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pkandie/examhall/internal/model"
)

// LLM drafts questions through an OpenAI-compatible chat-completion API.
// It is an optional alternative to the trivia provider for subjects the
// provider has no category for.
type LLM struct {
	api   *openai.Client
	model string
}

// NewLLM creates an LLM question source.
func NewLLM(baseURL, apiKey, modelName string) *LLM {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &LLM{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

type llmDraft struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Options  []string `json:"options"`
}

type llmPayload struct {
	Questions []llmDraft `json:"questions"`
}

// Fetch asks the model for count multiple-choice questions as JSON.
func (c *LLM) Fetch(ctx context.Context, subject string, count int, difficulty string) ([]model.Question, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildDraftPrompt(subject, count, difficulty)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("LLM returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM draft response", "raw", raw)

	var payload llmPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse LLM response: %w (raw: %s)", err, raw)
	}
	if len(payload.Questions) < count {
		return nil, fmt.Errorf("LLM returned %d questions, want %d", len(payload.Questions), count)
	}

	questions := make([]model.Question, 0, count)
	for _, d := range payload.Questions[:count] {
		if d.Question == "" || d.Answer == "" {
			return nil, fmt.Errorf("LLM returned a question with missing fields")
		}
		q := model.Question{
			Text:    d.Question,
			Answer:  d.Answer,
			Options: d.Options,
		}
		questions = append(questions, ShuffleOptions(Normalize(q)))
	}
	return questions, nil
}

func buildDraftPrompt(subject string, count int, difficulty string) string {
	var sb strings.Builder
	sb.WriteString("You are an exam question writer.\n")
	sb.WriteString(fmt.Sprintf("Write %d multiple-choice questions about %q", count, subject))
	if difficulty != "" {
		sb.WriteString(fmt.Sprintf(" at %s difficulty", strings.ToLower(difficulty)))
	}
	sb.WriteString(".\n\n")
	sb.WriteString("Each question must have exactly 4 options, one of which is the correct answer.\n")
	sb.WriteString("The correct answer string must appear verbatim in the options list.\n")
	sb.WriteString("Respond ONLY with a JSON object:\n")
	sb.WriteString(`{"questions": [{"question": "<text>", "answer": "<correct option>", "options": ["<a>", "<b>", "<c>", "<d>"]}]}`)
	sb.WriteString("\n")
	return sb.String()
}
