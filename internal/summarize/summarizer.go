package summarize

import (
	"context"
	"fmt"
	"strings"

	"medivault/internal/llm"
)

const instruction = "Summarize this conversation between a patient and their doctor. Keep the key medical points and any follow-up actions."

// Summarizer produces a short summary of a conversation transcript.
type Summarizer struct {
	llm llm.Client
}

func NewSummarizer(client llm.Client) *Summarizer {
	return &Summarizer{llm: client}
}

// Summarize returns a trimmed summary of text. Empty or whitespace-only
// input short-circuits to "" without touching the service.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	resp, err := s.llm.Generate(ctx, []llm.Message{
		{Role: "system", Content: instruction},
		{Role: "user", Content: text},
	})
	if err != nil {
		return "", fmt.Errorf("summarize conversation: %w", err)
	}
	return strings.TrimSpace(resp.Content), nil
}
