package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const completionModelName = "gemini-1.5-flash"

// Completer is the upstream text-completion service: one free-text
// prompt in, one generated reply out.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LLMService implements Completer against the Gemini API.
type LLMService struct {
	client *genai.Client
}

func NewLLMService(ctx context.Context, apiKey string) (*LLMService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &LLMService{client: client}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

// Complete sends the prompt to the model and returns the concatenated
// text of the first candidate. No timeout is applied beyond ctx.
func (s *LLMService) Complete(ctx context.Context, prompt string) (string, error) {
	model := s.client.GenerativeModel(completionModelName)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	reply := strings.TrimSpace(responseText.String())
	if reply == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return reply, nil
}
