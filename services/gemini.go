package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient is a CompletionClient backed by the Gemini API
type GeminiClient struct {
	genaiClient *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

func NewGeminiClient(ctx context.Context, cfg AIConfig) (*GeminiClient, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := cfg.GeminiModel
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{
		genaiClient: genaiClient,
		model:       model,
		temperature: float32(cfg.Temperature),
		maxTokens:   int32(cfg.MaxTokens),
	}, nil
}

func (g *GeminiClient) Name() string { return "gemini" }

// Complete sends system messages as the system instruction and the rest as
// user content, asking for a JSON response.
func (g *GeminiClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	if g.genaiClient == nil {
		return "", fmt.Errorf("genai client not initialized")
	}

	var system []string
	var contents []*genai.Content
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.temperature),
		MaxOutputTokens:  g.maxTokens,
		ResponseMIMEType: "application/json",
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	result, err := g.genaiClient.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return result.Text(), nil
}
