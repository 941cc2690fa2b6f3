package services

import "context"

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ChatMessage is one role-tagged message of a completion request
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionClient sends a chat prompt to a language model and returns the
// raw text of the first answer.
type CompletionClient interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
	Name() string
}

// NewCompletionClient builds the client selected by cfg.Provider
func NewCompletionClient(ctx context.Context, cfg AIConfig) (CompletionClient, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiClient(ctx, cfg)
	default:
		return NewGroqClient(cfg, nil), nil
	}
}
