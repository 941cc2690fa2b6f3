package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
	defaultGroqModel   = "llama-3.3-70b-versatile"
)

// GroqClient talks to Groq's OpenAI-compatible chat completions endpoint
type GroqClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

func NewGroqClient(cfg AIConfig, httpClient *http.Client) *GroqClient {
	base := strings.TrimRight(strings.TrimSpace(cfg.GroqBaseURL), "/")
	if base == "" {
		base = defaultGroqBaseURL
	}
	model := cfg.GroqModel
	if model == "" {
		model = defaultGroqModel
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &GroqClient{
		apiKey:      cfg.GroqAPIKey,
		baseURL:     base,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client:      httpClient,
	}
}

func (c *GroqClient) Name() string { return "groq" }

type groqRequest struct {
	Model          string             `json:"model"`
	Messages       []ChatMessage      `json:"messages"`
	Temperature    float64            `json:"temperature"`
	MaxTokens      int                `json:"max_tokens,omitempty"`
	ResponseFormat groqResponseFormat `json:"response_format"`
}

type groqResponseFormat struct {
	Type string `json:"type"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type groqErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete asks for a JSON object answer. An empty answer is returned as ""
// so the caller can treat it as malformed output.
func (c *GroqClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", fmt.Errorf("groq api key missing")
	}

	payload := groqRequest{
		Model:          c.model,
		Messages:       messages,
		Temperature:    c.temperature,
		MaxTokens:      c.maxTokens,
		ResponseFormat: groqResponseFormat{Type: "json_object"},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call groq: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr groqErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("groq http %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("groq http %d", resp.StatusCode)
	}

	var body groqResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode groq response: %w", err)
	}
	if len(body.Choices) == 0 {
		return "", nil
	}
	return body.Choices[0].Message.Content, nil
}
