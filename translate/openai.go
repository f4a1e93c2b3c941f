package translate

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

// ---------------------------------------------------------------------------
// OpenAI chat completions backend
// ---------------------------------------------------------------------------

const openAIBaseURL = "https://api.openai.com/v1/chat/completions"

// OpenAIBackend calls the OpenAI chat completions API.
type OpenAIBackend struct {
	// BaseURL is the endpoint; overridable for tests.
	BaseURL string
	// Timeout is the per-request timeout.
	Timeout time.Duration

	apiKey string
	model  string
	client *http.Client
}

// NewOpenAIBackend returns a backend for the given key and model.
func NewOpenAIBackend(apiKey, model string) *OpenAIBackend {
	return &OpenAIBackend{
		BaseURL: openAIBaseURL,
		Timeout: 30 * time.Second,
		apiKey:  apiKey,
		model:   model,
	}
}

func (b *OpenAIBackend) Provider() string { return ProviderOpenAI }
func (b *OpenAIBackend) Model() string    { return b.model }

func (b *OpenAIBackend) httpClient() *http.Client {
	if b.client == nil {
		b.client = &http.Client{Timeout: b.Timeout}
	}
	return b.client
}

func buildChatRequest(model, systemPrompt, userPrompt string) ([]byte, error) {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	req := struct {
		Model       string  `json:"model"`
		Messages    []msg   `json:"messages"`
		MaxTokens   int     `json:"max_tokens"`
		Temperature float64 `json:"temperature"`
	}{
		Model: model,
		Messages: []msg{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   150,
		Temperature: 0.3,
	}
	return json.Marshal(req)
}

// Call sends prompt to the chat completions endpoint and returns the
// model's reply text.
func (b *OpenAIBackend) Call(ctx context.Context, prompt string) (string, error) {
	body, err := buildChatRequest(b.model, SystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("OpenAI request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API error: %d - %s", resp.StatusCode, truncate(string(respBody), 300))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("parsing OpenAI response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("OpenAI response has no choices")
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
