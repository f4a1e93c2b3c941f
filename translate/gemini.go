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
// Google AI (Gemini) backend
// ---------------------------------------------------------------------------

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiBackend calls the Google Generative Language API.
type GeminiBackend struct {
	// BaseURL is the models endpoint prefix; overridable for tests.
	BaseURL string
	// Timeout is the per-request timeout.
	Timeout time.Duration

	apiKey string
	model  string
	client *http.Client
}

// NewGeminiBackend returns a backend for the given key and model.
func NewGeminiBackend(apiKey, model string) *GeminiBackend {
	return &GeminiBackend{
		BaseURL: geminiBaseURL,
		Timeout: 30 * time.Second,
		apiKey:  apiKey,
		model:   model,
	}
}

func (b *GeminiBackend) Provider() string { return ProviderGoogle }
func (b *GeminiBackend) Model() string    { return b.model }

func (b *GeminiBackend) httpClient() *http.Client {
	if b.client == nil {
		b.client = &http.Client{Timeout: b.Timeout}
	}
	return b.client
}

func buildGeminiRequest(prompt string) ([]byte, error) {
	type part struct {
		Text string `json:"text"`
	}
	type content struct {
		Parts []part `json:"parts"`
	}
	type genConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
		TopP            float64 `json:"topP"`
		TopK            int     `json:"topK"`
	}
	req := struct {
		Contents         []content `json:"contents"`
		GenerationConfig genConfig `json:"generationConfig"`
	}{
		Contents: []content{
			{Parts: []part{{Text: SystemPrompt + "\n\n" + prompt}}},
		},
		GenerationConfig: genConfig{
			Temperature:     0.3,
			MaxOutputTokens: 150,
			TopP:            0.8,
			TopK:            40,
		},
	}
	return json.Marshal(req)
}

// Call sends prompt to the generateContent endpoint and returns the
// first candidate's text.
func (b *GeminiBackend) Call(ctx context.Context, prompt string) (string, error) {
	body, err := buildGeminiRequest(prompt)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s",
		strings.TrimRight(b.BaseURL, "/"), b.model, b.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("Gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API error: %d - %s", resp.StatusCode, geminiErrorMessage(respBody))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("parsing Gemini response: %w", err)
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("Gemini response has no candidates")
	}
	parts := result.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", fmt.Errorf("Gemini response has unexpected structure")
	}
	return strings.TrimSpace(parts[0].Text), nil
}

// geminiErrorMessage pulls the error.message field out of an error
// body, falling back to the raw body.
func geminiErrorMessage(body []byte) string {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return truncate(string(body), 300)
}
