// Package translate implements AI-powered translation of language-file
// entries into Arabic using HTTP API-based providers: OpenAI (GPT) and
// Google AI (Gemini).
//
// A provider backend performs one raw model call; the Engine wraps a
// backend with text conditioning, cache lookup, per-provider rate
// limiting, and retry with increasing backoff. The Manager keeps a
// registry of engines and drives batch runs.
package translate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ---------------------------------------------------------------------------
// Provider IDs
// ---------------------------------------------------------------------------

const (
	ProviderOpenAI = "openai"
	ProviderGoogle = "google"
)

// DefaultModel returns the default model for a provider ID.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-3.5-turbo"
	case ProviderGoogle:
		return "gemini-2.5-flash"
	}
	return ""
}

// SystemPrompt is the instruction sent with every translation request.
const SystemPrompt = `You are a professional translator localizing application UI strings into Arabic.

- Translate the given text into natural, fluent Modern Standard Arabic.
- Keep the translation short and suitable for a user interface.
- Preserve placeholders, numbers, and HTML tags exactly as they appear.
- Keep brand names and proper nouns unchanged.
- Return ONLY the translation, no explanations and no quotes.`

// ---------------------------------------------------------------------------
// Backend and Engine
// ---------------------------------------------------------------------------

// Backend performs a single raw model call.
type Backend interface {
	// Call sends prompt to the model and returns the response text.
	Call(ctx context.Context, prompt string) (string, error)
	// Provider returns the provider ID.
	Provider() string
	// Model returns the model identifier.
	Model() string
}

// Translator is the capability the rest of the application depends on.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Cache is the translation-memory surface the engine consults. Both
// methods must be cheap; misses return ok == false.
type Cache interface {
	Get(text string) (string, bool)
	Set(text, translation string)
}

const maxAttempts = 3

// Engine wraps a backend with conditioning, caching, rate limiting and
// retries. It implements Translator.
type Engine struct {
	backend  Backend
	cache    Cache
	glossary Glossary
	delay    time.Duration
	warn     func(format string, args ...any)

	mu   sync.Mutex
	last time.Time
}

// EngineOptions configures NewEngine. Zero values select defaults.
type EngineOptions struct {
	// Cache is optional; nil disables translation memory.
	Cache Cache
	// Glossary applied to provider output; nil uses DefaultGlossary.
	Glossary Glossary
	// Delay between requests; zero uses the provider default.
	Delay time.Duration
	// Warn receives non-fatal retry and failure notices.
	Warn func(format string, args ...any)
}

// NewEngine builds an engine around backend.
func NewEngine(backend Backend, opts EngineOptions) *Engine {
	delay := opts.Delay
	if delay == 0 {
		delay = defaultDelay(backend.Provider())
	}
	glossary := opts.Glossary
	if glossary == nil {
		glossary = DefaultGlossary()
	}
	warn := opts.Warn
	if warn == nil {
		warn = func(string, ...any) {}
	}
	return &Engine{
		backend:  backend,
		cache:    opts.Cache,
		glossary: glossary,
		delay:    delay,
		warn:     warn,
	}
}

// defaultDelay is the minimum spacing between requests per provider.
func defaultDelay(provider string) time.Duration {
	switch provider {
	case ProviderOpenAI:
		return 500 * time.Millisecond
	case ProviderGoogle:
		return 300 * time.Millisecond
	}
	return time.Second
}

// Model returns the backend's model identifier.
func (e *Engine) Model() string { return e.backend.Model() }

// Provider returns the backend's provider ID.
func (e *Engine) Provider() string { return e.backend.Provider() }

// Translate translates text into Arabic. Failures degrade to returning
// the original text unchanged so a batch run never aborts: an
// unusable key (401/403-class errors) and exhausted retries both
// produce the original as a decline signal.
func (e *Engine) Translate(ctx context.Context, text string) (string, error) {
	clean := CleanForTranslation(text)
	if clean == "" {
		return text, nil
	}

	if e.cache != nil {
		if cached, ok := e.cache.Get(clean); ok && cached != "" {
			return cached, nil
		}
	}

	if err := e.applyRateLimit(ctx); err != nil {
		return text, err
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		translated, err := e.backend.Call(ctx, clean)
		if err == nil {
			result := FormatResult(text, translated, e.glossary)
			if e.cache != nil {
				e.cache.Set(clean, result)
			}
			return result, nil
		}
		lastErr = err

		if !retryable(err) {
			e.warn("unusable API key, not retrying: %v", err)
			return text, nil
		}
		if attempt < maxAttempts-1 {
			wait := time.Duration(attempt+1) * 2 * time.Second
			e.warn("attempt %d failed, retrying in %s: %v", attempt+1, wait, err)
			select {
			case <-ctx.Done():
				return text, ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	e.warn("all attempts failed for %q: %v", clean, lastErr)
	return text, nil
}

// retryable reports whether an error is worth another attempt.
// Authentication failures are terminal.
func retryable(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, term := range []string{"invalid", "expired", "unauthorized", "401", "403"} {
		if strings.Contains(msg, term) {
			return false
		}
	}
	return true
}

// applyRateLimit blocks until the provider delay since the previous
// request has elapsed.
func (e *Engine) applyRateLimit(ctx context.Context) error {
	e.mu.Lock()
	wait := e.delay - time.Since(e.last)
	e.last = time.Now().Add(wait)
	e.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// ---------------------------------------------------------------------------
// Cost estimation
// ---------------------------------------------------------------------------

// modelCosts maps model names to an approximate USD cost per 1000
// source words.
var modelCosts = map[string]float64{
	"gpt-4o":           0.005,
	"gpt-4-turbo":      0.01,
	"gpt-3.5-turbo":    0.0015,
	"gemini-2.5-flash": 0.0,
	"gemini-2.5-pro":   0.0035,
}

const unknownModelCost = 0.01

// EstimateCost returns the approximate cost of translating wordCount
// words with model. Unknown models use a conservative default.
func EstimateCost(wordCount int, model string) float64 {
	cost, ok := modelCosts[model]
	if !ok {
		cost = unknownModelCost
	}
	return float64(wordCount) / 1000 * cost
}

// EconomyModels lists known models from cheapest to most expensive.
var EconomyModels = []string{
	"gpt-3.5-turbo",
	"gemini-2.5-flash",
	"gemini-2.5-pro",
	"gpt-4-turbo",
	"gpt-4o",
}

// ---------------------------------------------------------------------------
// API key validation
// ---------------------------------------------------------------------------

// ValidateAPIKey performs a cheap shape check on an API key before any
// network call is made.
func ValidateAPIKey(provider, key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	switch provider {
	case ProviderOpenAI:
		return strings.HasPrefix(key, "sk-") && len(key) > 20
	case ProviderGoogle:
		return len(key) > 30
	}
	return false
}

// NewBackend constructs a provider backend by ID. An empty model picks
// the provider default.
func NewBackend(provider, apiKey, model string) (Backend, error) {
	if model == "" {
		model = DefaultModel(provider)
	}
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIBackend(apiKey, model), nil
	case ProviderGoogle:
		return NewGeminiBackend(apiKey, model), nil
	}
	return nil, fmt.Errorf("unsupported provider %q", provider)
}
