package translate

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/tarjimlab/tarjim/grouping"
)

// ---------------------------------------------------------------------------
// Engine registry
// ---------------------------------------------------------------------------

// Manager keeps named engines and drives batch translation runs.
type Manager struct {
	mu      sync.Mutex
	engines map[string]*Engine
	current string
}

// NewManager returns an empty registry.
func NewManager() *Manager {
	return &Manager{engines: make(map[string]*Engine)}
}

// Add registers an engine under name, replacing any previous one.
func (m *Manager) Add(name string, e *Engine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engines[name] = e
	if m.current == "" {
		m.current = name
	}
}

// SetCurrent selects the default engine. Returns false when name is
// not registered.
func (m *Manager) SetCurrent(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.engines[name]; !ok {
		return false
	}
	m.current = name
	return true
}

// Available returns the registered engine names, sorted.
func (m *Manager) Available() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.engines))
	for name := range m.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// engine resolves name, falling back to the current engine.
func (m *Manager) engine(name string) (*Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == "" {
		name = m.current
	}
	e, ok := m.engines[name]
	if !ok {
		return nil, fmt.Errorf("no translation engine %q configured", name)
	}
	return e, nil
}

// Translate translates text with the named engine, or the current one
// when name is empty.
func (m *Manager) Translate(ctx context.Context, text, name string) (string, error) {
	e, err := m.engine(name)
	if err != nil {
		return "", err
	}
	return e.Translate(ctx, text)
}

// EconomyEngine returns the cheapest registered engine by model cost
// order, or "" when none of the known models is registered.
func (m *Manager) EconomyEngine() string {
	available := m.Available()
	for _, model := range EconomyModels {
		for _, name := range available {
			if name == model {
				return name
			}
		}
	}
	return ""
}

// Test performs a probe translation with the named engine and reports
// whether it produced a real translation.
func (m *Manager) Test(ctx context.Context, name string) (bool, string) {
	e, err := m.engine(name)
	if err != nil {
		return false, err.Error()
	}
	const probe = "Hello"
	result, err := e.Translate(ctx, probe)
	if err != nil {
		return false, err.Error()
	}
	if result == "" || result == probe {
		return false, "translation failed"
	}
	return true, result
}

// ---------------------------------------------------------------------------
// Batch runs
// ---------------------------------------------------------------------------

// ProgressFunc receives batch progress after each completed text.
type ProgressFunc func(done, total int)

// TranslateBatch translates texts in order with the named engine.
// Similar texts are clustered so one grouped request can resolve a
// whole cluster; failures fall back to per-text translation, and a
// text that cannot be translated passes through unchanged. The result
// has exactly one entry per input, in input order.
func (m *Manager) TranslateBatch(ctx context.Context, texts []string, name string, progress ProgressFunc) ([]string, error) {
	e, err := m.engine(name)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = func(int, int) {}
	}

	total := len(texts)
	results := make(map[string]string, total)
	done := 0

	for _, group := range grouping.Group(texts, grouping.DefaultThreshold) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var translations []string
		if len(group) == 1 {
			t, err := e.Translate(ctx, group[0])
			if err != nil {
				return nil, err
			}
			translations = []string{t}
		} else {
			translations, err = e.translateGroup(ctx, group)
			if err != nil {
				return nil, err
			}
		}

		for i, text := range group {
			results[text] = translations[i]
			done++
			progress(done, total)
		}
	}

	out := make([]string, total)
	for i, text := range texts {
		out[i] = results[text]
	}
	return out, nil
}

// translateGroup resolves a cluster of similar texts with a single
// numbered-list request. A malformed response falls back to per-text
// translation.
func (e *Engine) translateGroup(ctx context.Context, texts []string) ([]string, error) {
	var prompt strings.Builder
	prompt.WriteString("ترجم النصوص التالية إلى العربية، كل نص في سطر منفصل:\n\n")
	for i, text := range texts {
		fmt.Fprintf(&prompt, "%d. %s\n", i+1, CleanForTranslation(text))
	}
	prompt.WriteString("\nاكتب الترجمات بنفس الترتيب، كل ترجمة في سطر منفصل:")

	if err := e.applyRateLimit(ctx); err != nil {
		return nil, err
	}
	response, err := e.backend.Call(ctx, prompt.String())
	if err != nil {
		e.warn("grouped translation failed, falling back: %v", err)
		return e.translateEach(ctx, texts)
	}

	translations := parseNumberedResponse(response)
	if len(translations) < len(texts) {
		e.warn("grouped translation returned %d of %d lines, falling back", len(translations), len(texts))
		return e.translateEach(ctx, texts)
	}

	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = FormatResult(text, translations[i], e.glossary)
		if e.cache != nil {
			if clean := CleanForTranslation(text); clean != "" {
				e.cache.Set(clean, out[i])
			}
		}
	}
	return out, nil
}

func (e *Engine) translateEach(ctx context.Context, texts []string) ([]string, error) {
	out := make([]string, len(texts))
	for i, text := range texts {
		t, err := e.Translate(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

var leadingNumber = regexp.MustCompile(`^\d+[.)]\s*`)

// parseNumberedResponse splits a numbered-list reply into its lines,
// stripping the numbering.
func parseNumberedResponse(response string) []string {
	var translations []string
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if clean := leadingNumber.ReplaceAllString(line, ""); clean != "" {
			translations = append(translations, clean)
		}
	}
	return translations
}
