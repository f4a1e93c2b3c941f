package translate

import (
	"regexp"
	"strings"
)

// ---------------------------------------------------------------------------
// Text conditioning
// ---------------------------------------------------------------------------

var (
	hyphenRun     = regexp.MustCompile(`\s*-\s*`)
	exPrefix      = regexp.MustCompile(`(?i)^ex\s*:?\s*`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// CleanForTranslation prepares raw source text for the model: wrapping
// quotes are stripped, underscores and hyphens become spaces, an "ex:"
// prefix becomes an Arabic example marker, and whitespace is collapsed.
// Returns "" when nothing translatable remains.
func CleanForTranslation(text string) string {
	text = strings.Trim(strings.TrimSpace(text), `"'`)
	text = strings.ReplaceAll(text, "_", " ")
	text = hyphenRun.ReplaceAllString(text, " ")
	text = exPrefix.ReplaceAllString(text, "مثال: ")
	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))

	switch strings.ToLower(text) {
	case "", "null", "undefined":
		return ""
	}
	return text
}

// FormatResult conditions a provider response: trim, apply the
// terminology glossary, and strip one pair of wrapping quotes that
// models tend to add. An empty response yields the original text.
func FormatResult(original, translated string, glossary Glossary) string {
	if translated == "" {
		return original
	}
	translated = strings.TrimSpace(translated)
	translated = glossary.Apply(translated)

	if strings.HasPrefix(translated, `"`) && strings.HasSuffix(translated, `"`) && len(translated) >= 2 {
		translated = translated[1 : len(translated)-1]
	}
	if strings.HasPrefix(translated, "'") && strings.HasSuffix(translated, "'") && len(translated) >= 2 {
		translated = translated[1 : len(translated)-1]
	}
	return translated
}

// ---------------------------------------------------------------------------
// Terminology glossary
// ---------------------------------------------------------------------------

// Glossary maps English terms to their fixed Arabic renderings. Apply
// replaces whole-word, case-insensitive occurrences, so domain terms
// left untranslated by the model still come out consistent.
type Glossary map[string]string

// DefaultGlossary returns the built-in delivery-domain terminology.
func DefaultGlossary() Glossary {
	return Glossary{
		"order":      "طلب",
		"orders":     "طلبات",
		"delivery":   "توصيل",
		"driver":     "سائق",
		"customer":   "عميل",
		"restaurant": "مطعم",
		"cart":       "سلة",
		"checkout":   "الدفع",
		"invoice":    "فاتورة",
		"address":    "عنوان",
	}
}

// Apply substitutes every glossary term found in text.
func (g Glossary) Apply(text string) string {
	if text == "" || len(g) == 0 {
		return text
	}
	result := text
	for term, arabic := range g {
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
		result = pattern.ReplaceAllString(result, arabic)
	}
	return result
}

// Merge returns a copy of g overlaid with extra entries. Keys in extra
// win on conflict.
func (g Glossary) Merge(extra map[string]string) Glossary {
	merged := make(Glossary, len(g)+len(extra))
	for k, v := range g {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
