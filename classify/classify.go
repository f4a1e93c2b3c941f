// Package classify decides whether extracted PHP string values need
// translation into Arabic, and whether a value already counts as translated.
//
// The classifier is a cascade of cheap, high-precision exclusion rules:
// programming tokens, URLs, numbers, markup-only strings and symbol-heavy
// noise are rejected before the final "contains Latin words" check. The
// rule order matters — the symbol-ratio check assumes the categorical
// exclusions already ran. The exact rule list is part of the contract;
// edge cases (short proper nouns, etc.) are accepted as-is.
package classify

import (
	"regexp"
	"strings"
	"unicode"
)

// ---------------------------------------------------------------------------
// Arabic script detection
// ---------------------------------------------------------------------------

// isArabicRune reports whether r belongs to the Arabic script blocks
// considered by the majority test: Arabic, Arabic Supplement and
// Arabic Extended-A.
func isArabicRune(r rune) bool {
	return (r >= 0x0600 && r <= 0x06FF) ||
		(r >= 0x0750 && r <= 0x077F) ||
		(r >= 0x08A0 && r <= 0x08FF)
}

// isLatinLetter reports whether r is an ASCII Latin letter.
func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// HasArabic reports whether text contains at least one Arabic letter.
func HasArabic(text string) bool {
	for _, r := range text {
		if isArabicRune(r) {
			return true
		}
	}
	return false
}

// IsArabicDominant implements the majority-script test: a string counts as
// translated when more than half of its alphabetic characters are Arabic.
// Symbols and digits are ignored; a string with no letters at all is not
// dominant.
func IsArabicDominant(text string) bool {
	arabic, total := 0, 0
	for _, r := range text {
		switch {
		case isArabicRune(r):
			arabic++
			total++
		case isLatinLetter(r):
			total++
		}
	}
	if total == 0 {
		return false
	}
	return float64(arabic)/float64(total) > 0.5
}

// ---------------------------------------------------------------------------
// Needs-translation cascade
// ---------------------------------------------------------------------------

// programmingPatterns match string values that are code artifacts rather
// than human-readable text. Tried in order; any match excludes the value.
var programmingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\$\w+$`),            // $variable
	regexp.MustCompile(`^\{\{.*\}\}$`),       // {{template}}
	regexp.MustCompile(`^\w+\(\)$`),          // function()
	regexp.MustCompile(`^[^\w\s]+$`),         // punctuation only
	regexp.MustCompile(`^\w+\.\w+$`),         // file.ext
	regexp.MustCompile(`^https?://`),         // URL
	regexp.MustCompile(`^mailto:`),           // email link
	regexp.MustCompile(`^\d+[.\-\s]*\d*$`),   // numbers with separators
	regexp.MustCompile(`^[A-Z_]+$`),          // CONSTANT_NAME
	regexp.MustCompile(`^\w+\[\d+\]$`),       // array[0]
}

var (
	htmlTagOnly = regexp.MustCompile(`^<[^>]+>$`)
	latinWord   = regexp.MustCompile(`\b[a-zA-Z]+\b`)
	anyLatin    = regexp.MustCompile(`[a-zA-Z]`)
)

// NeedsTranslation reports whether text should be sent for translation.
// Pure function of the input; no hidden state.
func NeedsTranslation(text string) bool {
	text = strings.TrimSpace(text)

	if len(text) < 2 {
		return false
	}
	if isAllDigits(text) {
		return false
	}
	for _, re := range programmingPatterns {
		if re.MatchString(text) {
			return false
		}
	}
	if htmlTagOnly.MatchString(text) {
		return false
	}
	if IsArabicDominant(text) {
		return false
	}

	// Symbol noise filter: more symbols than Latin words and fewer than
	// three words means the string is mostly markup or code fragments.
	words := len(latinWord.FindAllString(text, -1))
	symbols := countSymbols(text)
	if symbols > words && words < 3 {
		return false
	}

	return anyLatin.MatchString(text) && words > 0
}

// isAllDigits reports whether s is non-empty and consists of digits only.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// countSymbols counts characters that are neither word characters
// (letters, digits, underscore) nor whitespace.
func countSymbols(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsSpace(r) || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		n++
	}
	return n
}

// WordCount counts word tokens in text.
var wordToken = regexp.MustCompile(`\b\w+\b`)

func WordCount(text string) int {
	if text == "" {
		return 0
	}
	return len(wordToken.FindAllString(text, -1))
}

// ---------------------------------------------------------------------------
// Translation status
// ---------------------------------------------------------------------------

// Translation status values derived from original and translated content.
const (
	StatusTranslated   = "translated"
	StatusUntranslated = "untranslated"
	StatusNotNeeded    = "no translation needed"
)

// Status derives the display status of an entry from its original and
// translated values. Entries whose original is already Arabic-dominant and
// unchanged need no translation; otherwise an entry counts as translated
// only when the translated value is Arabic-dominant.
func Status(original, translated string) string {
	if strings.TrimSpace(translated) == "" {
		return StatusUntranslated
	}
	if strings.TrimSpace(original) == strings.TrimSpace(translated) {
		if IsArabicDominant(original) {
			return StatusNotNeeded
		}
		return StatusUntranslated
	}
	if IsArabicDominant(translated) {
		return StatusTranslated
	}
	return StatusUntranslated
}
