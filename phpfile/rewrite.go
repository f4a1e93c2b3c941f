package phpfile

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tarjimlab/tarjim/classify"
)

// Rebuild regenerates the source text with all translated values
// substituted in place. Only items whose translated value differs from the
// original and passes the majority-script test are applied; everything
// else, including values no longer present on their recorded line, is left
// untouched. Deterministic and idempotent: with unchanged items the output
// is byte-identical to the input.
//
// Items are applied bottom-up (line number descending). Substitution-only
// edits never shift line numbers, so the order is defensive rather than
// required, but it is preserved for compatibility.
func Rebuild(content string, items []Item) string {
	lines := strings.Split(content, "\n")

	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LineNumber > sorted[j].LineNumber
	})

	for i := range sorted {
		it := &sorted[i]
		if it.TranslatedValue == it.OriginalValue || !classify.IsArabicDominant(it.TranslatedValue) {
			continue
		}
		idx := it.LineNumber - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		if updated := rewriteLine(lines[idx], it.OriginalValue, it.TranslatedValue); updated != lines[idx] {
			lines[idx] = updated
		}
	}
	return strings.Join(lines, "\n")
}

// escapeValue escapes embedded quotes so the new value can sit inside
// either quoting style.
func escapeValue(v string) string {
	v = strings.ReplaceAll(v, "'", `\'`)
	return strings.ReplaceAll(v, `"`, `\"`)
}

// rewriteLine substitutes newValue for original within one line. The four
// quote patterns are tried first, anchored on the escaped original value,
// then a bare word-boundary replacement, then a plain substring replace.
// A line not containing the value at all is returned unchanged — that is
// extraction/edit drift, not an error.
func rewriteLine(line, original, newValue string) string {
	esc := regexp.QuoteMeta(original)
	safe := escapeValue(newValue)

	subs := []struct {
		re    *regexp.Regexp
		quote string
	}{
		{regexp.MustCompile(`('` + esc + `'\s*=>\s*')[^']*'`), "'"},
		{regexp.MustCompile(`("` + esc + `"\s*=>\s*")[^"]*"`), `"`},
		{regexp.MustCompile(`('` + esc + `'\s*=>\s*")[^"]*"`), `"`},
		{regexp.MustCompile(`("` + esc + `"\s*=>\s*')[^']*'`), "'"},
	}

	for _, s := range subs {
		if !s.re.MatchString(line) {
			continue
		}
		// An anchored match is authoritative: if substitution changes
		// nothing the translation is already in place, and falling
		// through to the bare replacement would clobber the key.
		return s.re.ReplaceAllStringFunc(line, func(m string) string {
			prefix := s.re.FindStringSubmatch(m)[1]
			return prefix + safe + s.quote
		})
	}

	if wb, err := regexp.Compile(`\b` + esc + `\b`); err == nil && wb.MatchString(line) {
		updated := wb.ReplaceAllStringFunc(line, func(string) string { return safe })
		if updated != line {
			return updated
		}
	}

	if strings.Contains(line, original) {
		return strings.ReplaceAll(line, original, safe)
	}
	return line
}
