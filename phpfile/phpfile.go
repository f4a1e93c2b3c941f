// Package phpfile implements reading, editing and writing of PHP
// associative-array language files.
//
// Format: one 'key' => 'value' pair per line inside a PHP array literal.
// The file is never parsed as PHP — extraction and rewriting operate on
// line-oriented regex matches, which keeps the original formatting,
// comments and array nesting untouched.
//
// The File type keeps the original decoded content plus the extracted
// translation items. Items address their source line by number, so edits
// are applied as surgical in-line substitutions when the file is saved.
package phpfile

import (
	"regexp"
	"strings"

	"github.com/tarjimlab/tarjim/classify"
)

// Translation provenance tags. Display/statistics only — no behavioral
// effect beyond that.
const (
	TypeNone    = "none"
	TypeManual  = "manual"
	TypeAuto    = "auto"
	TypeSmart   = "smart"
	TypeEconomy = "economy"
)

// Item is one extracted key-value candidate.
type Item struct {
	// LineNumber is the 1-based source line, used as the addressing key
	// for rewriting. Assigned once at extraction time.
	LineNumber int `json:"line_number"`
	// Key is the cleaned array key text.
	Key string `json:"key"`
	// OriginalValue is the cleaned value as found in source. Never
	// mutated after extraction.
	OriginalValue string `json:"original_value"`
	// TranslatedValue starts equal to OriginalValue and is replaced by
	// manual edits or translation runs.
	TranslatedValue string `json:"translated_value"`
	// OriginalLine is the trimmed source line, kept for display.
	OriginalLine string `json:"original_line"`
	// NeedsTranslation is computed once at extraction time.
	NeedsTranslation bool `json:"needs_translation"`
	// PatternUsed is the index of the quote pattern that matched,
	// used to pick the rewrite regex.
	PatternUsed int `json:"pattern_used"`
	// TranslationType records how the current value was produced.
	TranslationType string `json:"translation_type"`
}

// IsTranslated reports whether the item's current value counts as
// translated. Always recomputed from TranslatedValue, never cached.
func (it *Item) IsTranslated() bool {
	return classify.IsArabicDominant(it.TranslatedValue)
}

// File is a loaded PHP language file with its extracted items.
type File struct {
	// Path is the source file path; empty for in-memory files.
	Path string
	// Encoding is the codec the file was decoded with; Save re-encodes
	// with the same codec.
	Encoding Encoding
	// Content is the decoded source text.
	Content string
	// Items holds the extracted translation candidates.
	Items []Item

	modified bool
}

// New builds an in-memory File from already-decoded content and runs
// extraction. Large content automatically uses chunked extraction.
func New(content string) *File {
	f := &File{Encoding: EncodingUTF8, Content: content}
	f.Items = extractAuto(content)
	return f
}

// Modified reports whether any item was updated since load or save.
func (f *File) Modified() bool { return f.modified }

// ---------------------------------------------------------------------------
// Item store
// ---------------------------------------------------------------------------

// Update replaces the translated value of the item at index and records
// its provenance. Returns false when index is out of range. Each update is
// an independent single-record replace; partial completion of a batch
// leaves all applied updates valid.
func (f *File) Update(index int, translated, translationType string) bool {
	if index < 0 || index >= len(f.Items) {
		return false
	}
	f.Items[index].TranslatedValue = translated
	f.Items[index].TranslationType = translationType
	f.modified = true
	return true
}

// Untranslated returns the items that need translation and whose current
// value is not yet Arabic-dominant.
func (f *File) Untranslated() []Item {
	var items []Item
	for i := range f.Items {
		it := &f.Items[i]
		if it.NeedsTranslation && !it.IsTranslated() {
			items = append(items, *it)
		}
	}
	return items
}

// UntranslatedIndexes returns the indexes of untranslated items, for
// callers that apply updates back through Update.
func (f *File) UntranslatedIndexes() []int {
	var idx []int
	for i := range f.Items {
		it := &f.Items[i]
		if it.NeedsTranslation && !it.IsTranslated() {
			idx = append(idx, i)
		}
	}
	return idx
}

// Progress returns the translation progress percentage over items that
// need translation. Defined as 100 when nothing needs translation.
func (f *File) Progress() int {
	total, translated := 0, 0
	for i := range f.Items {
		it := &f.Items[i]
		if !it.NeedsTranslation {
			continue
		}
		total++
		if it.IsTranslated() {
			translated++
		}
	}
	if total == 0 {
		return 100
	}
	return translated * 100 / total
}

// StatusItems returns items whose derived status matches filter.
// The filter "all" returns every item.
func (f *File) StatusItems(filter string) []Item {
	var items []Item
	for i := range f.Items {
		it := &f.Items[i]
		if filter == "all" || classify.Status(it.OriginalValue, it.TranslatedValue) == filter {
			items = append(items, *it)
		}
	}
	return items
}

// ---------------------------------------------------------------------------
// Statistics
// ---------------------------------------------------------------------------

// Stats summarizes translation state for display.
type Stats struct {
	TotalItems       int
	NeedsTranslation int
	Translated       int
	Remaining        int
	ProgressPercent  int
	AutoTranslated   int
	ManualTranslated int
	ArabicOriginally int
}

// Statistics derives counters from the current item list.
func (f *File) Statistics() Stats {
	var s Stats
	s.TotalItems = len(f.Items)
	for i := range f.Items {
		it := &f.Items[i]
		if it.NeedsTranslation {
			s.NeedsTranslation++
			if it.IsTranslated() {
				s.Translated++
			}
		}
		if it.IsTranslated() {
			switch it.TranslationType {
			case TypeAuto:
				s.AutoTranslated++
			case TypeManual:
				s.ManualTranslated++
			}
		}
		if classify.IsArabicDominant(it.OriginalValue) {
			s.ArabicOriginally++
		}
	}
	s.Remaining = s.NeedsTranslation - s.Translated
	s.ProgressPercent = f.Progress()
	return s
}

// ---------------------------------------------------------------------------
// Duplicates and validation
// ---------------------------------------------------------------------------

// Duplicate records two items sharing the same normalized original value.
// The first occurrence is the canonical one.
type Duplicate struct {
	Text  string
	Lines [2]int
	Keys  [2]string
}

// Duplicates finds items whose original value matches an earlier item
// case-insensitively.
func (f *File) Duplicates() []Duplicate {
	seen := make(map[string]*Item)
	var dups []Duplicate
	for i := range f.Items {
		it := &f.Items[i]
		norm := strings.ToLower(strings.TrimSpace(it.OriginalValue))
		if first, ok := seen[norm]; ok {
			dups = append(dups, Duplicate{
				Text:  norm,
				Lines: [2]int{first.LineNumber, it.LineNumber},
				Keys:  [2]string{first.Key, it.Key},
			})
			continue
		}
		seen[norm] = it
	}
	return dups
}

// Issue kinds produced by Validate.
const (
	IssueEmptyTranslation = "empty_translation"
	IssueUnchanged        = "unchanged_translation"
	IssueHTMLMismatch     = "html_mismatch"
)

// Issue is one validation finding.
type Issue struct {
	Kind    string
	Line    int
	Message string
}

var htmlTag = regexp.MustCompile(`<[^>]+>`)

// Validate checks every item for blank translations, translations left
// equal to the original without Arabic content, and HTML tag sets that
// differ between original and translated value.
func (f *File) Validate() []Issue {
	var issues []Issue
	for i := range f.Items {
		it := &f.Items[i]
		original, translated := it.OriginalValue, it.TranslatedValue

		if it.NeedsTranslation && strings.TrimSpace(translated) == "" {
			issues = append(issues, Issue{
				Kind:    IssueEmptyTranslation,
				Line:    it.LineNumber,
				Message: "translation is empty",
			})
		}

		if it.NeedsTranslation &&
			strings.EqualFold(strings.TrimSpace(original), strings.TrimSpace(translated)) &&
			!classify.IsArabicDominant(translated) {
			issues = append(issues, Issue{
				Kind:    IssueUnchanged,
				Line:    it.LineNumber,
				Message: "translation unchanged from original",
			})
		}

		if !equalTags(htmlTag.FindAllString(original, -1), htmlTag.FindAllString(translated, -1)) {
			issues = append(issues, Issue{
				Kind:    IssueHTMLMismatch,
				Line:    it.LineNumber,
				Message: "HTML tags differ between original and translation",
			})
		}
	}
	return issues
}

// equalTags compares two tag lists element-wise (order matters).
func equalTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
