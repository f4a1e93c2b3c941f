package phpfile

import (
	"regexp"
	"strings"

	"github.com/tarjimlab/tarjim/classify"
)

// Extraction limits. Chunked mode applies tighter value bounds than
// standard mode (key 2-100, value 0-200 versus 100/500), trading recall
// for throughput on large files. The mismatch is inherited behavior and
// kept intentionally.
const (
	// LargeFileThreshold is the content size in characters above which
	// chunked extraction is used.
	LargeFileThreshold = 100000
	// DefaultChunkLines is the number of lines processed per chunk.
	DefaultChunkLines = 10000

	maxKeyLen       = 100
	maxValueLen     = 500
	maxChunkLineLen = 1000
	maxStoredLine   = 500
)

// pairPatterns are the four quoting patterns, tried in fixed order.
// The pattern index is recorded on the item for rewriting.
var pairPatterns = [4]*regexp.Regexp{
	regexp.MustCompile(`'([^']+)'\s*=>\s*'([^']*)'`),
	regexp.MustCompile(`"([^"]+)"\s*=>\s*"([^"]*)"`),
	regexp.MustCompile(`'([^']+)'\s*=>\s*"([^"]*)"`),
	regexp.MustCompile(`"([^"]+)"\s*=>\s*'([^']*)'`),
}

// chunkPairPatterns bound the key and value lengths directly in the
// pattern so pathological lines are cheap to reject.
var chunkPairPatterns = [4]*regexp.Regexp{
	regexp.MustCompile(`'([^']{2,100})'\s*=>\s*'([^']{0,200})'`),
	regexp.MustCompile(`"([^"]{2,100})"\s*=>\s*"([^"]{0,200})"`),
	regexp.MustCompile(`'([^']{2,100})'\s*=>\s*"([^"]{0,200})"`),
	regexp.MustCompile(`"([^"]{2,100})"\s*=>\s*'([^']{0,200})'`),
}

// symbolOnlyKey rejects keys composed solely of programming symbols.
var symbolOnlyKey = regexp.MustCompile("^[{}\\[\\]<>/\\\\$#@%^&*()+=|~`]+$")

// unescaper normalizes the explicit escape sequences found in PHP string
// literals; remaining backslash-letter escapes are dropped afterwards.
var (
	unescaper      = strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\"`, `"`, `\'`, "'")
	residualEscape = regexp.MustCompile(`\\[a-zA-Z]`)
)

// extractAuto dispatches between standard and chunked extraction based on
// content size.
func extractAuto(content string) []Item {
	if len(content) > LargeFileThreshold {
		return ExtractChunked(content, DefaultChunkLines, nil)
	}
	return Extract(content)
}

// Extract scans source text line by line and returns the translation
// candidates. Comment lines (//, /*, *, #) and blank lines are skipped.
// Line numbers are 1-based and refer to the original text.
func Extract(source string) []Item {
	var items []Item
	lines := strings.Split(source, "\n")

	for i, line := range lines {
		lineNumber := i + 1
		trimmed := strings.TrimSpace(line)
		if skipLine(trimmed) {
			continue
		}
		items = append(items, extractLine(line, trimmed, lineNumber, pairPatterns[:], 0)...)
	}
	return items
}

// ExtractChunked processes source in fixed-size line chunks to bound peak
// memory on large files. Single lines longer than maxChunkLineLen are
// skipped, stored raw-line context is capped, and the final item set is
// deduplicated by lowercased (key, value), first occurrence kept.
// If progress is non-nil it is called after each chunk with the number of
// lines processed so far and the total.
func ExtractChunked(source string, chunkLines int, progress func(done, total int)) []Item {
	if chunkLines <= 0 {
		chunkLines = DefaultChunkLines
	}

	var items []Item
	lines := strings.Split(source, "\n")
	total := len(lines)

	for start := 0; start < total; start += chunkLines {
		end := start + chunkLines
		if end > total {
			end = total
		}
		for i, line := range lines[start:end] {
			lineNumber := start + i + 1
			trimmed := strings.TrimSpace(line)
			if skipLine(trimmed) {
				continue
			}
			if len(line) > maxChunkLineLen {
				continue
			}
			items = append(items, extractLine(line, trimmed, lineNumber, chunkPairPatterns[:], maxStoredLine)...)
		}
		if progress != nil {
			progress(end, total)
		}
	}
	return deduplicate(items)
}

// skipLine reports whether a trimmed line is blank or a comment.
func skipLine(trimmed string) bool {
	if trimmed == "" {
		return true
	}
	for _, prefix := range []string{"//", "/*", "*", "#"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// extractLine applies the pattern cascade to one line. maxLine > 0 caps
// the stored raw-line context.
func extractLine(line, trimmed string, lineNumber int, patterns []*regexp.Regexp, maxLine int) []Item {
	var items []Item
	stored := trimmed
	if maxLine > 0 && len(stored) > maxLine {
		stored = stored[:maxLine]
	}

	for patternIndex, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(line, -1) {
			key := cleanExtracted(m[1])
			value := cleanExtracted(m[2])
			if !validPair(key, value) {
				continue
			}
			items = append(items, Item{
				LineNumber:       lineNumber,
				Key:              key,
				OriginalValue:    value,
				TranslatedValue:  value,
				OriginalLine:     stored,
				NeedsTranslation: classify.NeedsTranslation(value),
				PatternUsed:      patternIndex,
				TranslationType:  TypeNone,
			})
		}
	}
	return items
}

// cleanExtracted trims the matched text and normalizes escape sequences.
func cleanExtracted(text string) string {
	text = strings.TrimSpace(text)
	text = unescaper.Replace(text)
	return residualEscape.ReplaceAllString(text, "")
}

// validPair rejects empty pairs, oversized keys or values (usually a
// parse artifact), and symbol-only keys.
func validPair(key, value string) bool {
	if key == "" || value == "" {
		return false
	}
	if len(key) > maxKeyLen || len(value) > maxValueLen {
		return false
	}
	if symbolOnlyKey.MatchString(key) {
		return false
	}
	return true
}

// deduplicate drops items whose lowercased (key, value) pair was already
// seen, keeping the first occurrence.
func deduplicate(items []Item) []Item {
	type pairKey struct{ key, value string }
	seen := make(map[pairKey]bool, len(items))
	unique := items[:0:0]

	for _, it := range items {
		k := pairKey{strings.ToLower(it.Key), strings.ToLower(it.OriginalValue)}
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, it)
	}
	return unique
}
