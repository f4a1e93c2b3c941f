// Package grouping clusters near-duplicate source strings so a batch
// translation run can resolve a whole group with one external call.
//
// Similarity is Jaccard over lowercase whitespace-tokenized word sets.
// Clustering is greedy and single-pass: the first unclaimed text seeds a
// group and claims every later unclaimed text above the threshold, up to
// a fixed group size. O(n²) by design — grouping only ever runs on the
// untranslated subset, and optimal clustering is not a goal.
package grouping

import "strings"

// MaxGroupSize caps how many texts one group may claim.
const MaxGroupSize = 10

// DefaultThreshold is the similarity bound used when callers have no
// reason to pick their own.
const DefaultThreshold = 0.7

// Similarity computes the Jaccard similarity of two texts' word sets:
// |A∩B| / |A∪B|. Case-insensitive; returns 0 when either set is empty.
func Similarity(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for w := range wordsA {
		if wordsB[w] {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = true
	}
	return set
}

// Group clusters texts by similarity. Input order is preserved: each
// group is seeded by the earliest unclaimed text and lists members in
// input order. A group stops scanning once it reaches MaxGroupSize.
func Group(texts []string, threshold float64) [][]string {
	var groups [][]string
	claimed := make([]bool, len(texts))

	for i, text := range texts {
		if claimed[i] {
			continue
		}
		group := []string{text}
		claimed[i] = true

		for j := i + 1; j < len(texts); j++ {
			if claimed[j] {
				continue
			}
			if Similarity(text, texts[j]) >= threshold {
				group = append(group, texts[j])
				claimed[j] = true
				if len(group) >= MaxGroupSize {
					break
				}
			}
		}
		groups = append(groups, group)
	}
	return groups
}
