package grouping

import (
	"fmt"
	"reflect"
	"testing"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"hello world", "hello world", 1.0},
		{"hello world", "world hello", 1.0},
		{"Hello World", "hello world", 1.0},
		{"hello world", "hello world test", 2.0 / 3.0},
		{"hello world", "totally unrelated phrase", 0},
		{"", "hello", 0},
		{"hello", "", 0},
		{"   ", "hello", 0},
	}
	for _, tt := range tests {
		if got := Similarity(tt.a, tt.b); got != tt.want {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSimilarity_DuplicateWordsCollapse(t *testing.T) {
	// Word sets, not bags: repeated words count once.
	if got := Similarity("go go go", "go"); got != 1.0 {
		t.Errorf("Similarity = %v, want 1.0", got)
	}
}

func TestGroup(t *testing.T) {
	texts := []string{
		"hello world",
		"hello world test",
		"totally unrelated phrase",
	}
	got := Group(texts, 0.5)
	want := [][]string{
		{"hello world", "hello world test"},
		{"totally unrelated phrase"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Group = %v, want %v", got, want)
	}
}

func TestGroup_ThresholdExcludes(t *testing.T) {
	// 2/3 similarity falls below a 0.7 threshold, so nothing groups.
	got := Group([]string{"hello world", "hello world test"}, DefaultThreshold)
	if len(got) != 2 {
		t.Errorf("Group = %v, want two singleton groups", got)
	}
}

func TestGroup_CapAtMaxGroupSize(t *testing.T) {
	texts := make([]string, MaxGroupSize+3)
	for i := range texts {
		texts[i] = "identical text"
	}
	got := Group(texts, 0.9)
	if len(got) != 2 {
		t.Fatalf("groups = %d, want 2", len(got))
	}
	if len(got[0]) != MaxGroupSize {
		t.Errorf("first group size = %d, want %d", len(got[0]), MaxGroupSize)
	}
	if len(got[1]) != 3 {
		t.Errorf("second group size = %d, want 3", len(got[1]))
	}
}

func TestGroup_Empty(t *testing.T) {
	if got := Group(nil, 0.7); got != nil {
		t.Errorf("Group(nil) = %v, want nil", got)
	}
}

func TestGroup_EveryTextAppearsOnce(t *testing.T) {
	texts := []string{
		"save the file",
		"save the document",
		"delete the file",
		"open settings",
	}
	groups := Group(texts, 0.5)

	seen := make(map[string]int)
	for _, g := range groups {
		for _, text := range g {
			seen[text]++
		}
	}
	for _, text := range texts {
		if seen[text] != 1 {
			t.Errorf("%q appears %d times across groups", text, seen[text])
		}
	}
	if fmt.Sprint(groups[0][0]) != texts[0] {
		t.Errorf("first group not seeded by first text: %v", groups)
	}
}
