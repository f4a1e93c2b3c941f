package translate

import (
	"context"
	"reflect"
	"testing"
)

func TestManagerRegistry(t *testing.T) {
	m := NewManager()
	m.Add("gpt-3.5-turbo", fastEngine(&fakeBackend{}, nil))
	m.Add("gemini-2.5-flash", fastEngine(&fakeBackend{}, nil))

	want := []string{"gemini-2.5-flash", "gpt-3.5-turbo"}
	if got := m.Available(); !reflect.DeepEqual(got, want) {
		t.Errorf("Available = %v, want %v", got, want)
	}

	if !m.SetCurrent("gemini-2.5-flash") {
		t.Error("SetCurrent(registered) = false")
	}
	if m.SetCurrent("gpt-5") {
		t.Error("SetCurrent(unregistered) = true")
	}
}

func TestManagerTranslate_NoEngine(t *testing.T) {
	m := NewManager()
	if _, err := m.Translate(context.Background(), "hello", ""); err == nil {
		t.Error("empty registry did not error")
	}
}

func TestManagerTranslate_FirstEngineBecomesCurrent(t *testing.T) {
	m := NewManager()
	m.Add("gpt-3.5-turbo", fastEngine(&fakeBackend{responses: []string{"مرحبا"}}, nil))

	got, err := m.Translate(context.Background(), "hello", "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "مرحبا" {
		t.Errorf("Translate = %q", got)
	}
}

func TestManagerEconomyEngine(t *testing.T) {
	m := NewManager()
	if got := m.EconomyEngine(); got != "" {
		t.Errorf("empty registry economy = %q", got)
	}

	m.Add("gpt-4o", fastEngine(&fakeBackend{}, nil))
	m.Add("gemini-2.5-flash", fastEngine(&fakeBackend{}, nil))
	// gpt-3.5-turbo is cheaper but not registered.
	if got := m.EconomyEngine(); got != "gemini-2.5-flash" {
		t.Errorf("economy engine = %q, want gemini-2.5-flash", got)
	}
}

func TestManagerTest(t *testing.T) {
	m := NewManager()
	m.Add("working", fastEngine(&fakeBackend{responses: []string{"مرحبا"}}, nil))

	ok, detail := m.Test(context.Background(), "working")
	if !ok || detail != "مرحبا" {
		t.Errorf("Test = %v, %q", ok, detail)
	}

	if ok, _ := m.Test(context.Background(), "missing"); ok {
		t.Error("Test(missing) = true")
	}
}

func TestTranslateBatch(t *testing.T) {
	texts := []string{
		"save the file now",
		"save the file now please",
		"unrelated phrase entirely",
	}
	b := &fakeBackend{responses: []string{
		"1. احفظ الملف الآن\n2. احفظ الملف الآن من فضلك",
		"عبارة غير مرتبطة",
	}}
	m := NewManager()
	m.Add("gpt-3.5-turbo", fastEngine(b, nil))

	var updates [][2]int
	got, err := m.TranslateBatch(context.Background(), texts, "", func(done, total int) {
		updates = append(updates, [2]int{done, total})
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"احفظ الملف الآن", "احفظ الملف الآن من فضلك", "عبارة غير مرتبطة"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TranslateBatch = %v, want %v", got, want)
	}
	// One grouped call plus one single call.
	if b.calls != 2 {
		t.Errorf("backend calls = %d, want 2", b.calls)
	}
	if len(updates) != 3 || updates[2] != [2]int{3, 3} {
		t.Errorf("progress updates = %v", updates)
	}
}

func TestTranslateBatch_MalformedGroupFallsBack(t *testing.T) {
	texts := []string{"save the file now", "save the file now please"}
	b := &fakeBackend{responses: []string{
		"ترجمة واحدة فقط", // one line for a two-text group
		"احفظ الملف الآن",
		"احفظ الملف الآن من فضلك",
	}}
	m := NewManager()
	m.Add("gpt-3.5-turbo", fastEngine(b, nil))

	got, err := m.TranslateBatch(context.Background(), texts, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"احفظ الملف الآن", "احفظ الملف الآن من فضلك"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TranslateBatch = %v, want %v", got, want)
	}
	if b.calls != 3 {
		t.Errorf("backend calls = %d, want grouped attempt + 2 singles", b.calls)
	}
}

func TestTranslateBatch_Empty(t *testing.T) {
	m := NewManager()
	m.Add("gpt-3.5-turbo", fastEngine(&fakeBackend{}, nil))
	got, err := m.TranslateBatch(context.Background(), nil, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("TranslateBatch(nil) = %v", got)
	}
}

func TestParseNumberedResponse(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"1. أول\n2. ثاني", []string{"أول", "ثاني"}},
		{"1) أول\n\n2) ثاني\n", []string{"أول", "ثاني"}},
		{"بدون ترقيم", []string{"بدون ترقيم"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := parseNumberedResponse(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseNumberedResponse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
