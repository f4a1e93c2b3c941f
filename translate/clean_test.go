package translate

import "testing"

func TestCleanForTranslation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello world", "hello world"},
		{`"quoted text"`, "quoted text"},
		{"'single quoted'", "single quoted"},
		{"user_name_field", "user name field"},
		{"first - second", "first second"},
		{"first-second", "first second"},
		{"Ex: sample text", "مثال: sample text"},
		{"ex sample", "مثال: sample"},
		{"  spaced   out  ", "spaced out"},
		{"", ""},
		{"   ", ""},
		{"null", ""},
		{"UNDEFINED", ""},
	}
	for _, tt := range tests {
		if got := CleanForTranslation(tt.in); got != tt.want {
			t.Errorf("CleanForTranslation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatResult(t *testing.T) {
	g := Glossary{}

	tests := []struct {
		name       string
		translated string
		want       string
	}{
		{"trims", "  مرحبا  ", "مرحبا"},
		{"strips double quotes", `"مرحبا"`, "مرحبا"},
		{"strips single quotes", "'مرحبا'", "مرحبا"},
		{"keeps inner quotes", `قال "مرحبا" لهم`, `قال "مرحبا" لهم`},
	}
	for _, tt := range tests {
		if got := FormatResult("original", tt.translated, g); got != tt.want {
			t.Errorf("%s: FormatResult = %q, want %q", tt.name, got, tt.want)
		}
	}

	if got := FormatResult("original", "", g); got != "original" {
		t.Errorf("empty response = %q, want original back", got)
	}
}

func TestGlossaryApply(t *testing.T) {
	g := Glossary{"order": "طلب", "driver": "سائق"}

	tests := []struct {
		in   string
		want string
	}{
		{"تتبع order الخاص بك", "تتبع طلب الخاص بك"},
		{"Order جديد", "طلب جديد"},
		{"reorder now", "reorder now"},
		{"اتصل بـ Driver", "اتصل بـ سائق"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := g.Apply(tt.in); got != tt.want {
			t.Errorf("Apply(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGlossaryMerge(t *testing.T) {
	base := Glossary{"order": "طلب"}
	merged := base.Merge(map[string]string{"order": "أمر", "cart": "سلة"})

	if merged["order"] != "أمر" || merged["cart"] != "سلة" {
		t.Errorf("merged = %v", merged)
	}
	if base["order"] != "طلب" {
		t.Error("Merge mutated the receiver")
	}
}
