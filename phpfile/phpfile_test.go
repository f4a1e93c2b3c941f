package phpfile

import (
	"testing"
)

func storeFixture() *File {
	return New(`'greeting' => 'hello world',
'farewell' => 'goodbye',
'count' => '42',
'welcome' => 'مرحبا بكم',`)
}

func TestUpdate(t *testing.T) {
	f := storeFixture()

	if !f.Update(0, "مرحبا بالعالم", TypeManual) {
		t.Fatal("Update(0) = false")
	}
	if f.Items[0].TranslatedValue != "مرحبا بالعالم" {
		t.Errorf("translated value = %q", f.Items[0].TranslatedValue)
	}
	if f.Items[0].TranslationType != TypeManual {
		t.Errorf("translation type = %q, want %q", f.Items[0].TranslationType, TypeManual)
	}
	if f.Items[0].OriginalValue != "hello world" {
		t.Error("original value must never mutate")
	}
	if !f.Modified() {
		t.Error("Modified() = false after update")
	}

	if f.Update(-1, "x", TypeManual) {
		t.Error("Update(-1) = true, want false")
	}
	if f.Update(len(f.Items), "x", TypeManual) {
		t.Error("Update(out of range) = true, want false")
	}
}

func TestItemIsTranslated_Derived(t *testing.T) {
	f := storeFixture()
	if f.Items[0].IsTranslated() {
		t.Error("fresh Latin item reports translated")
	}
	f.Update(0, "مرحبا", TypeAuto)
	if !f.Items[0].IsTranslated() {
		t.Error("Arabic value reports untranslated")
	}
	// Direct field write, no Update call: derived state must follow.
	f.Items[0].TranslatedValue = "back to english"
	if f.Items[0].IsTranslated() {
		t.Error("IsTranslated caches state instead of deriving it")
	}
}

func TestUntranslatedAndProgress(t *testing.T) {
	f := storeFixture()

	// 'hello world' and 'goodbye' need translation; '42' and the Arabic
	// value do not.
	if got := len(f.Untranslated()); got != 2 {
		t.Fatalf("untranslated = %d, want 2", got)
	}
	if got := f.Progress(); got != 0 {
		t.Errorf("progress = %d, want 0", got)
	}

	idx := f.UntranslatedIndexes()
	if len(idx) != 2 {
		t.Fatalf("untranslated indexes = %v", idx)
	}
	f.Update(idx[0], "مرحبا بالعالم", TypeAuto)

	if got := f.Progress(); got != 50 {
		t.Errorf("progress = %d, want 50", got)
	}
	f.Update(idx[1], "وداعا", TypeAuto)
	if got := f.Progress(); got != 100 {
		t.Errorf("progress = %d, want 100", got)
	}
}

func TestProgress_NothingNeedsTranslation(t *testing.T) {
	f := New("'count' => '42',")
	if got := f.Progress(); got != 100 {
		t.Errorf("progress = %d, want 100 for empty denominator", got)
	}
}

func TestStatistics(t *testing.T) {
	f := storeFixture()
	f.Update(0, "مرحبا بالعالم", TypeAuto)
	f.Update(1, "وداعا", TypeManual)

	s := f.Statistics()
	if s.TotalItems != 4 {
		t.Errorf("total = %d, want 4", s.TotalItems)
	}
	if s.NeedsTranslation != 2 {
		t.Errorf("needs translation = %d, want 2", s.NeedsTranslation)
	}
	if s.Translated != 2 || s.Remaining != 0 {
		t.Errorf("translated = %d remaining = %d", s.Translated, s.Remaining)
	}
	if s.AutoTranslated != 1 || s.ManualTranslated != 1 {
		t.Errorf("auto = %d manual = %d, want 1/1", s.AutoTranslated, s.ManualTranslated)
	}
	if s.ArabicOriginally != 1 {
		t.Errorf("arabic originally = %d, want 1", s.ArabicOriginally)
	}
	if s.ProgressPercent != 100 {
		t.Errorf("progress = %d, want 100", s.ProgressPercent)
	}
}

func TestDuplicates(t *testing.T) {
	f := New(`'save' => 'Save changes',
'store' => 'save CHANGES',
'other' => 'Different text',`)

	dups := f.Duplicates()
	if len(dups) != 1 {
		t.Fatalf("duplicates = %d, want 1", len(dups))
	}
	d := dups[0]
	if d.Text != "save changes" {
		t.Errorf("duplicate text = %q", d.Text)
	}
	if d.Lines != [2]int{1, 2} {
		t.Errorf("duplicate lines = %v, want [1 2]", d.Lines)
	}
	if d.Keys != [2]string{"save", "store"} {
		t.Errorf("duplicate keys = %v", d.Keys)
	}
}

func TestValidate_EmptyTranslation(t *testing.T) {
	f := New("'greeting' => 'hello world',")
	f.Update(0, "", TypeManual)

	issues := f.Validate()
	if len(issues) != 1 {
		t.Fatalf("issues = %+v, want exactly one", issues)
	}
	if issues[0].Kind != IssueEmptyTranslation || issues[0].Line != 1 {
		t.Errorf("issue = %+v", issues[0])
	}
}

func TestValidate_UnchangedTranslation(t *testing.T) {
	// A freshly extracted item that needs translation starts with the
	// translated value equal to the original — that is a finding.
	f := New("'greeting' => 'hello world',")
	issues := f.Validate()
	if len(issues) != 1 || issues[0].Kind != IssueUnchanged {
		t.Fatalf("issues = %+v, want one unchanged_translation", issues)
	}

	f.Update(0, "مرحبا بالعالم", TypeManual)
	if issues := f.Validate(); len(issues) != 0 {
		t.Errorf("issues after translation = %+v, want none", issues)
	}
}

func TestValidate_HTMLMismatch(t *testing.T) {
	f := New("'bold' => '<b>Hello</b> there',")
	f.Update(0, "مرحبا هناك", TypeManual)

	issues := f.Validate()
	if len(issues) != 1 {
		t.Fatalf("issues = %+v, want exactly one", issues)
	}
	if issues[0].Kind != IssueHTMLMismatch {
		t.Errorf("issue kind = %q, want %q", issues[0].Kind, IssueHTMLMismatch)
	}

	f.Update(0, "<b>مرحبا</b> هناك", TypeManual)
	if issues := f.Validate(); len(issues) != 0 {
		t.Errorf("issues with matching tags = %+v, want none", issues)
	}
}

func TestStatusItems(t *testing.T) {
	f := storeFixture()
	f.Update(0, "مرحبا بالعالم", TypeAuto)

	if got := len(f.StatusItems("all")); got != 4 {
		t.Errorf("all = %d, want 4", got)
	}
	translated := f.StatusItems("translated")
	if len(translated) != 1 || translated[0].Key != "greeting" {
		t.Errorf("translated = %+v", translated)
	}
}
