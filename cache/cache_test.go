package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestSetGet(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "cache.json"), nil)

	c.Set("Hello World", "مرحبا بالعالم")
	got, ok := c.Get("Hello World")
	if !ok || got != "مرحبا بالعالم" {
		t.Errorf("Get = %q, %v", got, ok)
	}

	// Normalization: lookup is case-insensitive and trim-insensitive.
	if got, ok := c.Get("  hello world  "); !ok || got != "مرحبا بالعالم" {
		t.Errorf("normalized Get = %q, %v", got, ok)
	}
}

func TestGet_MissReturnsFalse(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "cache.json"), nil)
	if got, ok := c.Get("never stored"); ok || got != "" {
		t.Errorf("miss = %q, %v, want empty and false", got, ok)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "nope", "cache.json"), nil)
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	var warned bool
	c := Load(path, func(string, ...any) { warned = true })
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0 after corrupt load", c.Len())
	}
	if !warned {
		t.Error("corrupt cache did not warn")
	}
	// Still usable.
	c.Set("hello", "مرحبا")
	if _, ok := c.Get("hello"); !ok {
		t.Error("cache unusable after corrupt load")
	}
}

func TestFlushAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := Load(path, nil)
	c.Set("hello", "مرحبا")
	c.Set("goodbye", "وداعا")
	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}

	reloaded := Load(path, nil)
	if reloaded.Len() != 2 {
		t.Fatalf("reloaded Len = %d, want 2", reloaded.Len())
	}
	if got, ok := reloaded.Get("goodbye"); !ok || got != "وداعا" {
		t.Errorf("reloaded Get = %q, %v", got, ok)
	}
}

func TestSet_AutoFlushEveryTenth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := Load(path, nil)

	for i := 0; i < 9; i++ {
		c.Set(fmt.Sprintf("text %d", i), "ترجمة")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("cache flushed before the tenth insertion")
	}

	c.Set("text 9", "ترجمة")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("cache not flushed on the tenth insertion: %v", err)
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := Load(path, nil)
	c.Set("hello", "مرحبا")
	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after Clear", c.Len())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("cache file still exists after Clear")
	}
}
