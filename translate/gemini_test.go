package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiCall(t *testing.T) {
	var gotPath, gotKey string
	var gotReq map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"مرحبا بالعالم"}]}}]}`))
	}))
	defer srv.Close()

	b := NewGeminiBackend("test-key", "gemini-2.5-flash")
	b.BaseURL = srv.URL

	got, err := b.Call(context.Background(), "hello world")
	if err != nil {
		t.Fatal(err)
	}
	if got != "مرحبا بالعالم" {
		t.Errorf("Call = %q", got)
	}
	if gotPath != "/gemini-2.5-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("key = %q", gotKey)
	}

	cfg, _ := gotReq["generationConfig"].(map[string]any)
	if cfg["temperature"] != 0.3 || cfg["maxOutputTokens"] != float64(150) {
		t.Errorf("generationConfig = %v", cfg)
	}
	contents, _ := gotReq["contents"].([]any)
	if len(contents) != 1 {
		t.Fatalf("contents = %v", gotReq["contents"])
	}
	first, _ := contents[0].(map[string]any)
	parts, _ := first["parts"].([]any)
	part, _ := parts[0].(map[string]any)
	text, _ := part["text"].(string)
	if !strings.HasSuffix(text, "hello world") {
		t.Errorf("prompt text = %q", text)
	}
}

func TestGeminiCall_ErrorMessageExtracted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"API key expired"}}`))
	}))
	defer srv.Close()

	b := NewGeminiBackend("old-key", "gemini-2.5-flash")
	b.BaseURL = srv.URL

	_, err := b.Call(context.Background(), "hello")
	if err == nil {
		t.Fatal("error status did not error")
	}
	if !strings.Contains(err.Error(), "API key expired") {
		t.Errorf("error lacks server message: %v", err)
	}
	if retryable(err) {
		t.Errorf("expired-key error classified retryable: %v", err)
	}
}

func TestGeminiCall_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	b := NewGeminiBackend("test-key", "gemini-2.5-flash")
	b.BaseURL = srv.URL

	if _, err := b.Call(context.Background(), "hello"); err == nil {
		t.Error("empty candidates did not error")
	}
}
