// Package settings provides unified storage for tarjim user settings:
// provider API keys, the default provider and model, the terminology
// glossary, and extraction tunables.
//
// All settings live in one YAML file in the XDG data directory:
//
//	$XDG_DATA_HOME/tarjim/config.yaml  (default: ~/.local/share/tarjim/)
//
// The same directory holds the translation cache and saved projects.
// Because the file contains API keys it is written with 0600
// permissions.
//
// Lookup order for API keys:
//  1. --api-key flag (highest priority)
//  2. TARJIM_OPENAI_API_KEY / TARJIM_GOOGLE_API_KEY environment variables
//  3. This settings file
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	dataDirName = "tarjim"
	fileName    = "config.yaml"
)

// ---------------------------------------------------------------------------
// Settings model
// ---------------------------------------------------------------------------

// Settings is the persisted user configuration.
type Settings struct {
	// Provider is the default translation provider (openai, google).
	Provider string `yaml:"provider"`
	// Model is the default model; empty uses the provider default.
	Model string `yaml:"model,omitempty"`
	// APIKeys maps provider ID to API key.
	APIKeys map[string]string `yaml:"api_keys,omitempty"`
	// Terminology extends the built-in glossary; keys are English
	// terms, values their fixed Arabic renderings.
	Terminology map[string]string `yaml:"terminology,omitempty"`
	// ChunkLines is the chunk size for large-file extraction; zero
	// uses the built-in default.
	ChunkLines int `yaml:"chunk_lines,omitempty"`
	// SimilarityThreshold for batch grouping; zero uses the default.
	SimilarityThreshold float64 `yaml:"similarity_threshold,omitempty"`
	// Backup controls whether saves write a timestamped backup first.
	Backup bool `yaml:"backup"`
}

// Default returns the settings used when no file exists yet.
func Default() *Settings {
	return &Settings{
		Provider: "openai",
		APIKeys:  map[string]string{},
		Backup:   true,
	}
}

// APIKey returns the key for provider, consulting the environment
// first. The flag-level override happens in the CLI layer.
func (s *Settings) APIKey(provider string) string {
	env := "TARJIM_" + strings.ToUpper(provider) + "_API_KEY"
	if key := os.Getenv(env); key != "" {
		return key
	}
	return s.APIKeys[provider]
}

// SetAPIKey stores a key for provider in memory; call Save to persist.
func (s *Settings) SetAPIKey(provider, key string) {
	if s.APIKeys == nil {
		s.APIKeys = map[string]string{}
	}
	s.APIKeys[provider] = key
}

// ---------------------------------------------------------------------------
// File paths
// ---------------------------------------------------------------------------

// dataDir returns the XDG data directory for tarjim.
// Respects $XDG_DATA_HOME, falling back to ~/.local/share.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

// DataDir returns the tarjim data directory path.
func DataDir() (string, error) {
	return dataDir()
}

// FilePath returns the config.yaml path for display purposes.
func FilePath() string {
	dir, err := dataDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, fileName)
}

// CachePath returns the translation cache file path.
func CachePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "translation_cache.json"), nil
}

// ProjectsDir returns the saved-projects directory path.
func ProjectsDir() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "projects"), nil
}

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

// Load reads the settings file. A missing or invalid file yields the
// defaults; Load never fails.
func Load() *Settings {
	path := FilePath()
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}

	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return Default()
	}
	if s.APIKeys == nil {
		s.APIKeys = map[string]string{}
	}
	return s
}

// Save writes the settings file with 0600 permissions, creating the
// data directory when needed.
func Save(s *Settings) error {
	path := FilePath()
	if path == "" {
		return fmt.Errorf("cannot determine settings path")
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Display helpers
// ---------------------------------------------------------------------------

// MaskKey returns a masked version of an API key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
