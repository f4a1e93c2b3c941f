// Package project persists translation sessions as one JSON file per
// project inside a projects directory. A snapshot records the source
// file path and the full item list so a session can be resumed later
// without re-translating.
//
// Loading is a plain deserialization: any snapshot version is accepted
// as-is, there is no migration logic.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/tarjimlab/tarjim/phpfile"
)

// SnapshotVersion is written into every new snapshot.
const SnapshotVersion = "1.0"

// Snapshot is a saved translation session.
type Snapshot struct {
	Name             string         `json:"name"`
	CreatedAt        int64          `json:"created_at"`
	OriginalFilePath string         `json:"original_file_path"`
	Translations     []phpfile.Item `json:"translations"`
	Version          string         `json:"version"`
}

// Info summarizes a stored snapshot for listings.
type Info struct {
	Name      string
	Path      string
	CreatedAt int64
}

// Store manages the projects directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on
// first save, not here.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the projects directory.
func (s *Store) Dir() string { return s.dir }

var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeName makes a project name safe to use as a file name.
func SanitizeName(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// Save writes a snapshot of f under name and returns the snapshot path.
// An empty name gets a timestamp-derived one.
func (s *Store) Save(name string, f *phpfile.File) (string, error) {
	now := time.Now().Unix()
	if name == "" {
		name = fmt.Sprintf("project_%d", now)
	}

	snap := Snapshot{
		Name:             name,
		CreatedAt:        now,
		OriginalFilePath: f.Path,
		Translations:     f.Items,
		Version:          SnapshotVersion,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling project %q: %w", name, err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("creating projects directory: %w", err)
	}
	path := filepath.Join(s.dir, SanitizeName(name)+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing project %q: %w", name, err)
	}
	return path, nil
}

// Load reads the snapshot stored under name. The argument may also be a
// direct path to a snapshot file.
func (s *Store) Load(name string) (*Snapshot, error) {
	path := name
	if filepath.Ext(path) != ".json" {
		path = filepath.Join(s.dir, SanitizeName(name)+".json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project %q: %w", name, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing project %q: %w", name, err)
	}
	if snap.Name == "" {
		snap.Name = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	return &snap, nil
}

// List returns stored snapshots, newest first. Unreadable files are
// skipped.
func (s *Store) List() []Info {
	var projects []Info
	matches, _ := filepath.Glob(filepath.Join(s.dir, "*.json"))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			continue
		}
		name := snap.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), ".json")
		}
		projects = append(projects, Info{
			Name:      name,
			Path:      path,
			CreatedAt: snap.CreatedAt,
		})
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].CreatedAt > projects[j].CreatedAt
	})
	return projects
}

// Apply copies the snapshot's items onto f, keeping f's own content and
// line layout authoritative. Items are matched by key and original
// value; snapshot items with no match are dropped.
func (snap *Snapshot) Apply(f *phpfile.File) int {
	byKey := make(map[string]int, len(f.Items))
	for i, it := range f.Items {
		byKey[strings.ToLower(it.Key)+"\x00"+strings.ToLower(it.OriginalValue)] = i
	}

	applied := 0
	for _, saved := range snap.Translations {
		if saved.TranslatedValue == saved.OriginalValue {
			continue
		}
		k := strings.ToLower(saved.Key) + "\x00" + strings.ToLower(saved.OriginalValue)
		if i, ok := byKey[k]; ok {
			if f.Update(i, saved.TranslatedValue, saved.TranslationType) {
				applied++
			}
		}
	}
	return applied
}
