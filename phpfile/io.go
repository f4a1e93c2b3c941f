package phpfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding identifies the codec a file was decoded with. Files written
// back use the same codec so legacy Windows-1256 language files stay
// readable by the applications that consume them.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingUTF8BOM     Encoding = "utf-8-sig"
	EncodingWindows1256 Encoding = "windows-1256"
	EncodingLatin1      Encoding = "iso-8859-1"
	EncodingWindows1252 Encoding = "cp1252"
)

// encodingCandidates is the ordered decode candidate list. UTF-8 variants
// are tried first; the single-byte codecs follow for legacy files. The
// trailing candidates after ISO-8859-1 can never be reached (it accepts
// any byte sequence) but the full list is kept for the error message.
var encodingCandidates = []Encoding{
	EncodingUTF8,
	EncodingUTF8BOM,
	EncodingWindows1256,
	EncodingLatin1,
	EncodingWindows1252,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ---------------------------------------------------------------------------
// Load error taxonomy
// ---------------------------------------------------------------------------

// NotFoundError reports a missing source file.
type NotFoundError struct{ Path string }

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// FormatError reports a source file with the wrong extension.
type FormatError struct {
	Path string
	Ext  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: expected a .php file, got %q", e.Path, e.Ext)
}

// EncodingError reports a file none of the candidate codecs could decode.
type EncodingError struct {
	Path  string
	Tried []Encoding
}

func (e *EncodingError) Error() string {
	names := make([]string, len(e.Tried))
	for i, enc := range e.Tried {
		names[i] = string(enc)
	}
	return fmt.Sprintf("%s: cannot decode with any of: %s", e.Path, strings.Join(names, ", "))
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads and extracts a PHP language file. The file must exist, carry
// a .php extension and decode with one of the candidate encodings; each
// failure surfaces as its specific error type with no partial state.
func Load(path string) (*File, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if ext := filepath.Ext(path); !strings.EqualFold(ext, ".php") {
		return nil, &FormatError{Path: path, Ext: ext}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	content, enc, ok := decode(data)
	if !ok {
		return nil, &EncodingError{Path: path, Tried: encodingCandidates}
	}

	f := &File{
		Path:     path,
		Encoding: enc,
		Content:  content,
	}
	f.Items = extractAuto(content)
	return f, nil
}

// decode tries the candidate encodings in order and returns the decoded
// text and the codec that succeeded.
func decode(data []byte) (string, Encoding, bool) {
	if bytes.HasPrefix(data, utf8BOM) {
		rest := data[len(utf8BOM):]
		if utf8.Valid(rest) {
			return string(rest), EncodingUTF8BOM, true
		}
	}
	if utf8.Valid(data) {
		return string(data), EncodingUTF8, true
	}
	for _, enc := range []Encoding{EncodingWindows1256, EncodingLatin1, EncodingWindows1252} {
		if text, err := decodeCharmap(data, enc); err == nil {
			return text, enc, true
		}
	}
	return "", "", false
}

func codec(enc Encoding) *charmap.Charmap {
	switch enc {
	case EncodingWindows1256:
		return charmap.Windows1256
	case EncodingLatin1:
		return charmap.ISO8859_1
	case EncodingWindows1252:
		return charmap.Windows1252
	default:
		return nil
	}
}

func decodeCharmap(data []byte, enc Encoding) (string, error) {
	cm := codec(enc)
	if cm == nil {
		return "", fmt.Errorf("unknown encoding %q", enc)
	}
	out, err := cm.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// encode re-encodes text with the codec the file was loaded with.
func encode(text string, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingUTF8, "":
		return []byte(text), nil
	case EncodingUTF8BOM:
		return append(append([]byte{}, utf8BOM...), text...), nil
	default:
		cm := codec(enc)
		if cm == nil {
			return nil, fmt.Errorf("unknown encoding %q", enc)
		}
		out, err := cm.NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("encoding as %s: %w", enc, err)
		}
		return out, nil
	}
}

// ---------------------------------------------------------------------------
// Saving
// ---------------------------------------------------------------------------

// Save rebuilds the content with all applied translations and writes it
// out, re-encoded with the detected encoding. When outPath is empty the
// original path is used. With makeBackup set, a timestamped copy of the
// original file is written first; backup failure aborts nothing — the
// returned backup path is simply empty. Returns the written path.
func (f *File) Save(outPath string, makeBackup bool) (string, error) {
	if outPath == "" {
		outPath = f.Path
	}
	if outPath == "" {
		return "", fmt.Errorf("no output path for in-memory file")
	}

	if makeBackup && f.Path != "" {
		// Best effort: a missing backup must not block the save.
		_, _ = f.CreateBackup()
	}

	content := Rebuild(f.Content, f.Items)
	data, err := encode(content, f.Encoding)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", outPath, err)
	}

	f.modified = false
	return outPath, nil
}

// BackupPath derives the backup file name for path:
// {stem}_backup_{YYYYMMDD_HHMMSS}{suffix} in the same directory.
func BackupPath(path string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	stamp := time.Now().Format("20060102_150405")
	return filepath.Join(filepath.Dir(path), stem+"_backup_"+stamp+ext)
}

// CreateBackup copies the original file next to itself under the
// timestamped backup name and returns the backup path.
func (f *File) CreateBackup() (string, error) {
	if f.Path == "" {
		return "", fmt.Errorf("no source path to back up")
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", f.Path, err)
	}
	backup := BackupPath(f.Path)
	if err := os.WriteFile(backup, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", backup, err)
	}
	return backup, nil
}
