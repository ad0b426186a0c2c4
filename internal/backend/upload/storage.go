// Package upload persists admin-submitted files under a configured directory.
// Stored paths are relative to that directory so the database stays portable.
package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Storage struct {
	directory string
}

func NewStorage(directory string) (*Storage, error) {
	if directory == "" {
		return nil, fmt.Errorf("upload directory must not be empty")
	}
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", directory, err)
	}
	return &Storage{directory: directory}, nil
}

// Directory returns the root the relative paths are resolved against.
func (s *Storage) Directory() string {
	return s.directory
}

// Save writes the reader's content under a sanitized version of filename and
// returns the path relative to the upload directory. An existing file with the
// same sanitized name is overwritten.
func (s *Storage) Save(filename string, reader io.Reader) (string, error) {
	name := SanitizeFilename(filename)
	target := filepath.Join(s.directory, name)

	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file %s: %w", target, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if _, err := io.Copy(file, reader); err != nil {
		return "", fmt.Errorf("failed to write upload file %s: %w", target, err)
	}
	return name, nil
}

// Read returns the content of a previously stored relative path.
func (s *Storage) Read(relativePath string) ([]byte, error) {
	name := SanitizeFilename(relativePath)
	return os.ReadFile(filepath.Join(s.directory, name))
}

// SanitizeFilename reduces an arbitrary client-supplied filename to a
// filesystem-safe base name. Path separators and traversal sequences are
// stripped, every character outside [a-zA-Z0-9._-] becomes an underscore, and
// an empty result falls back to "upload".
func SanitizeFilename(filename string) string {
	name := filepath.Base(filepath.ToSlash(filename))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	sanitized := strings.Trim(b.String(), "._")
	if sanitized == "" {
		return "upload"
	}
	return sanitized
}
