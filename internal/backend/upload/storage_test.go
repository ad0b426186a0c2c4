package upload

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"photo.png", "photo.png"},
		{"my holiday pic.jpg", "my_holiday_pic.jpg"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\boot.ini", "boot.ini"},
		{"dir/sub/image.jpeg", "image.jpeg"},
		{"..hidden", "hidden"},
		{"weird<>chars?.gif", "weird__chars_.gif"},
		{"", "upload"},
		{"...", "upload"},
		{"____", "upload"},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q; expected %q", tc.in, got, tc.want)
		}
	}
}

func TestStorage_SaveAndRead(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage error: %v", err)
	}

	content := []byte("fake image bytes")
	relativePath, err := storage.Save("my pic.png", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if relativePath != "my_pic.png" {
		t.Errorf("Save returned %q; expected sanitized relative path", relativePath)
	}
	if strings.ContainsAny(relativePath, `/\`) {
		t.Errorf("relative path %q contains a separator", relativePath)
	}

	stored, err := storage.Read(relativePath)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if !bytes.Equal(stored, content) {
		t.Errorf("Read returned %q; expected %q", stored, content)
	}
}

func TestStorage_SaveNeverEscapesDirectory(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorage(dir)
	if err != nil {
		t.Fatalf("NewStorage error: %v", err)
	}

	relativePath, err := storage.Save("../outside.txt", bytes.NewReader([]byte("x")))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, relativePath)); err != nil {
		t.Fatalf("expected file inside upload directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "outside.txt")); err == nil {
		t.Fatalf("file escaped the upload directory")
	}
}

func TestNewStorage_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	if _, err := NewStorage(dir); err != nil {
		t.Fatalf("NewStorage error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected upload directory to exist: %v", err)
	}
}

func TestNewStorage_EmptyDirectory(t *testing.T) {
	if _, err := NewStorage(""); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}
