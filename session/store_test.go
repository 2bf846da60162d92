package session

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	s := Open(path, zap.NewNop())
	if _, ok := s.Get(KeyTheme); ok {
		t.Error("Get() on fresh store reported a value")
	}

	s.Set(KeyTheme, "grape")
	s.Set(KeyView, "edit")
	s.Set(KeyTheme, "royal") // overwrite

	if got, ok := s.Get(KeyTheme); !ok || got != "royal" {
		t.Errorf("Get(%q) = %q, %v, want royal, true", KeyTheme, got, ok)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Values survive reopening.
	s = Open(path, zap.NewNop())
	defer s.Close()
	if got, ok := s.Get(KeyView); !ok || got != "edit" {
		t.Errorf("Get(%q) after reopen = %q, %v, want edit, true", KeyView, got, ok)
	}

	s.Delete(KeyView)
	if _, ok := s.Get(KeyView); ok {
		t.Error("Get() after Delete() reported a value")
	}

	s.Set(KeyHTML, "<p>x</p>")
	s.Clear()
	if _, ok := s.Get(KeyHTML); ok {
		t.Error("Get() after Clear() reported a value")
	}
}

func TestStoreDegradesToMemory(t *testing.T) {
	// A directory is not an openable database file.
	dir := t.TempDir()

	s := Open(dir, zap.NewNop())
	defer s.Close()

	s.Set(KeyTheme, "mint")
	if got, ok := s.Get(KeyTheme); !ok || got != "mint" {
		t.Errorf("Get(%q) = %q, %v, want in-memory fallback to work", KeyTheme, got, ok)
	}
}

func TestStoreEmptyPath(t *testing.T) {
	s := Open("", zap.NewNop())
	defer s.Close()

	s.Set(KeyView, "preview")
	if got, ok := s.Get(KeyView); !ok || got != "preview" {
		t.Errorf("Get(%q) = %q, %v, want preview, true", KeyView, got, ok)
	}
}

func TestStoreCorruptDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.db")
	if err := os.WriteFile(path, []byte("this is not a database"), 0644); err != nil {
		t.Fatal(err)
	}

	s := Open(path, zap.NewNop())
	defer s.Close()

	// Corruption must not break the program; reads simply miss.
	s.Set(KeyTheme, "warm")
	if got, ok := s.Get(KeyTheme); !ok || got != "warm" {
		t.Errorf("Get(%q) = %q, %v, want fallback store to work", KeyTheme, got, ok)
	}
}
