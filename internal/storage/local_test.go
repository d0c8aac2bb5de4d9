package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorageSaveAndDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}

	err = store.Save("photo.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), "photo.png"))
	if err != nil {
		t.Fatalf("saved file not readable: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("unexpected file contents: %q", data)
	}

	removed, err := store.Delete("photo.png")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !removed {
		t.Error("expected Delete to report removal")
	}

	if _, err := os.Stat(filepath.Join(store.Dir(), "photo.png")); !os.IsNotExist(err) {
		t.Error("file still present after delete")
	}
}

func TestLocalStorageDeleteAbsent(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}

	removed, err := store.Delete("missing.png")
	if err != nil {
		t.Fatalf("Delete of absent file errored: %v", err)
	}
	if removed {
		t.Error("expected Delete of absent file to report false")
	}
}

func TestLocalStorageSaveStripsPath(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}

	err = store.Save("../escape.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(store.Dir(), "escape.png")); err != nil {
		t.Errorf("expected file inside storage dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), "..", "escape.png")); !os.IsNotExist(err) {
		t.Error("file escaped the storage directory")
	}
}

func TestLocalStorageURL(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}

	if got := store.URL("photo.png"); got != "/uploads/photo.png" {
		t.Errorf("URL = %q, want /uploads/photo.png", got)
	}
}
