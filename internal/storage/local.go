package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// LocalStorage stores uploads flat in a directory on the local filesystem
// and serves them under /uploads/.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	slog.Info("initialized local storage", "dir", dir)
	return &LocalStorage{dir: dir}, nil
}

// Dir returns the directory uploads are written to, for static file serving.
func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Save(name string, file io.Reader) error {
	// filepath.Base guards against path traversal in the stored name
	path := filepath.Join(s.dir, filepath.Base(name))

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = dst.Close() }()

	_, err = io.Copy(dst, file)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func (s *LocalStorage) Delete(name string) (bool, error) {
	path := filepath.Join(s.dir, filepath.Base(name))

	err := os.Remove(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete file: %w", err)
	}

	return true, nil
}

func (s *LocalStorage) URL(name string) string {
	return "/uploads/" + name
}
