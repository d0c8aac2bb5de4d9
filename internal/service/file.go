package service

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/tonythefreedom/noble-back/internal/storage"
	"github.com/tonythefreedom/noble-back/internal/validation"
)

var (
	ErrInvalidFile = errors.New("invalid file type or size")
)

// FileService validates uploads and writes them to the configured storage
// backend under collision-resistant names.
type FileService struct {
	storage     storage.Storage
	constraints validation.FileConstraints
}

func NewFileService(storage storage.Storage, constraints validation.FileConstraints) *FileService {
	return &FileService{
		storage:     storage,
		constraints: constraints,
	}
}

// Save validates and stores one upload, returning the generated filename.
func (s *FileService) Save(header *multipart.FileHeader) (string, error) {
	err := validation.ValidateFile(header, s.constraints)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidFile, err)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Unique name, original extension preserved
	ext := filepath.Ext(header.Filename)
	name := uuid.New().String() + ext

	err = s.storage.Save(name, file)
	if err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return name, nil
}

// SaveAll stores every upload that passes validation and skips the rest,
// mirroring the dashboard contract where a bad file in a batch is dropped
// rather than failing the whole request.
func (s *FileService) SaveAll(headers []*multipart.FileHeader) []string {
	saved := make([]string, 0, len(headers))
	for _, header := range headers {
		name, err := s.Save(header)
		if err != nil {
			slog.Warn("skipping invalid upload", "filename", header.Filename, "error", err)
			continue
		}
		saved = append(saved, name)
	}
	return saved
}

// Delete removes a stored file by name. Returns false when it was absent.
func (s *FileService) Delete(name string) bool {
	ok, err := s.storage.Delete(name)
	if err != nil {
		slog.Error("failed to delete file from storage", "filename", name, "error", err)
		return false
	}
	return ok
}

// URL returns the public URL path for a stored filename.
func (s *FileService) URL(name string) string {
	return s.storage.URL(name)
}
