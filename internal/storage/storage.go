package storage

import (
	"fmt"
	"io"

	"github.com/tonythefreedom/noble-back/internal/config"
)

// Storage defines the interface for uploaded-file operations. Filenames are
// flat (no directories); generation of unique names is the caller's job.
type Storage interface {
	// Save stores a file under the given name
	Save(name string, file io.Reader) error

	// Delete removes a file by name. Returns false (not an error) when the
	// file did not exist.
	Delete(name string) (bool, error)

	// URL returns the public URL path for accessing the file
	URL(name string) string
}

// New creates the storage backend selected by STORAGE_DRIVER.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "local", "":
		return NewLocalStorage(cfg.UploadDir)
	case "s3":
		return NewS3Storage(S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
