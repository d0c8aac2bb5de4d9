package validation

import (
	"fmt"
	"mime"
	"mime/multipart"
)

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedMimeTypes map[string]bool
	MaxSize          int64
}

// NewFileConstraints builds constraints from a MIME allow-list and size cap,
// as configured in the environment.
func NewFileConstraints(allowedTypes []string, maxSize int64) FileConstraints {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = true
	}
	return FileConstraints{
		AllowedMimeTypes: allowed,
		MaxSize:          maxSize,
	}
}

// ValidateFile checks an upload's declared Content-Type and size against the
// constraints. Type and size come from client metadata, matching the upload
// contract the dashboard expects; content sniffing via http.DetectContentType
// would be the hardening step if that contract ever tightens.
func ValidateFile(header *multipart.FileHeader, constraints FileConstraints) error {
	if header.Size > constraints.MaxSize {
		maxMB := constraints.MaxSize / (1 << 20)
		return fmt.Errorf("file too large: maximum size is %d MB", maxMB)
	}

	contentType := header.Header.Get("Content-Type")
	// Strip parameters like "; charset=..." before matching
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}

	if !constraints.AllowedMimeTypes[mediaType] {
		return fmt.Errorf("invalid file type: %s", mediaType)
	}

	return nil
}
