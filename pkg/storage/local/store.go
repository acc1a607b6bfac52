// Package local persists uploaded payment proofs on the local filesystem.
package local

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/premiumretail/retailer-platform-backend/pkg/config"
	apperrors "github.com/premiumretail/retailer-platform-backend/pkg/errors"
)

var allowedExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// Store writes validated image uploads under a base directory and hands back
// relative paths suitable for persistence.
type Store struct {
	baseDir      string
	maxSizeBytes int64
}

func New(cfg config.UploadsConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("uploads dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads dir %q: %w", cfg.Dir, err)
	}
	return &Store{baseDir: cfg.Dir, maxSizeBytes: cfg.MaxSizeBytes}, nil
}

// Save validates size and content type by sniffing the bytes, then writes the
// file under <baseDir>/<subdir>/ with a random name. The declared filename is
// ignored; only the detected MIME type decides the extension.
func (s *Store) Save(subdir string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperrors.New(apperrors.CodeValidation, "uploaded file is empty")
	}
	if s.maxSizeBytes > 0 && int64(len(data)) > s.maxSizeBytes {
		return "", apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("uploaded file exceeds %d bytes", s.maxSizeBytes))
	}

	detected := mimetype.Detect(data)
	ext, ok := allowedExtensions[detected.String()]
	if !ok {
		return "", apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("unsupported file type %q, only JPEG and PNG are accepted", detected.String()))
	}

	dir := s.baseDir
	if subdir != "" {
		dir = filepath.Join(s.baseDir, subdir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", apperrors.Wrap(apperrors.CodeInternal, err, "creating upload subdirectory")
		}
	}

	name := uuid.NewString() + ext
	full := filepath.Join(dir, name)
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", apperrors.Wrap(apperrors.CodeInternal, err, "writing uploaded file")
	}

	rel := name
	if subdir != "" {
		rel = filepath.Join(subdir, name)
	}
	return rel, nil
}

// Open returns the absolute path for a previously saved relative path.
func (s *Store) Open(relPath string) (string, error) {
	full := filepath.Join(s.baseDir, filepath.Clean(relPath))
	if _, err := os.Stat(full); err != nil {
		return "", apperrors.Wrap(apperrors.CodeNotFound, err, "uploaded file not found")
	}
	return full, nil
}
