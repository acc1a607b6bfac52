package local

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/premiumretail/retailer-platform-backend/pkg/config"
	apperrors "github.com/premiumretail/retailer-platform-backend/pkg/errors"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}

func newTestStore(t *testing.T, maxSize int64) *Store {
	t.Helper()

	store, err := New(config.UploadsConfig{Dir: t.TempDir(), MaxSizeBytes: maxSize})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestSaveAcceptsPNG(t *testing.T) {
	store := newTestStore(t, 1024)

	rel, err := store.Save("payments", pngBytes)
	if err != nil {
		t.Fatalf("save png: %v", err)
	}
	if !strings.HasPrefix(rel, "payments"+string(os.PathSeparator)) {
		t.Fatalf("expected path under payments/, got %q", rel)
	}
	if filepath.Ext(rel) != ".png" {
		t.Fatalf("expected .png extension, got %q", rel)
	}

	full, err := store.Open(rel)
	if err != nil {
		t.Fatalf("open saved file: %v", err)
	}
	if _, err := os.Stat(full); err != nil {
		t.Fatalf("stat saved file: %v", err)
	}
}

func TestSaveRejectsNonImage(t *testing.T) {
	store := newTestStore(t, 1024)

	_, err := store.Save("payments", []byte("plain text, definitely not an image"))
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	store := newTestStore(t, 4)

	_, err := store.Save("payments", pngBytes)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOpenUnknownPath(t *testing.T) {
	store := newTestStore(t, 1024)

	_, err := store.Open("payments/missing.png")
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}
