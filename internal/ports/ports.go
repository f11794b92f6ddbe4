package ports

import (
	"context"
	"io"

	"dossier/internal/domain"
)

// FileStore persists uploaded files and hands back opaque references.
type FileStore interface {
	Store(filename string, r io.Reader) (ref string, sha256Hash string, err error)
	Load(ref string) (io.ReadCloser, error)
	Delete(ref string) error
}

// TextExtractor converts a stored binary document into linearized text.
type TextExtractor interface {
	Extract(ctx context.Context, r io.Reader) (string, error)
}

// Scrutinizer runs the guardrailed AI evaluation over extracted text.
// Failures are folded into the result's error field, never returned as a
// Go error.
type Scrutinizer interface {
	Scrutinize(ctx context.Context, documentID, text string) *domain.ScrutinyResult
}
