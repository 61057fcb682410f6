package repository

import (
	"context"
	"errors"

	"github.com/gogotex/gogotex/backend/go-editor/internal/document"
)

var (
	ErrNotFound = errors.New("document not found")
)

// Repository persists documents. Implementations return copies so callers can
// never mutate stored state in place. Timestamps and IDs are set by the caller.
type Repository interface {
	Create(ctx context.Context, doc *document.Document) (string, error)
	Get(ctx context.Context, id string) (*document.Document, error)
	// FindDraftByOwner returns the most recently updated draft of the owner,
	// or ErrNotFound when the owner has none.
	FindDraftByOwner(ctx context.Context, ownerID string) (*document.Document, error)
	List(ctx context.Context) ([]*document.Document, error)
	// Update replaces the stored document with the same ID.
	Update(ctx context.Context, doc *document.Document) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
