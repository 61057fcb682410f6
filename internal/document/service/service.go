package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogotex/gogotex/backend/go-editor/internal/document"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document/repository"
	"github.com/gogotex/gogotex/backend/go-editor/pkg/logger"
	"github.com/gogotex/gogotex/backend/go-editor/pkg/metrics"
	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidStatus = errors.New("invalid status")
	ErrNoArchive     = errors.New("archive not configured")
)

// Service defines the document operations used by the handler layer and by
// in-process clients.
type Service interface {
	// FetchDraft returns the owner's current draft, or nil when the owner has none.
	FetchDraft(ctx context.Context, ownerID string) (*document.Document, error)
	// Save creates a document when in.ID is empty and replaces title, body and
	// status of the existing document otherwise.
	Save(ctx context.Context, in document.SaveInput) (*document.Document, error)
	Publish(ctx context.Context, id string) (*document.Document, error)
	Approve(ctx context.Context, id string) (*document.Document, error)
	Reject(ctx context.Context, id string) (*document.Document, error)
	Get(ctx context.Context, id string) (*document.Document, error)
	List(ctx context.Context) ([]*document.Document, error)
	Delete(ctx context.Context, id string) error
	// ArchiveURL returns a link to the published snapshot of a document.
	ArchiveURL(ctx context.Context, id string) (string, error)
	Ping(ctx context.Context) error
}

// Archiver stores snapshots of published documents.
type Archiver interface {
	Archive(ctx context.Context, key string, body []byte, contentType string) error
	URL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Option configures the service.
type Option func(*documentService)

// WithClock overrides the clock used for timestamps (primarily for testing).
func WithClock(clock func() time.Time) Option {
	return func(s *documentService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithArchive uploads a snapshot of every document on publish.
func WithArchive(a Archiver) Option {
	return func(s *documentService) { s.archive = a }
}

// WithIDGenerator overrides document id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *documentService) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New returns a Service backed by the given repository.
func New(repo repository.Repository, opts ...Option) Service {
	s := &documentService{
		repo:  repo,
		now:   time.Now,
		newID: func() string { return "doc_" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService(opts ...Option) Service {
	return New(repository.NewMemoryRepo(), opts...)
}

type documentService struct {
	repo    repository.Repository
	archive Archiver
	now     func() time.Time
	newID   func() string
}

// timestamp returns the current time at the precision every repository can round-trip.
func (s *documentService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// touch sets UpdatedAt, never letting it fall behind CreatedAt.
func (s *documentService) touch(d *document.Document) {
	d.UpdatedAt = s.timestamp()
	if d.UpdatedAt.Before(d.CreatedAt) {
		d.UpdatedAt = d.CreatedAt
	}
}

func (s *documentService) FetchDraft(ctx context.Context, ownerID string) (doc *document.Document, err error) {
	defer observe("fetch_draft", &err)
	doc, err = s.repo.FindDraftByOwner(ctx, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		logger.Debugf("no draft for owner %q", ownerID)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find draft for %s: %w", ownerID, err)
	}
	return doc, nil
}

func (s *documentService) Save(ctx context.Context, in document.SaveInput) (doc *document.Document, err error) {
	defer observe("save", &err)
	status := in.Status
	if status == "" {
		status = document.StatusDraft
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, in.Status)
	}

	if in.ID == "" {
		now := s.timestamp()
		doc = &document.Document{
			ID:        s.newID(),
			OwnerID:   in.OwnerID,
			Title:     in.Title,
			Body:      in.Body,
			Status:    status,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := s.repo.Create(ctx, doc); err != nil {
			return nil, fmt.Errorf("create document: %w", err)
		}
		logger.Infof("created document %s for owner %q", doc.ID, doc.OwnerID)
		return doc.Clone(), nil
	}

	doc, err = s.load(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	doc.Title = in.Title
	doc.Body = in.Body
	doc.Status = status
	s.touch(doc)
	if err := s.store(ctx, doc); err != nil {
		return nil, err
	}
	logger.Debugf("saved document %s (status %s)", doc.ID, doc.Status)
	return doc.Clone(), nil
}

func (s *documentService) Publish(ctx context.Context, id string) (*document.Document, error) {
	return s.transition(ctx, id, document.TransitionPublish)
}

func (s *documentService) Approve(ctx context.Context, id string) (*document.Document, error) {
	return s.transition(ctx, id, document.TransitionApprove)
}

func (s *documentService) Reject(ctx context.Context, id string) (*document.Document, error) {
	return s.transition(ctx, id, document.TransitionReject)
}

func (s *documentService) transition(ctx context.Context, id string, t document.Transition) (doc *document.Document, err error) {
	defer observe(string(t), &err)
	doc, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := document.Next(doc.Status, t)
	if err != nil {
		return nil, err
	}
	doc.Status = next
	s.touch(doc)

	if next == document.StatusPublished && s.archive != nil {
		if err := s.archive.Archive(ctx, archiveKey(doc.ID), []byte(doc.Body), "text/html; charset=utf-8"); err != nil {
			return nil, fmt.Errorf("archive %s: %w", doc.ID, err)
		}
	}
	if err := s.store(ctx, doc); err != nil {
		return nil, err
	}
	logger.Infof("document %s moved to %s", doc.ID, doc.Status)
	return doc.Clone(), nil
}

func (s *documentService) Get(ctx context.Context, id string) (doc *document.Document, err error) {
	defer observe("get", &err)
	return s.load(ctx, id)
}

func (s *documentService) List(ctx context.Context) (list []*document.Document, err error) {
	defer observe("list", &err)
	return s.repo.List(ctx)
}

func (s *documentService) Delete(ctx context.Context, id string) (err error) {
	defer observe("delete", &err)
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *documentService) ArchiveURL(ctx context.Context, id string) (string, error) {
	if s.archive == nil {
		return "", ErrNoArchive
	}
	doc, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if doc.Status != document.StatusPublished {
		return "", ErrNotFound
	}
	return s.archive.URL(ctx, archiveKey(id), 15*time.Minute)
}

func (s *documentService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *documentService) load(ctx context.Context, id string) (*document.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return doc, nil
}

func (s *documentService) store(ctx context.Context, doc *document.Document) error {
	if err := s.repo.Update(ctx, doc); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update document %s: %w", doc.ID, err)
	}
	return nil
}

func archiveKey(id string) string {
	return "published/" + id + ".html"
}

func observe(op string, err *error) {
	metrics.DocumentOperations.WithLabelValues(op, metrics.Outcome(*err)).Inc()
}
