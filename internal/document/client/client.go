// Package client is the editor's boundary to the document service.
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogotex/gogotex/backend/go-editor/internal/document"
	"github.com/gogotex/gogotex/backend/go-editor/pkg/metrics"
)

// ErrServiceUnavailable is the only error kind reported by a Client. Every
// failed call satisfies errors.Is(err, ErrServiceUnavailable).
var ErrServiceUnavailable = errors.New("document service unavailable")

// Client fetches, saves and transitions documents on behalf of the editor.
type Client interface {
	// FetchDraft returns the owner's draft, or nil without error when there is none.
	FetchDraft(ctx context.Context, ownerID string) (*document.Document, error)
	Save(ctx context.Context, in document.SaveInput) (*document.Document, error)
	Publish(ctx context.Context, id string) (*document.Document, error)
	Approve(ctx context.Context, id string) (*document.Document, error)
	Reject(ctx context.Context, id string) (*document.Document, error)
}

// Error wraps the underlying cause of a failed call.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, ErrServiceUnavailable)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrServiceUnavailable, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrServiceUnavailable }

func unavailable(op string, err error) error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	return &Error{Op: op, Err: err}
}

// observe records the outcome and latency of one call.
func observe(op string, start time.Time, err error) {
	metrics.ClientRequests.WithLabelValues(op, metrics.Outcome(err)).Inc()
	metrics.ClientLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
