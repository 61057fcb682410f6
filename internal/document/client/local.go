package client

import (
	"context"
	"time"

	"github.com/gogotex/gogotex/backend/go-editor/internal/document"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document/service"
)

// LocalClient calls an in-process service after a simulated network delay.
type LocalClient struct {
	svc     service.Service
	latency time.Duration
}

// NewLocalClient returns a client over svc. Every call waits latency first.
func NewLocalClient(svc service.Service, latency time.Duration) *LocalClient {
	return &LocalClient{svc: svc, latency: latency}
}

func (c *LocalClient) FetchDraft(ctx context.Context, ownerID string) (doc *document.Document, err error) {
	start := time.Now()
	defer func() { observe("fetch_draft", start, err) }()
	if err = c.wait(ctx); err == nil {
		doc, err = c.svc.FetchDraft(ctx, ownerID)
	}
	if err != nil {
		return nil, unavailable("fetch draft", err)
	}
	return doc, nil
}

func (c *LocalClient) Save(ctx context.Context, in document.SaveInput) (doc *document.Document, err error) {
	start := time.Now()
	defer func() { observe("save", start, err) }()
	if err = c.wait(ctx); err == nil {
		doc, err = c.svc.Save(ctx, in)
	}
	if err != nil {
		return nil, unavailable("save", err)
	}
	return doc, nil
}

func (c *LocalClient) Publish(ctx context.Context, id string) (*document.Document, error) {
	return c.call(ctx, string(document.TransitionPublish), id, c.svc.Publish)
}

func (c *LocalClient) Approve(ctx context.Context, id string) (*document.Document, error) {
	return c.call(ctx, string(document.TransitionApprove), id, c.svc.Approve)
}

func (c *LocalClient) Reject(ctx context.Context, id string) (*document.Document, error) {
	return c.call(ctx, string(document.TransitionReject), id, c.svc.Reject)
}

func (c *LocalClient) call(ctx context.Context, op, id string, fn func(context.Context, string) (*document.Document, error)) (doc *document.Document, err error) {
	start := time.Now()
	defer func() { observe(op, start, err) }()
	if err = c.wait(ctx); err == nil {
		doc, err = fn(ctx, id)
	}
	if err != nil {
		return nil, unavailable(op, err)
	}
	return doc, nil
}

func (c *LocalClient) wait(ctx context.Context) error {
	if c.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(c.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
