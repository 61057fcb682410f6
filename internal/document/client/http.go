package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gogotex/gogotex/backend/go-editor/internal/document"
	"github.com/gogotex/gogotex/backend/go-editor/pkg/logger"
	"github.com/sony/gobreaker"
)

// HTTPClient talks to the document service API over HTTP. Calls go through a
// circuit breaker that opens after consecutive server-side failures.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

type httpOptions struct {
	httpClient *http.Client
	failures   uint32
	cooldown   time.Duration
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*httpOptions)

// WithHTTPClient replaces the default http.Client (10s timeout).
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(o *httpOptions) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithBreaker sets how many consecutive failures open the breaker and how long
// it stays open before letting a probe through.
func WithBreaker(failures uint32, cooldown time.Duration) HTTPOption {
	return func(o *httpOptions) {
		if failures > 0 {
			o.failures = failures
		}
		if cooldown > 0 {
			o.cooldown = cooldown
		}
	}
}

// NewHTTPClient returns a client for the service rooted at baseURL.
func NewHTTPClient(baseURL string, opts ...HTTPOption) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid service url %q", baseURL)
	}
	o := httpOptions{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		failures:   5,
		cooldown:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "document-service",
		MaxRequests: 1,
		Timeout:     o.cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= o.failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warnf("circuit breaker %q: %s -> %s", name, from, to)
		},
		IsSuccessful: func(err error) bool {
			// requests the server answered deliberately do not count against it
			var se *statusError
			if errors.As(err, &se) {
				return se.code < http.StatusInternalServerError
			}
			return err == nil
		},
	})

	return &HTTPClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    o.httpClient,
		breaker: cb,
	}, nil
}

// statusError is a non-2xx answer from the service.
type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("status %d", e.code)
	}
	return fmt.Sprintf("status %d: %s", e.code, e.msg)
}

func (c *HTTPClient) FetchDraft(ctx context.Context, ownerID string) (doc *document.Document, err error) {
	start := time.Now()
	defer func() { observe("fetch_draft", start, err) }()
	doc, err = c.do(ctx, http.MethodGet, "/api/owners/"+url.PathEscape(ownerID)+"/draft", nil)
	if err != nil {
		return nil, unavailable("fetch draft", err)
	}
	return doc, nil
}

func (c *HTTPClient) Save(ctx context.Context, in document.SaveInput) (doc *document.Document, err error) {
	start := time.Now()
	defer func() { observe("save", start, err) }()
	doc, err = c.do(ctx, http.MethodPost, "/api/documents", in)
	if err == nil && doc == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		return nil, unavailable("save", err)
	}
	return doc, nil
}

func (c *HTTPClient) Publish(ctx context.Context, id string) (*document.Document, error) {
	return c.transition(ctx, id, document.TransitionPublish)
}

func (c *HTTPClient) Approve(ctx context.Context, id string) (*document.Document, error) {
	return c.transition(ctx, id, document.TransitionApprove)
}

func (c *HTTPClient) Reject(ctx context.Context, id string) (*document.Document, error) {
	return c.transition(ctx, id, document.TransitionReject)
}

func (c *HTTPClient) transition(ctx context.Context, id string, t document.Transition) (doc *document.Document, err error) {
	start := time.Now()
	defer func() { observe(string(t), start, err) }()
	doc, err = c.do(ctx, http.MethodPost, "/api/documents/"+url.PathEscape(id)+"/"+string(t), nil)
	if err == nil && doc == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		return nil, unavailable(string(t), err)
	}
	return doc, nil
}

// do performs one request through the breaker. A 204 answer yields a nil document.
func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) (*document.Document, error) {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		var body io.Reader
		if payload != nil {
			b, err := json.Marshal(payload)
			if err != nil {
				return nil, err
			}
			body = bytes.NewReader(b)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNoContent {
			return (*document.Document)(nil), nil
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			var e struct {
				Error string `json:"error"`
			}
			_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&e)
			return nil, &statusError{code: resp.StatusCode, msg: e.Error}
		}
		var d document.Document
		if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return &d, nil
	})
	if err != nil {
		logger.Debugf("%s %s failed: %v", method, path, err)
		return nil, err
	}
	doc, _ := res.(*document.Document)
	return doc, nil
}
