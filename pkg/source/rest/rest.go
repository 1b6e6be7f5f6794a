// Package rest loads organization documents from the HR console's HTTP API.
//
// The API exposes two JSON collections under a common base URL:
//
//	GET {base}/positions      -> [{"id":1,"name":"CEO","active":true}, ...]
//	GET {base}/relationships  -> [{"id":10,"childId":2,"parentId":1,"active":true}, ...]
//
// Network failures, 429 and 5xx responses are retried with exponential
// backoff, honoring Retry-After. A 404 fails immediately with NOT_FOUND; any other non-200 status fails
// with SOURCE_UNAVAILABLE.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgtree/pkg/errors"
	"github.com/matzehuels/orgtree/pkg/graph"
	"github.com/matzehuels/orgtree/pkg/httputil"
	"github.com/matzehuels/orgtree/pkg/observability"
	"github.com/matzehuels/orgtree/pkg/source"
)

const httpTimeout = 10 * time.Second

// Config configures a REST loader.
type Config struct {
	BaseURL string
	Token   string // sent as a bearer token when set

	// Retry tuning; zero values use [httputil.DefaultBackoff].
	Attempts int
	Delay    time.Duration

	// Logger, when set, receives a warning per retried request.
	Logger *log.Logger

	// HTTPClient overrides the default client (10s timeout).
	HTTPClient *http.Client
}

// Validate reports a missing or malformed base URL.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "rest source requires a base_url")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid base_url %q", c.BaseURL)
	}
	return nil
}

// Loader fetches positions and relationships over HTTP.
type Loader struct {
	http    *http.Client
	base    string
	token   string
	backoff httputil.Backoff
}

// New creates a Loader from cfg.
func New(cfg Config) (*Loader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := &Loader{
		http:    cfg.HTTPClient,
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		backoff: httputil.DefaultBackoff,
	}
	if l.http == nil {
		l.http = &http.Client{Timeout: httpTimeout}
	}
	if cfg.Attempts > 0 {
		l.backoff.Attempts = cfg.Attempts
	}
	if cfg.Delay > 0 {
		l.backoff.Delay = cfg.Delay
	}
	if logger := cfg.Logger; logger != nil {
		l.backoff.OnRetry = func(attempt int, err error, wait time.Duration) {
			logger.Warn("retrying request", "source", l.Name(), "attempt", attempt, "wait", wait, "err", err)
		}
	}
	return l, nil
}

func (l *Loader) Name() string {
	return "rest:" + l.base
}

// Load fetches both collections.
func (l *Loader) Load(ctx context.Context) (graph.Document, error) {
	var doc graph.Document
	if err := l.get(ctx, "/positions", &doc.Positions); err != nil {
		return graph.Document{}, err
	}
	if err := l.get(ctx, "/relationships", &doc.Relationships); err != nil {
		return graph.Document{}, err
	}
	if doc.Positions == nil {
		doc.Positions = []graph.Position{}
	}
	if doc.Relationships == nil {
		doc.Relationships = []graph.Relationship{}
	}
	if err := source.Validate(doc); err != nil {
		return graph.Document{}, fmt.Errorf("%s: %w", l.Name(), err)
	}
	return doc, nil
}

func (l *Loader) get(ctx context.Context, path string, v any) error {
	err := l.backoff.Do(ctx, func() error {
		return l.fetch(ctx, path, v)
	})
	if err == nil {
		return nil
	}
	if errors.GetCode(err) != "" {
		return err
	}
	if ctx.Err() != nil {
		return errors.Wrap(errors.ErrCodeTimeout, err, "GET %s", path)
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", path)
}

func (l *Loader) fetch(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if l.token != "" {
		req.Header.Set("Authorization", "Bearer "+l.token)
	}

	hooks := observability.HTTP()
	host := req.URL.Host
	hooks.OnRequest(ctx, req.Method, host, req.URL.Path)
	start := time.Now()

	resp, err := l.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, req.URL.Path, err)
		return &httputil.RetryableError{Err: err}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(path, resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode %s", path)
	}
	return nil
}

func checkStatus(path string, resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s: status %d", path, code)
	case code == http.StatusTooManyRequests, code >= 500:
		return &httputil.RetryableError{
			Err:   fmt.Errorf("%s: status %d", path, code),
			After: httputil.RetryAfter(resp.Header),
		}
	default:
		return errors.New(errors.ErrCodeSourceUnavailable, "%s: status %d", path, code)
	}
}

var _ source.Loader = (*Loader)(nil)
