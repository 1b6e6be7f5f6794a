package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgtree/pkg/errors"
	"github.com/matzehuels/orgtree/pkg/graph"
	"github.com/matzehuels/orgtree/pkg/pipeline"
	"github.com/matzehuels/orgtree/pkg/source"
)

const docJSON = `{
  "positions": [
    {"id": 1, "name": "CEO", "active": true},
    {"id": 2, "name": "CTO", "active": true},
    {"id": 3, "name": "Retired", "active": false}
  ],
  "relationships": [
    {"id": 10, "childId": 2, "parentId": 1, "active": true},
    {"id": 11, "childId": 3, "parentId": 1, "active": true}
  ]
}`

func newTestServer(t *testing.T, loader source.Loader) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := httptest.NewServer(New(pipeline.NewRunner(nil, nil, logger), loader, logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func staticLoader(t *testing.T) source.Loader {
	t.Helper()
	doc, err := graph.UnmarshalDocument([]byte(docJSON))
	if err != nil {
		t.Fatal(err)
	}
	return source.Static{Doc: doc, Label: "test"}
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if id := resp.Header.Get(HeaderRequestID); len(id) != 36 {
		t.Errorf("X-Request-ID = %q, want a uuid", id)
	}
	body := decode[map[string]string](t, resp)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	srv := newTestServer(t, nil)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(HeaderRequestID); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestGetTree(t *testing.T) {
	srv := newTestServer(t, staticLoader(t))

	resp, err := http.Get(srv.URL + "/api/v1/tree")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[TreeResponse](t, resp)

	if len(body.Tree) != 1 || body.Tree[0].ID != -1 {
		t.Fatalf("tree = %+v, want a single virtual root", body.Tree)
	}
	ceo := body.Tree[0].Children[0]
	if ceo.Name != "CEO" || len(ceo.Children) != 1 {
		t.Errorf("CEO = %+v, want one active child", ceo)
	}
	if body.Stats.DanglingRelationships != 1 || len(body.Diagnostics) != 1 {
		t.Errorf("stats = %+v, diagnostics = %v", body.Stats, body.Diagnostics)
	}
	if body.InputHash == "" {
		t.Error("inputHash should be set")
	}
}

func TestGetTreeInactive(t *testing.T) {
	srv := newTestServer(t, staticLoader(t))

	resp, err := http.Get(srv.URL + "/api/v1/tree?inactive=true")
	if err != nil {
		t.Fatal(err)
	}
	body := decode[TreeResponse](t, resp)
	if n := len(body.Tree[0].Children[0].Children); n != 2 {
		t.Errorf("CEO children = %d, want 2 with inactive included", n)
	}
	if len(body.Diagnostics) != 0 {
		t.Errorf("diagnostics = %v, want none", body.Diagnostics)
	}
}

func TestGetTreeFormats(t *testing.T) {
	srv := newTestServer(t, staticLoader(t))

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{"dot", "text/vnd.graphviz; charset=utf-8", "digraph G {"},
		{"text", "text/plain; charset=utf-8", "CTO [2]"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/api/v1/tree?format=" + tt.format)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if got := resp.Header.Get("X-Orgtree-Diagnostics"); got != "1" {
				t.Errorf("X-Orgtree-Diagnostics = %q, want 1", got)
			}
			data, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(data), tt.contains) {
				t.Errorf("body = %q, want it to contain %q", data, tt.contains)
			}
		})
	}
}

func TestGetTreeErrors(t *testing.T) {
	tests := []struct {
		name   string
		loader source.Loader
		query  string
		status int
		code   errors.Code
	}{
		{"bad format", nil, "?format=gif", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad bool", nil, "?inactive=maybe", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"no source", nil, "", http.StatusNotFound, errors.ErrCodeNotFound},
		{"source down", failingLoader{}, "", http.StatusBadGateway, errors.ErrCodeSourceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := tt.loader
			if loader == nil && tt.name != "no source" {
				loader = staticLoader(t)
			}
			srv := newTestServer(t, loader)

			resp, err := http.Get(srv.URL + "/api/v1/tree" + tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			body := decode[ErrorResponse](t, resp)
			if body.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Code, tt.code)
			}
		})
	}
}

func TestPostTree(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+"/api/v1/tree?inactive=true", "application/json", strings.NewReader(docJSON))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[TreeResponse](t, resp)
	if body.Stats.Positions != 3 {
		t.Errorf("stats.positions = %d, want 3", body.Stats.Positions)
	}
}

func TestPostTreeInvalid(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"positions": [`},
		{"negative id", `{"positions": [{"id": -1, "name": "Ghost"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/v1/tree", "application/json", bytes.NewBufferString(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if body := decode[ErrorResponse](t, resp); body.Code != errors.ErrCodeInvalidDocument {
				t.Errorf("code = %q", body.Code)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/v2/tree")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestListenAndServeShutdown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, logger), nil, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	if err := <-done; err != nil {
		t.Errorf("ListenAndServe() after cancel = %v", err)
	}
}

type failingLoader struct{}

func (failingLoader) Load(context.Context) (graph.Document, error) {
	return graph.Document{}, errors.New(errors.ErrCodeSourceUnavailable, "connection refused")
}

func (failingLoader) Name() string { return "failing" }
