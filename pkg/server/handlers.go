package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgtree/pkg/buildinfo"
	"github.com/matzehuels/orgtree/pkg/errors"
	"github.com/matzehuels/orgtree/pkg/graph"
	"github.com/matzehuels/orgtree/pkg/hierarchy"
	"github.com/matzehuels/orgtree/pkg/pipeline"
	"github.com/matzehuels/orgtree/pkg/source"
)

// TreeResponse is the JSON body of a successful tree request.
type TreeResponse struct {
	Tree        []hierarchy.TreeNode   `json:"tree"`
	Diagnostics []hierarchy.Diagnostic `json:"diagnostics"`
	Stats       hierarchy.Stats        `json:"stats"`
	InputHash   string                 `json:"inputHash"`
	Cached      bool                   `json:"cached"`
}

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

var contentTypes = map[string]string{
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatText: "text/plain; charset=utf-8",
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) getTree(w http.ResponseWriter, r *http.Request) {
	if s.loader == nil {
		respondError(w, r, s.logger, errors.New(errors.ErrCodeNotFound, "no source configured; POST a document instead"))
		return
	}
	s.serveTree(w, r, s.loader)
}

func (s *Server) postTree(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	doc, err := graph.ReadDocument(r.Body, graph.FormatJSON)
	if err != nil {
		respondError(w, r, s.logger, errors.Wrap(errors.ErrCodeInvalidDocument, err, "request body"))
		return
	}
	if err := source.Validate(doc); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	s.serveTree(w, r, source.Static{Doc: doc, Label: "request"})
}

func (s *Server) serveTree(w http.ResponseWriter, r *http.Request, loader source.Loader) {
	opts, err := treeOptions(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	opts.Logger = s.logger.With("request_id", GetRequestID(r.Context()))

	res, err := s.runner.Execute(r.Context(), loader, opts)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	format := opts.Formats[0]
	if format == pipeline.FormatJSON {
		respondJSON(w, http.StatusOK, TreeResponse{
			Tree:        res.Tree,
			Diagnostics: res.Diagnostics,
			Stats:       res.Stats,
			InputHash:   res.InputHash,
			Cached:      res.CacheInfo.BuildHit,
		})
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Orgtree-Diagnostics", strconv.Itoa(len(res.Diagnostics)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func treeOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Formats: []string{pipeline.FormatJSON}}

	if v := q.Get("inactive"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "inactive must be a boolean, got %q", v)
		}
		opts.IncludeInactive = b
	}
	if v := q.Get("detailed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "detailed must be a boolean, got %q", v)
		}
		opts.Detailed = b
	}
	if v := q.Get("format"); v != "" {
		if err := pipeline.ValidateFormat(v); err != nil {
			return opts, err
		}
		opts.Formats = []string{v}
	}
	return opts, nil
}

func errNotFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", GetRequestID(r.Context()))
	}
	respondJSON(w, status, ErrorResponse{Code: code, Message: errors.UserMessage(err)})
}
