// Package source defines how organization documents are loaded.
//
// A [Loader] produces a [graph.Document] holding positions and reporting
// relationships. Implementations live in subpackages:
//
//   - file: JSON or TOML documents on disk or stdin
//   - mongo: the positions and relationships collections of a MongoDB database
//   - rest: the HR console's HTTP API
//
// Loaders only fetch data. Filtering by status, cycle handling and tree
// assembly all happen in the hierarchy package.
package source

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/orgtree/pkg/errors"
	"github.com/matzehuels/orgtree/pkg/graph"
)

// Source kinds accepted in configuration.
const (
	KindFile  = "file"
	KindMongo = "mongo"
	KindREST  = "rest"
)

// Kinds lists every supported source kind.
var Kinds = []string{KindFile, KindMongo, KindREST}

// Loader fetches an organization document.
type Loader interface {
	// Load returns every position and relationship, active or not.
	Load(ctx context.Context) (graph.Document, error)

	// Name identifies the loader in logs, e.g. "file:org.json".
	Name() string
}

// ValidateKind reports an INVALID_CONFIG error for unknown source kinds.
func ValidateKind(kind string) error {
	if slices.Contains(Kinds, kind) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidConfig,
		"unknown source kind %q (want one of %s)", kind, strings.Join(Kinds, ", "))
}

// Validate checks a loaded document for structural problems the builder
// cannot tolerate. Only negative ids are rejected; -1 is reserved for the
// virtual root. Duplicates and dangling references are left to the builder,
// which reports them as diagnostics.
func Validate(d graph.Document) error {
	for _, p := range d.Positions {
		if p.ID < 0 {
			return errors.New(errors.ErrCodeInvalidDocument, "position %q has negative id %d", p.Name, p.ID)
		}
	}
	for _, r := range d.Relationships {
		if r.ChildID < 0 || r.ParentID < 0 {
			return errors.New(errors.ErrCodeInvalidDocument,
				"relationship %d has negative endpoint (child %d, parent %d)", r.ID, r.ChildID, r.ParentID)
		}
	}
	return nil
}

// Static is a Loader that returns a fixed document. The API server uses it
// for documents posted in a request body.
type Static struct {
	Doc   graph.Document
	Label string
}

func (s Static) Load(ctx context.Context) (graph.Document, error) {
	if err := ctx.Err(); err != nil {
		return graph.Document{}, err
	}
	return s.Doc, nil
}

func (s Static) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}

// Describe returns a short description of a document for log lines.
func Describe(d graph.Document) string {
	return fmt.Sprintf("%d positions, %d relationships", len(d.Positions), len(d.Relationships))
}
