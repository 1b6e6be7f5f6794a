// Package file loads organization documents from JSON or TOML files.
package file

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/orgtree/pkg/errors"
	"github.com/matzehuels/orgtree/pkg/graph"
	"github.com/matzehuels/orgtree/pkg/source"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// Loader reads a document from a path. The format follows the file
// extension unless Format is set; stdin defaults to JSON.
type Loader struct {
	Path   string
	Format string

	// Stdin replaces os.Stdin when Path is "-".
	Stdin io.Reader
}

// New returns a loader for path.
func New(path string) *Loader {
	return &Loader{Path: path}
}

func (l *Loader) Name() string {
	if l.Path == Stdin {
		return "file:stdin"
	}
	return "file:" + l.Path
}

// Load reads and decodes the document.
func (l *Loader) Load(ctx context.Context) (graph.Document, error) {
	if err := ctx.Err(); err != nil {
		return graph.Document{}, err
	}

	format := l.Format
	if format == "" {
		format = graph.DetectFormat(l.Path)
	}

	var r io.Reader
	if l.Path == Stdin {
		r = l.Stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		f, err := os.Open(l.Path)
		if os.IsNotExist(err) {
			return graph.Document{}, errors.Wrap(errors.ErrCodeNotFound, err, "input file %s", l.Path)
		}
		if err != nil {
			return graph.Document{}, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "open %s", l.Path)
		}
		defer f.Close()
		r = f
	}

	doc, err := graph.ReadDocument(r, format)
	if err != nil {
		return graph.Document{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "read %s", l.Name())
	}
	if err := source.Validate(doc); err != nil {
		return graph.Document{}, fmt.Errorf("%s: %w", l.Name(), err)
	}
	return doc, nil
}

var _ source.Loader = (*Loader)(nil)
