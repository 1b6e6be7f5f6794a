package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/orgtree/pkg/hierarchy"
)

// =============================================================================
// Document Serialization API
// =============================================================================

// DetectFormat returns the input format implied by a file name.
// Anything that is not .toml is treated as JSON.
func DetectFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

// ReadDocumentFile reads a JSON or TOML document from disk.
func ReadDocumentFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f, DetectFormat(path))
}

// ReadDocument decodes a document in the given format from r.
func ReadDocument(r io.Reader, format string) (Document, error) {
	var d Document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&d); err != nil {
			return Document{}, fmt.Errorf("decode json: %w", err)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&d); err != nil {
			return Document{}, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("unsupported document format %q", format)
	}
	return d, nil
}

// UnmarshalDocument decodes JSON bytes into a Document.
func UnmarshalDocument(data []byte) (Document, error) {
	return ReadDocument(bytes.NewReader(data), FormatJSON)
}

// WriteDocument writes d as indented JSON.
func WriteDocument(d Document, w io.Writer) error {
	return writeJSON(w, d)
}

// =============================================================================
// Result Serialization API
// =============================================================================

// MarshalResult converts a build result to indented JSON bytes.
func MarshalResult(res hierarchy.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, res); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteResult writes a build result as indented JSON.
func WriteResult(res hierarchy.Result, w io.Writer) error {
	return writeJSON(w, res)
}

// UnmarshalResult decodes a build result from JSON bytes.
func UnmarshalResult(data []byte) (hierarchy.Result, error) {
	var res hierarchy.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return hierarchy.Result{}, fmt.Errorf("decode result: %w", err)
	}
	return res, nil
}

// MarshalTree encodes only the tree, the shape consumed by the renderer.
func MarshalTree(tree []hierarchy.TreeNode) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, tree); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
