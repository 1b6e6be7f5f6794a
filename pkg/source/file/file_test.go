package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/orgtree/pkg/errors"
	"github.com/matzehuels/orgtree/pkg/graph"
)

const sampleJSON = `{
  "positions": [
    {"id": 1, "name": "CEO", "active": true},
    {"id": 2, "name": "CTO", "active": true}
  ],
  "relationships": [
    {"id": 10, "childId": 2, "parentId": 1, "active": true}
  ]
}`

const sampleTOML = `
[[positions]]
id = 1
name = "CEO"
active = true

[[positions]]
id = 2
name = "CTO"
active = false

[[relationships]]
id = 10
childId = 2
parentId = 1
active = true
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	l := New(writeFile(t, "org.json", sampleJSON))

	doc, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(doc.Positions) != 2 || len(doc.Relationships) != 1 {
		t.Fatalf("Load() = %d positions, %d relationships", len(doc.Positions), len(doc.Relationships))
	}
	if doc.Relationships[0].ChildID != 2 || doc.Relationships[0].ParentID != 1 {
		t.Errorf("relationship = %+v", doc.Relationships[0])
	}
}

func TestLoadTOML(t *testing.T) {
	l := New(writeFile(t, "org.toml", sampleTOML))

	doc, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(doc.Positions) != 2 {
		t.Fatalf("positions = %d, want 2", len(doc.Positions))
	}
	if doc.Positions[1].Active {
		t.Error("CTO should be inactive")
	}
}

func TestLoadStdin(t *testing.T) {
	l := &Loader{Path: Stdin, Stdin: strings.NewReader(sampleJSON)}
	if l.Name() != "file:stdin" {
		t.Errorf("Name() = %q", l.Name())
	}

	doc, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(doc.Positions) != 2 {
		t.Errorf("positions = %d, want 2", len(doc.Positions))
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		want errors.Code
	}{
		{"missing", filepath.Join(t.TempDir(), "nope.json"), errors.ErrCodeNotFound},
		{"malformed", writeFile(t, "bad.json", `{"positions": [`), errors.ErrCodeInvalidDocument},
		{"negative id", writeFile(t, "neg.json", `{"positions":[{"id":-1,"name":"x"}]}`), errors.ErrCodeInvalidDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.path).Load(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want code %s", err, tt.want)
			}
		})
	}
}

func TestLoadFormatOverride(t *testing.T) {
	path := writeFile(t, "org.txt", sampleTOML)
	l := &Loader{Path: path, Format: graph.FormatTOML}

	doc, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(doc.Positions) != 2 {
		t.Errorf("positions = %d, want 2", len(doc.Positions))
	}
}
