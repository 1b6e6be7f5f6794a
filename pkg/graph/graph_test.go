package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/orgtree/pkg/hierarchy"
)

const sampleJSON = `{
  "positions": [
    {"id": 1, "name": "CEO", "active": true},
    {"id": 2, "name": "CTO", "active": true},
    {"id": 3, "name": "Intern"}
  ],
  "relationships": [
    {"id": 10, "childId": 2, "parentId": 1, "active": true},
    {"id": 11, "childId": 3, "parentId": 2, "active": false}
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
active = true

[[positions]]
id = 3
name = "Intern"

[[relationships]]
id = 10
childId = 2
parentId = 1
active = true

[[relationships]]
id = 11
childId = 3
parentId = 2
active = false
`

func TestReadDocument(t *testing.T) {
	tests := []struct {
		format string
		input  string
	}{
		{FormatJSON, sampleJSON},
		{FormatTOML, sampleTOML},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			d, err := ReadDocument(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("ReadDocument() error: %v", err)
			}
			if len(d.Positions) != 3 || len(d.Relationships) != 2 {
				t.Fatalf("got %d positions / %d relationships, want 3 / 2", len(d.Positions), len(d.Relationships))
			}
			if d.Positions[2].Active {
				t.Error("missing active field should decode as false")
			}
			r := d.Relationships[0]
			if r.ID != 10 || r.ChildID != 2 || r.ParentID != 1 || !r.Active {
				t.Errorf("relationship = %+v", r)
			}
		})
	}
}

func TestReadDocumentErrors(t *testing.T) {
	if _, err := ReadDocument(strings.NewReader("{"), FormatJSON); err == nil {
		t.Error("expected error for truncated JSON")
	}
	if _, err := ReadDocument(strings.NewReader("x = "), FormatTOML); err == nil {
		t.Error("expected error for invalid TOML")
	}
	if _, err := ReadDocument(strings.NewReader("{}"), "yaml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestReadDocumentFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "org.toml")
	if err := os.WriteFile(path, []byte(sampleTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := ReadDocumentFile(path)
	if err != nil {
		t.Fatalf("ReadDocumentFile() error: %v", err)
	}
	if d.Positions[0].Name != "CEO" {
		t.Errorf("first position = %q, want CEO", d.Positions[0].Name)
	}

	if _, err := ReadDocumentFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]string{
		"org.json":  FormatJSON,
		"org.TOML":  FormatTOML,
		"org":       FormatJSON,
		"dir/x.tml": FormatJSON,
	}
	for path, want := range tests {
		if got := DetectFormat(path); got != want {
			t.Errorf("DetectFormat(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestDocumentBuild(t *testing.T) {
	d, _ := UnmarshalDocument([]byte(sampleJSON))

	res := d.Build(false)
	if res.Stats.Relationships != 1 || res.Stats.Positions != 2 {
		t.Errorf("Stats = %+v, want 1 relationship and 2 positions", res.Stats)
	}

	res = d.Build(true)
	var names []string
	hierarchy.Walk(res.Tree, func(n *hierarchy.TreeNode, _ int) { names = append(names, n.Name) })
	if got := strings.Join(names, ","); got != "Organización,CEO,CTO,Intern" {
		t.Errorf("tree = %s", got)
	}
}

func TestFromHierarchy(t *testing.T) {
	d, _ := UnmarshalDocument([]byte(sampleJSON))
	edges, positions := d.Hierarchy()
	back := FromHierarchy(edges, positions)
	if !bytes.Equal(d.Canonical(), back.Canonical()) {
		t.Errorf("FromHierarchy(Hierarchy()) changed the document:\n%s\n%s", d.Canonical(), back.Canonical())
	}
}

func TestResultJSON(t *testing.T) {
	d, _ := UnmarshalDocument([]byte(sampleJSON))
	res := d.Build(true)

	data, err := MarshalResult(res)
	if err != nil {
		t.Fatalf("MarshalResult() error: %v", err)
	}
	for _, key := range []string{`"tree"`, `"diagnostics"`, `"stats"`, `"OrgID": 10`} {
		if !bytes.Contains(data, []byte(key)) {
			t.Errorf("result JSON missing %s", key)
		}
	}

	back, err := UnmarshalResult(data)
	if err != nil {
		t.Fatalf("UnmarshalResult() error: %v", err)
	}
	if back.Stats != res.Stats {
		t.Errorf("Stats = %+v, want %+v", back.Stats, res.Stats)
	}
	if _, err := UnmarshalResult([]byte("nope")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
