package outline

import (
	"strings"
	"testing"

	"github.com/matzehuels/orgtree/pkg/hierarchy"
)

func chain() []hierarchy.TreeNode {
	positions := []hierarchy.Position{
		{ID: 1, Name: "CEO", Active: true},
		{ID: 2, Name: "CTO", Active: true},
		{ID: 3, Name: "CFO", Active: false},
		{ID: 4, Name: "Dev", Active: true},
	}
	edges := []hierarchy.Edge{
		{ID: 10, ChildID: 2, ParentID: 1, Active: true},
		{ID: 11, ChildID: 3, ParentID: 1, Active: true},
		{ID: 12, ChildID: 4, ParentID: 2, Active: true},
	}
	return hierarchy.BuildTree(edges, positions, true)
}

func TestRender(t *testing.T) {
	out := Render(chain(), Options{})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	want := []string{"Organización", "CEO [1]", "CTO [2]", "Dev [4]", "CFO [3]"}
	if len(lines) != len(want) {
		t.Fatalf("Render() = %d lines, want %d:\n%s", len(lines), len(want), out)
	}
	for i, w := range want {
		if !strings.Contains(lines[i], w) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], w)
		}
	}
	if strings.Contains(out, "#10") {
		t.Error("relationship ids should only appear in detailed mode")
	}
}

func TestRenderDetailed(t *testing.T) {
	out := Render(chain(), Options{Detailed: true})
	for _, want := range []string{"CTO [2] #10", "CFO [3] #11 (Inactivo)", "Dev [4] #12"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render(detailed) missing %q:\n%s", want, out)
		}
	}
}

func TestRenderMaxDepth(t *testing.T) {
	out := Render(chain(), Options{MaxDepth: 1})
	if strings.Contains(out, "CTO") {
		t.Errorf("MaxDepth=1 should hide grandchildren of the root:\n%s", out)
	}
	if !strings.Contains(out, "… 3 more") {
		t.Errorf("MaxDepth=1 should summarize hidden nodes:\n%s", out)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(nil, Options{}); got != "" {
		t.Errorf("Render(nil) = %q, want empty", got)
	}
}

func TestLabelCycles(t *testing.T) {
	positions := []hierarchy.Position{
		{ID: 1, Name: "A", Active: true},
		{ID: 2, Name: "B", Active: true},
	}
	edges := []hierarchy.Edge{
		{ID: 10, ChildID: 2, ParentID: 1, Active: true},
		{ID: 11, ChildID: 1, ParentID: 2, Active: true},
	}
	out := Render(hierarchy.BuildTree(edges, positions, false), Options{})
	for _, want := range []string{"A (Ciclo Aislado) [1]", "B [2]", "A (Ciclo) [1]"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}
}
