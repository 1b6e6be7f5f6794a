// Package outline renders organization charts as indented terminal trees.
//
//	Organización
//	└── CEO [1]
//	    ├── CTO [2] #10
//	    └── CFO [3] #11
//
// Cycle markers, isolated cycle roots and inactive positions get their own
// styles. Colors are dropped automatically when the output is not a
// terminal.
package outline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/orgtree/pkg/hierarchy"
)

// Options configures outline rendering.
type Options struct {
	// Detailed appends the relationship id (#OrgID) and inactive status.
	Detailed bool

	// MaxDepth truncates the outline below this depth; 0 means unlimited.
	// Truncated subtrees are summarized as "… N more".
	MaxDepth int
}

var (
	rootStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	nodeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	idStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cycleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("167")).Italic(true)
	isolatedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true)
	branchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Render returns the outline of a built forest. An empty forest renders as
// the empty string.
func Render(forest []hierarchy.TreeNode, opts Options) string {
	var b strings.Builder
	for i, n := range forest {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(toTree(n, opts, 0).String())
		b.WriteString("\n")
	}
	return b.String()
}

func toTree(n hierarchy.TreeNode, opts Options, depth int) *tree.Tree {
	t := tree.Root(Label(n, opts.Detailed)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(branchStyle)

	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		if hidden := count(n.Children); hidden > 0 {
			t.Child(idStyle.Render(fmt.Sprintf("… %d more", hidden)))
		}
		return t
	}
	for _, c := range n.Children {
		if len(c.Children) == 0 {
			t.Child(Label(c, opts.Detailed))
			continue
		}
		t.Child(toTree(c, opts, depth+1))
	}
	return t
}

// Label formats a single node the way it appears in the outline.
func Label(n hierarchy.TreeNode, detailed bool) string {
	if n.IsVirtualRoot() {
		return rootStyle.Render(n.Name)
	}

	style := nodeStyle
	switch {
	case n.IsCycleMarker():
		style = cycleStyle
	case n.IsIsolatedCycleRoot():
		style = isolatedStyle
	case n.IsInactive():
		style = inactiveStyle
	}

	parts := []string{style.Render(n.Name), idStyle.Render(fmt.Sprintf("[%d]", n.ID))}
	if detailed {
		if id, ok := n.OrgID(); ok {
			parts = append(parts, idStyle.Render(fmt.Sprintf("#%d", id)))
		}
		if n.IsInactive() {
			parts = append(parts, inactiveStyle.Render("("+hierarchy.StatusInactive+")"))
		}
	}
	return strings.Join(parts, " ")
}

func count(nodes []hierarchy.TreeNode) int {
	total := 0
	hierarchy.Walk(nodes, func(*hierarchy.TreeNode, int) { total++ })
	return total
}
