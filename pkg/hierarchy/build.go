package hierarchy

import (
	"fmt"
	"strings"
)

// builder is the depth-first tree constructor. Path membership is tracked
// with a stack of dense indexes plus a boolean table: an entry is set before
// descending into a position and cleared on the way back, so sibling
// branches never see each other's path.
type builder struct {
	adj    *Adjacency
	idx    *positionIndex
	owners map[int]int
	onPath []bool
	path   []int

	diagnostics  []Diagnostic
	cycleMarkers int
}

func newBuilder(adj *Adjacency, idx *positionIndex, owners map[int]int) *builder {
	return &builder{
		adj:    adj,
		idx:    idx,
		owners: owners,
		onPath: make([]bool, idx.len()),
	}
}

// ownerEdges maps each child to the last resolvable relationship naming it.
// Dangling relationships never own a child, matching how roots are found.
func ownerEdges(edges []Edge, idx *positionIndex) map[int]int {
	owners := make(map[int]int, len(edges))
	for _, e := range edges {
		if idx.resolvable(e) {
			owners[e.ChildID] = e.ID
		}
	}
	return owners
}

// build returns the subtree rooted at id, or false when id is not a relevant
// position (a dangling reference, dropped here and reported by Build).
// Recursion depth is bounded by the number of relevant positions.
func (b *builder) build(id int) (TreeNode, bool) {
	i, ok := b.idx.byID[id]
	if !ok {
		return TreeNode{}, false
	}
	p := b.idx.order[i]

	if b.onPath[i] {
		b.recordCycle(i)
		return cycleMarker(p), true
	}

	b.onPath[i] = true
	b.path = append(b.path, i)

	var children []TreeNode
	for _, childID := range b.adj.Children(id) {
		child, ok := b.build(childID)
		if !ok {
			continue
		}
		if edgeID, ok := b.owners[childID]; ok {
			child.stampEdge(edgeID)
		}
		children = append(children, child)
	}

	b.path = b.path[:len(b.path)-1]
	b.onPath[i] = false

	return TreeNode{
		Name: p.Name,
		Attributes: Attributes{
			AttrStatus: status(p.Active),
			AttrID:     p.ID,
		},
		Children: children,
		ID:       p.ID,
	}, true
}

// recordCycle reports the cycle closed by re-entering dense index i.
func (b *builder) recordCycle(i int) {
	b.cycleMarkers++

	start := 0
	for k, j := range b.path {
		if j == i {
			start = k
			break
		}
	}
	ids := make([]int, 0, len(b.path)-start+1)
	names := make([]string, 0, cap(ids))
	for _, j := range b.path[start:] {
		ids = append(ids, b.idx.order[j].ID)
		names = append(names, b.idx.order[j].Name)
	}
	p := b.idx.order[i]
	ids = append(ids, p.ID)
	names = append(names, p.Name)

	b.diagnostics = append(b.diagnostics, Diagnostic{
		Kind:       KindCycle,
		Message:    fmt.Sprintf("circular reporting line: %s", strings.Join(names, " → ")),
		PositionID: p.ID,
		Path:       ids,
	})
}

func cycleMarker(p Position) TreeNode {
	return TreeNode{
		Name: p.Name + SuffixCycle,
		Attributes: Attributes{
			AttrWarning: WarningCircularReference,
			AttrID:      p.ID,
		},
		ID: p.ID,
	}
}

func status(active bool) string {
	if active {
		return StatusActive
	}
	return StatusInactive
}
