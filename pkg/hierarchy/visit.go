package hierarchy

// Visited is the cross-tree record of every position id already placed in
// some built tree. It is separate from the per-path cycle tracking and is
// passed explicitly from one top-level build to the next.
type Visited map[int]struct{}

// Has reports whether id has been placed in a tree.
func (v Visited) Has(id int) bool {
	_, ok := v[id]
	return ok
}

// Mark adds the ids of n and all its descendants and returns v.
func (v Visited) Mark(n TreeNode) Visited {
	Walk([]TreeNode{n}, func(n *TreeNode, _ int) {
		v[n.ID] = struct{}{}
	})
	return v
}
