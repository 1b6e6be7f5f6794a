package hierarchy

// Result is the structured output of [Build].
type Result struct {
	// Tree is empty, or holds exactly one virtual root.
	Tree        []TreeNode   `json:"tree"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Stats       Stats        `json:"stats"`
}

// Stats describes the input after filtering and what the build produced.
type Stats struct {
	// Positions and Relationships count the rows that survived filtering.
	Positions     int `json:"positions"`
	Relationships int `json:"relationships"`

	// RelevantPositions counts positions named by at least one relationship.
	RelevantPositions int `json:"relevantPositions"`

	// Roots counts declared roots; IsolatedCycles counts forced roots.
	Roots          int `json:"roots"`
	IsolatedCycles int `json:"isolatedCycles"`

	CycleMarkers          int `json:"cycleMarkers"`
	DanglingRelationships int `json:"danglingRelationships"`

	// Nodes counts emitted tree nodes, excluding the virtual root.
	Nodes int `json:"nodes"`
}

// Count returns the number of diagnostics of the given kind.
func (r Result) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// DanglingCount returns how many relationships reference missing or
// filtered-out positions.
func (r Result) DanglingCount() int { return r.Count(KindDanglingReference) }

// Root returns the virtual root, or false for an empty result.
func (r Result) Root() (TreeNode, bool) {
	if len(r.Tree) == 0 {
		return TreeNode{}, false
	}
	return r.Tree[0], true
}

// Build converts relationships and positions into a single-rooted tree.
//
// Build never fails: cycles become terminal markers or forced roots, and
// references to unknown or filtered-out positions are dropped and reported
// in the diagnostics. Identical ordered inputs produce identical results.
func Build(edges []Edge, positions []Position, includeInactive bool) Result {
	fe, fp := Filter(edges, positions, includeInactive)
	adj := NewAdjacency(fe)
	idx := newPositionIndex(fp, adj)
	owners := ownerEdges(fe, idx)
	b := newBuilder(adj, idx, owners)

	dangling := danglingDiagnostics(fe, idx)
	diagnostics := append(dangling, multipleParentDiagnostics(fe, adj, owners)...)

	visited := make(Visited, idx.len())
	var trees []TreeNode
	for _, root := range findRoots(fe, idx) {
		tree, ok := b.build(root.ID)
		if !ok {
			continue
		}
		visited = visited.Mark(tree)
		trees = append(trees, tree)
	}
	declared := len(trees)

	isolated, _ := b.recoverIsolated(visited)
	trees = append(trees, isolated...)

	diagnostics = append(diagnostics, b.diagnostics...)
	if diagnostics == nil {
		diagnostics = []Diagnostic{}
	}

	nodes := 0
	Walk(trees, func(*TreeNode, int) { nodes++ })

	return Result{
		Tree:        wrap(trees),
		Diagnostics: diagnostics,
		Stats: Stats{
			Positions:             len(fp),
			Relationships:         len(fe),
			RelevantPositions:     idx.len(),
			Roots:                 declared,
			IsolatedCycles:        len(isolated),
			CycleMarkers:          b.cycleMarkers,
			DanglingRelationships: len(dangling),
			Nodes:                 nodes,
		},
	}
}

// BuildTree is [Build] without diagnostics.
func BuildTree(edges []Edge, positions []Position, includeInactive bool) []TreeNode {
	return Build(edges, positions, includeInactive).Tree
}
