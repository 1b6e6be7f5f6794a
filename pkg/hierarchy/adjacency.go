package hierarchy

// Adjacency indexes filtered relationships for the tree constructor.
//
// Children keep the order in which their relationships were listed, which
// becomes the child order inside each node. When several relationships name
// the same child, EdgeID records the last one listed; [Build] narrows that
// to the last relationship whose endpoints both exist.
// Duplicate parent/child pairs are kept as listed.
type Adjacency struct {
	childrenOf    map[int][]int
	edgeIDOfChild map[int]int
	edgesOfChild  map[int]int
	relevant      map[int]struct{}
}

// NewAdjacency builds the parent→children and child→relationship indexes.
func NewAdjacency(edges []Edge) *Adjacency {
	a := &Adjacency{
		childrenOf:    make(map[int][]int),
		edgeIDOfChild: make(map[int]int, len(edges)),
		edgesOfChild:  make(map[int]int, len(edges)),
		relevant:      make(map[int]struct{}, 2*len(edges)),
	}
	for _, e := range edges {
		a.childrenOf[e.ParentID] = append(a.childrenOf[e.ParentID], e.ChildID)
		a.edgeIDOfChild[e.ChildID] = e.ID
		a.edgesOfChild[e.ChildID]++
		a.relevant[e.ParentID] = struct{}{}
		a.relevant[e.ChildID] = struct{}{}
	}
	return a
}

// Children returns the child ids of parent in relationship order.
func (a *Adjacency) Children(parent int) []int { return a.childrenOf[parent] }

// EdgeID returns the relationship id recorded for child.
func (a *Adjacency) EdgeID(child int) (int, bool) {
	id, ok := a.edgeIDOfChild[child]
	return id, ok
}

// ParentCount returns how many relationships name child as their child.
func (a *Adjacency) ParentCount(child int) int { return a.edgesOfChild[child] }

// Relevant reports whether id appears as parent or child in any relationship.
func (a *Adjacency) Relevant(id int) bool {
	_, ok := a.relevant[id]
	return ok
}

// RelevantCount returns the number of distinct ids named by relationships.
func (a *Adjacency) RelevantCount() int { return len(a.relevant) }
