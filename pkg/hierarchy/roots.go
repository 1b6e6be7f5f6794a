package hierarchy

// positionIndex holds the relevant positions in input order together with
// a dense index per id, used by the constructor's path table.
type positionIndex struct {
	order []Position
	byID  map[int]int
}

// newPositionIndex intersects positions with the ids named by relationships.
// A repeated position id keeps its first occurrence.
func newPositionIndex(positions []Position, adj *Adjacency) *positionIndex {
	idx := &positionIndex{byID: make(map[int]int)}
	for _, p := range positions {
		if !adj.Relevant(p.ID) {
			continue
		}
		if _, dup := idx.byID[p.ID]; dup {
			continue
		}
		idx.byID[p.ID] = len(idx.order)
		idx.order = append(idx.order, p)
	}
	return idx
}

func (idx *positionIndex) has(id int) bool {
	_, ok := idx.byID[id]
	return ok
}

func (idx *positionIndex) len() int { return len(idx.order) }

// resolvable reports whether both endpoints of e are relevant positions.
func (idx *positionIndex) resolvable(e Edge) bool {
	return idx.has(e.ChildID) && idx.has(e.ParentID)
}

// findRoots returns the relevant positions that are never the child of a
// resolvable relationship, in input order. A relationship whose parent is
// missing does not hide its child from the root set.
func findRoots(edges []Edge, idx *positionIndex) []Position {
	if idx.len() == 0 {
		return nil
	}
	childIDs := make(map[int]struct{}, len(edges))
	for _, e := range edges {
		if idx.resolvable(e) {
			childIDs[e.ChildID] = struct{}{}
		}
	}
	var roots []Position
	for _, p := range idx.order {
		if _, isChild := childIDs[p.ID]; !isChild {
			roots = append(roots, p)
		}
	}
	return roots
}
