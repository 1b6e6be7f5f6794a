package hierarchy

import "fmt"

// recoverIsolated force-roots the cycles that no declared root reached.
// Only positions lying on a cycle are candidates, taken in input order and
// skipped once an earlier forced tree has covered them. Positions hanging
// below an isolated cycle are placed by that cycle's tree, so each
// unreached cluster yields exactly one extra tree.
func (b *builder) recoverIsolated(visited Visited) ([]TreeNode, Visited) {
	cyclic := b.cyclicPositions()

	var trees []TreeNode
	for i, p := range b.idx.order {
		if !cyclic[i] || visited.Has(p.ID) {
			continue
		}
		tree, ok := b.build(p.ID)
		if !ok {
			continue
		}
		visited = visited.Mark(tree)

		tree.Name = p.Name + SuffixIsolatedCycle
		tree.Attributes[AttrWarning] = WarningIsolatedCycle
		trees = append(trees, tree)

		b.diagnostics = append(b.diagnostics, Diagnostic{
			Kind:       KindIsolatedCycle,
			Message:    fmt.Sprintf("position %d (%s) is only reachable through a cycle; rendered as its own root", p.ID, p.Name),
			PositionID: p.ID,
		})
	}
	return trees, visited
}

// cyclicPositions marks, by dense index, every relevant position that can
// reach itself through resolvable relationships: members of a strongly
// connected component with more than one position, or self-loops.
func (b *builder) cyclicPositions() []bool {
	n := b.idx.len()
	var (
		index   = make([]int, n) // discovery order + 1; zero is unvisited
		low     = make([]int, n)
		onStack = make([]bool, n)
		stack   []int
		next    = 1
		cyclic  = make([]bool, n)
	)

	var connect func(v int)
	connect = func(v int) {
		index[v], low[v] = next, next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, childID := range b.adj.Children(b.idx.order[v].ID) {
			w, ok := b.idx.byID[childID]
			if !ok {
				continue
			}
			if w == v {
				cyclic[v] = true
			}
			switch {
			case index[w] == 0:
				connect(w)
				low[v] = min(low[v], low[w])
			case onStack[w]:
				low[v] = min(low[v], index[w])
			}
		}

		if low[v] != index[v] {
			return
		}
		var component []int
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			component = append(component, w)
			if w == v {
				break
			}
		}
		if len(component) > 1 {
			for _, w := range component {
				cyclic[w] = true
			}
		}
	}

	for v := range n {
		if index[v] == 0 {
			connect(v)
		}
	}
	return cyclic
}
