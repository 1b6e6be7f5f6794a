package hierarchy

// Filter selects the relationships and positions that take part in the
// build. With includeInactive set everything is kept as is; otherwise only
// rows flagged active survive.
//
// Positions are filtered purely on their own flag. An active relationship
// whose endpoint is an inactive position therefore becomes dangling and is
// reported as such by [Build].
func Filter(edges []Edge, positions []Position, includeInactive bool) ([]Edge, []Position) {
	if includeInactive {
		return edges, positions
	}
	fe := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.Active {
			fe = append(fe, e)
		}
	}
	fp := make([]Position, 0, len(positions))
	for _, p := range positions {
		if p.Active {
			fp = append(fp, p)
		}
	}
	return fe, fp
}
