package hierarchy

import (
	"fmt"
	"strings"
)

// DiagnosticKind classifies a data-quality finding.
type DiagnosticKind string

const (
	// KindDanglingReference marks a relationship with an endpoint that is
	// missing from the positions or was filtered out as inactive. The
	// missing side is left out of the tree.
	KindDanglingReference DiagnosticKind = "dangling_reference"

	// KindCycle marks a terminal "(Ciclo)" node. Path holds the position
	// ids of the cycle, starting and ending with the re-entered position.
	KindCycle DiagnosticKind = "cycle"

	// KindIsolatedCycle marks a position that was force-rooted because no
	// declared root reached it.
	KindIsolatedCycle DiagnosticKind = "isolated_cycle"

	// KindMultipleParents marks a child named by several relationships.
	// RelationshipID is the one whose id ends up as the child's OrgID, the
	// last resolvable one listed; zero when every one of them dangles.
	KindMultipleParents DiagnosticKind = "multiple_parents"
)

// Diagnostic is one finding reported by [Build] instead of an error.
type Diagnostic struct {
	Kind           DiagnosticKind `json:"kind"`
	Message        string         `json:"message"`
	PositionID     int            `json:"positionId"`
	RelationshipID int            `json:"relationshipId,omitempty"`
	Path           []int          `json:"path,omitempty"`
}

// danglingDiagnostics reports every relationship whose child or parent is
// not a relevant position, in relationship order.
func danglingDiagnostics(edges []Edge, idx *positionIndex) []Diagnostic {
	var out []Diagnostic
	for _, e := range edges {
		var missing []string
		first := 0
		if !idx.has(e.ChildID) {
			missing = append(missing, fmt.Sprintf("child %d", e.ChildID))
			first = e.ChildID
		}
		if !idx.has(e.ParentID) {
			if len(missing) == 0 {
				first = e.ParentID
			}
			missing = append(missing, fmt.Sprintf("parent %d", e.ParentID))
		}
		if len(missing) == 0 {
			continue
		}
		out = append(out, Diagnostic{
			Kind:           KindDanglingReference,
			Message:        fmt.Sprintf("relationship %d references missing or filtered-out %s", e.ID, strings.Join(missing, " and ")),
			PositionID:     first,
			RelationshipID: e.ID,
		})
	}
	return out
}

// multipleParentDiagnostics reports children claimed by more than one
// relationship, in order of first appearance. owners holds the relationship
// each child's OrgID comes from.
func multipleParentDiagnostics(edges []Edge, adj *Adjacency, owners map[int]int) []Diagnostic {
	var out []Diagnostic
	seen := make(map[int]bool)
	for _, e := range edges {
		if seen[e.ChildID] {
			continue
		}
		seen[e.ChildID] = true
		n := adj.ParentCount(e.ChildID)
		if n < 2 {
			continue
		}

		winner, ok := owners[e.ChildID]
		msg := fmt.Sprintf("position %d is the child of %d relationships; relationship %d is used for detaching", e.ChildID, n, winner)
		last, _ := adj.EdgeID(e.ChildID)
		switch {
		case !ok:
			msg = fmt.Sprintf("position %d is the child of %d relationships, all dangling; it has no relationship to detach", e.ChildID, n)
		case last != winner:
			msg += fmt.Sprintf(" (relationship %d, listed later, is dangling and ignored)", last)
		}

		out = append(out, Diagnostic{
			Kind:           KindMultipleParents,
			Message:        msg,
			PositionID:     e.ChildID,
			RelationshipID: winner,
		})
	}
	return out
}
