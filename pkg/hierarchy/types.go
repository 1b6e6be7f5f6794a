package hierarchy

import (
	"bytes"
	"encoding/json"
)

// VirtualRootID is the id of the synthetic node wrapping all top-level trees.
// Real position ids are expected to be non-negative.
const VirtualRootID = -1

// Attribute keys read by the rendering collaborator.
const (
	AttrStatus  = "Estado"
	AttrID      = "ID"
	AttrOrgID   = "OrgID"
	AttrWarning = "Warning"
	AttrType    = "Tipo"
)

// Attribute values and name decorations.
const (
	StatusActive   = "Activo"
	StatusInactive = "Inactivo"

	WarningCircularReference = "Referencia Circular"
	WarningIsolatedCycle     = "Ciclo Aislado"

	SuffixCycle         = " (Ciclo)"
	SuffixIsolatedCycle = " (Ciclo Aislado)"

	VirtualRootName = "Organización"
	VirtualRootType = "Raíz Virtual"
)

// Position is an organizational role. The builder only reads it.
type Position struct {
	ID     int
	Name   string
	Active bool
}

// Edge is a hierarchy relationship: ChildID reports to ParentID.
type Edge struct {
	ID       int
	ChildID  int
	ParentID int
	Active   bool
}

// Attributes holds the per-node key/value pairs shown by the renderer.
// Values are either strings or ints.
type Attributes map[string]any

// UnmarshalJSON decodes whole numbers back into ints so that attributes
// survive a JSON round trip (for example through a cache) unchanged.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		*a = nil
		return nil
	}
	out := make(Attributes, len(raw))
	for k, v := range raw {
		if n, ok := v.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				out[k] = int(i)
				continue
			}
			f, _ := n.Float64()
			out[k] = f
			continue
		}
		out[k] = v
	}
	*a = out
	return nil
}

// Int returns the integer value stored under key.
func (a Attributes) Int(key string) (int, bool) {
	switch v := a[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), v == float64(int(v))
	}
	return 0, false
}

// Text returns the string value stored under key.
func (a Attributes) Text(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// TreeNode is one node of the built forest. Trees are rebuilt from scratch
// on every call and are not mutated after being returned.
type TreeNode struct {
	Name       string     `json:"name"`
	Attributes Attributes `json:"attributes"`
	Children   []TreeNode `json:"children,omitempty"`
	ID         int        `json:"id"`
	EdgeID     *int       `json:"edgeId,omitempty"`
}

// IsVirtualRoot reports whether n is the synthetic organization root.
func (n TreeNode) IsVirtualRoot() bool { return n.ID == VirtualRootID }

// IsCycleMarker reports whether n is a terminal node closing a cycle.
func (n TreeNode) IsCycleMarker() bool {
	w, _ := n.Attributes.Text(AttrWarning)
	return w == WarningCircularReference
}

// IsIsolatedCycleRoot reports whether n was force-rooted because no declared
// root reached it.
func (n TreeNode) IsIsolatedCycleRoot() bool {
	w, _ := n.Attributes.Text(AttrWarning)
	return w == WarningIsolatedCycle
}

// IsInactive reports whether the position behind n is flagged inactive.
func (n TreeNode) IsInactive() bool {
	s, _ := n.Attributes.Text(AttrStatus)
	return s == StatusInactive
}

// OrgID returns the relationship id that attaches n to its parent.
func (n TreeNode) OrgID() (int, bool) { return n.Attributes.Int(AttrOrgID) }

func (n *TreeNode) stampEdge(edgeID int) {
	n.Attributes[AttrOrgID] = edgeID
	n.EdgeID = &edgeID
}

// Walk visits every node of the forest depth-first in child order.
// The virtual root, when present, is visited at depth 0.
func Walk(nodes []TreeNode, fn func(n *TreeNode, depth int)) {
	var walk func(n *TreeNode, depth int)
	walk = func(n *TreeNode, depth int) {
		fn(n, depth)
		for i := range n.Children {
			walk(&n.Children[i], depth+1)
		}
	}
	for i := range nodes {
		walk(&nodes[i], 0)
	}
}
