package graph

import (
	"encoding/json"

	"github.com/matzehuels/orgtree/pkg/hierarchy"
)

// Input formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// Document is the builder input: every position and every relationship,
// including inactive ones. Filtering is the builder's job.
type Document struct {
	Positions     []Position     `json:"positions" bson:"positions" toml:"positions"`
	Relationships []Relationship `json:"relationships" bson:"relationships" toml:"relationships"`
}

// Position is an organizational role as stored by the console.
type Position struct {
	ID     int    `json:"id" bson:"id" toml:"id"`
	Name   string `json:"name" bson:"name" toml:"name"`
	Active bool   `json:"active" bson:"active" toml:"active"`
}

// Relationship is a "childId reports to parentId" record.
type Relationship struct {
	ID       int  `json:"id" bson:"id" toml:"id"`
	ChildID  int  `json:"childId" bson:"childId" toml:"childId"`
	ParentID int  `json:"parentId" bson:"parentId" toml:"parentId"`
	Active   bool `json:"active" bson:"active" toml:"active"`
}

// Hierarchy converts the document into builder input, preserving order.
func (d Document) Hierarchy() ([]hierarchy.Edge, []hierarchy.Position) {
	edges := make([]hierarchy.Edge, len(d.Relationships))
	for i, r := range d.Relationships {
		edges[i] = hierarchy.Edge{ID: r.ID, ChildID: r.ChildID, ParentID: r.ParentID, Active: r.Active}
	}
	positions := make([]hierarchy.Position, len(d.Positions))
	for i, p := range d.Positions {
		positions[i] = hierarchy.Position{ID: p.ID, Name: p.Name, Active: p.Active}
	}
	return edges, positions
}

// Build runs the hierarchy builder over the document.
func (d Document) Build(includeInactive bool) hierarchy.Result {
	edges, positions := d.Hierarchy()
	return hierarchy.Build(edges, positions, includeInactive)
}

// FromHierarchy converts builder input back into a document.
func FromHierarchy(edges []hierarchy.Edge, positions []hierarchy.Position) Document {
	d := Document{
		Positions:     make([]Position, len(positions)),
		Relationships: make([]Relationship, len(edges)),
	}
	for i, p := range positions {
		d.Positions[i] = Position{ID: p.ID, Name: p.Name, Active: p.Active}
	}
	for i, e := range edges {
		d.Relationships[i] = Relationship{ID: e.ID, ChildID: e.ChildID, ParentID: e.ParentID, Active: e.Active}
	}
	return d
}

// Canonical returns the compact JSON encoding used for content hashing.
// Field order is fixed by the struct definitions and rows keep their order.
func (d Document) Canonical() []byte {
	data, _ := json.Marshal(d)
	return data
}
