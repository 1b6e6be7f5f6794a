// Package hierarchy turns a flat set of "position reports to position"
// relationships into a single-rooted, renderable organization tree.
//
// # Overview
//
// Organizational data entered through CRUD forms is rarely clean: positions
// report to themselves, chains loop back on each other, several top-level
// positions coexist, and soft-deleted rows linger. [Build] accepts all of it
// and always terminates with a deterministic tree that a rendering component
// can paint directly.
//
// The pipeline runs in dependency order:
//
//  1. [Filter] drops inactive relationships and positions unless inactive
//     rows were requested.
//  2. [NewAdjacency] indexes children by parent (in input order) and the
//     relationship id by child (last relationship wins).
//  3. Roots are the relevant positions that never appear as the child of a
//     resolvable relationship.
//  4. A depth-first constructor builds each root, emitting a terminal
//     "(Ciclo)" marker whenever a position reappears on its own path.
//  5. A [Visited] accumulator records every id placed in some tree.
//  6. Cycles never reached from a root are force-rooted at their first
//     listed member and labelled "(Ciclo Aislado)". Positions hanging
//     below such a cycle are placed by its tree, never forced themselves.
//  7. All trees are wrapped under one synthetic "Organización" node with
//     id [VirtualRootID].
//
// # Usage
//
//	res := hierarchy.Build(edges, positions, false)
//	for _, d := range res.Diagnostics {
//	    log.Warn(d.Message, "kind", d.Kind)
//	}
//	render(res.Tree)
//
// [BuildTree] returns only the tree for callers that do not need diagnostics.
//
// # Output Contract
//
// Attribute keys and values are consumed verbatim by the rendering
// collaborator and are therefore fixed: see [AttrStatus], [AttrID],
// [AttrOrgID], [AttrWarning] and [AttrType]. A node carrying [AttrOrgID]
// can be detached from its parent by deleting that relationship id.
//
// # Diagnostics
//
// Nothing in this package returns an error or logs. Malformed data is
// reported through [Result.Diagnostics]: dangling references, cycle markers,
// forced isolated-cycle roots and children claimed by several relationships.
//
// # Concurrency
//
// Build keeps all state in per-call values. Concurrent calls are safe as
// long as the input slices are not mutated while a call is running.
package hierarchy
