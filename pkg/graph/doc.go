// Package graph provides the serialization types for organization data.
//
// This package defines the canonical wire format consumed and produced by
// orgtree: the input [Document] (positions plus relationships, as returned by
// the console's list-all endpoints) and the built tree with its diagnostics.
//
// # Architecture
//
// The package sits at the serialization boundary:
//
//   - [Document], [Position], [Relationship]: wire types (this package)
//   - pkg/hierarchy.Position, Edge, TreeNode: builder types
//
// Use [Document.Hierarchy] and [FromHierarchy] to convert between them.
//
// # Document Format
//
// JSON documents use the console's field names:
//
//	{
//	  "positions":     [{"id": 1, "name": "CEO", "active": true}],
//	  "relationships": [{"id": 10, "childId": 2, "parentId": 1, "active": true}]
//	}
//
// The same document may be written as TOML using [[positions]] and
// [[relationships]] tables. [ReadDocumentFile] picks the decoder from the
// file extension.
//
// A missing "active" field decodes as false, so inactive-by-default rows are
// dropped unless inactive rows are requested.
//
// # Concurrency
//
// All functions are safe for concurrent use.
package graph
