// Package pkg holds the orgtree libraries.
//
// # Overview
//
// Orgtree turns flat lists of positions and "reports to" relationships into a
// single-rooted organization tree. Data-quality problems in the input never
// fail a build: cycles are closed with marker nodes, groups only reachable
// through a cycle are recovered as extra roots, and relationships pointing at
// missing positions are reported as diagnostics.
//
// # Architecture
//
// The typical data flow:
//
//	File / MongoDB / REST API
//	         ↓
//	    [source] package (load positions and relationships)
//	         ↓
//	    [hierarchy] package (filter, find roots, build, wrap)
//	         ↓
//	    [render] packages (DOT, SVG, PDF, PNG, text outline)
//
// [pipeline] ties the stages together with caching, and [server] exposes the
// pipeline over HTTP.
//
// # Quick Start
//
//	import "github.com/matzehuels/orgtree/pkg/hierarchy"
//
//	res := hierarchy.Build(edges, positions, false)
//	for _, d := range res.Diagnostics {
//	    fmt.Println(d.Kind, d.Message)
//	}
//
// # Main Packages
//
// [hierarchy] - The pure tree builder. No I/O and no logging.
//
// [graph] - Input documents (JSON, TOML, BSON tags) and tree serialization.
//
// [source] - Loaders for files, MongoDB collections and REST endpoints.
//
// [cache] - File, Redis and null caches keyed by content hash.
//
// [pipeline] - Load → build → render orchestration shared by CLI and API.
//
// [server] - chi-based HTTP API.
//
// [config] - TOML configuration.
//
// [errors], [observability], [httputil] and [buildinfo] are supporting
// packages.
package pkg
