// Package nodelink renders organization charts as node-link diagrams.
//
// # Usage
//
// Convert a built forest to DOT, then render to SVG:
//
//	res := hierarchy.Build(edges, positions, false)
//	dot := nodelink.ToDOT(res.Tree, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Styling
//
// Positions are drawn as rounded boxes with reporting lines pointing from
// manager to report. Special nodes are styled so problems in the data
// stand out:
//
//   - virtual root: dotted outline
//   - cycle marker: dashed red box on a dashed edge
//   - isolated cycle root: orange outline on yellow
//   - inactive position: grey
//
// With [Options].Detailed, labels list the position id and attributes and
// edges carry the relationship id.
//
// # Dependencies
//
// SVG rendering runs in-process through [github.com/goccy/go-graphviz].
package nodelink
