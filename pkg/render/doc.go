// Package render turns built organization charts into viewable artifacts.
//
// # Subpackages
//
//   - [nodelink]: Graphviz DOT export and in-process SVG rendering
//   - [outline]: indented terminal outlines styled with lipgloss
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG produced by [nodelink] using the
// external rsvg-convert tool from librsvg:
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// When rsvg-convert is missing both return an UNSUPPORTED error.
//
// [nodelink]: github.com/matzehuels/orgtree/pkg/render/nodelink
// [outline]: github.com/matzehuels/orgtree/pkg/render/outline
package render
