package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/orgtree/pkg/graph"
	"github.com/matzehuels/orgtree/pkg/hierarchy"
	"github.com/matzehuels/orgtree/pkg/observability"
	"github.com/matzehuels/orgtree/pkg/render"
	"github.com/matzehuels/orgtree/pkg/render/nodelink"
	"github.com/matzehuels/orgtree/pkg/render/outline"
)

// Render generates artifacts for the given formats. The DOT source and SVG
// are produced at most once and shared by the formats derived from them.
func Render(ctx context.Context, res hierarchy.Result, formats []string, detailed bool) (map[string][]byte, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, formats)
	start := time.Now()

	artifacts, err := renderAll(ctx, res, formats, detailed)
	hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
	return artifacts, err
}

func renderAll(ctx context.Context, res hierarchy.Result, formats []string, detailed bool) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))

	var dot string
	dotSource := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(res.Tree, nodelink.Options{Detailed: detailed})
		}
		return dot
	}

	var svg []byte
	svgBytes := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = nodelink.RenderSVG(ctx, dotSource())
		return svg, err
	}

	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = graph.MarshalTree(res.Tree)
		case FormatDOT:
			data = []byte(dotSource())
		case FormatText:
			data = []byte(outline.Render(res.Tree, outline.Options{Detailed: detailed}))
		case FormatSVG:
			data, err = svgBytes()
		case FormatPDF:
			if data, err = svgBytes(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		case FormatPNG:
			if data, err = svgBytes(); err == nil {
				data, err = render.ToPNG(ctx, data, PNGScale)
			}
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
