// Package render converts rendered node graphs between output formats.
//
// # Overview
//
// Node graphs are drawn by the [nodelink] subpackage, which produces
// Graphviz DOT and renders it to SVG in-process. This package converts SVG
// to raster and print formats:
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Dependencies
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert from librsvg:
//
//	macOS:  brew install librsvg
//	Linux:  apt install librsvg2-bin
//
// [nodelink]: github.com/matzehuels/nodegraph/pkg/render/nodelink
package render
