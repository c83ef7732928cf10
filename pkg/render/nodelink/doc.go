// Package nodelink renders node graphs as Graphviz diagrams.
//
// # Overview
//
// Each leaf becomes a record node with one port per pin: inputs on the
// left, the leaf name in the middle and outputs on the right. Links become
// edges between the matching ports, so the diagram shows exactly which pin
// feeds which.
//
//	Container → ToDOT() → DOT → RenderSVG() → SVG
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Clusters: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: label ports with their pin names and show the leaf kind
//   - Clusters: draw each group as a Graphviz cluster around its members
//
// # Compacted Leaves
//
// Synthetic leaves produced by graph compaction are drawn with dashed
// outlines and grey fill to distinguish them from regular leaves.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
