package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/render/nodelink"
)

// renderContainer draws c in the requested format.
func renderContainer(ctx context.Context, c graph.NodeContainer, opts Options) ([]byte, error) {
	dot := nodelink.ToDOT(c, nodelink.Options{
		Detailed: opts.Detailed,
		Clusters: opts.Clusters,
	})

	switch opts.Format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot, opts.Scale)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	default:
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
}
