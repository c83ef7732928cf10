package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/nodegraph/pkg/graph"
)

func buildVoice(t *testing.T) *graph.Graph {
	t.Helper()
	osc := graph.NewLeaf("osc", 0, 1)
	filter := graph.NewLeaf("filter", 1, 1)
	amp := graph.NewLeaf("amp", 1, 1)
	out := graph.NewLeaf("out", 1, 0)
	for _, pair := range [][2]*graph.Leaf{{osc, filter}, {filter, amp}, {amp, out}} {
		if _, err := graph.CreateLink(pair[0].Outputs()[0], pair[1].Inputs()[0]); err != nil {
			t.Fatalf("CreateLink() error = %v", err)
		}
	}
	voice, err := graph.NewGroup("voice", []*graph.Leaf{filter, amp}, nil)
	if err != nil {
		t.Fatalf("NewGroup() error = %v", err)
	}
	g, err := graph.NewGraph([]*graph.Leaf{osc, out}, []*graph.Group{voice})
	if err != nil {
		t.Fatalf("NewGraph() error = %v", err)
	}
	return g
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(buildVoice(t), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, "rankdir=LR") {
		t.Error("ToDOT() output should lay out left to right")
	}
	for _, id := range []string{"osc", "filter", "amp", "out"} {
		if !strings.Contains(dot, `"`+id+`" [`) {
			t.Errorf("ToDOT() output missing node %s", id)
		}
	}
	for _, edge := range []string{`"osc":o0 -> "filter":i0`, `"filter":o0 -> "amp":i0`, `"amp":o0 -> "out":i0`} {
		if !strings.Contains(dot, edge) {
			t.Errorf("ToDOT() output missing edge %s", edge)
		}
	}
	if strings.Contains(dot, "subgraph") {
		t.Error("ToDOT() without clusters should not emit subgraphs")
	}
}

func TestToDOT_Clusters(t *testing.T) {
	dot := ToDOT(buildVoice(t), Options{Clusters: true})

	if !strings.Contains(dot, `subgraph "cluster_voice"`) {
		t.Errorf("ToDOT() missing voice cluster:\n%s", dot)
	}
	start := strings.Index(dot, `subgraph "cluster_voice"`)
	cluster := dot[start:]
	if !strings.Contains(cluster, `"filter" [`) || !strings.Contains(cluster, `"amp" [`) {
		t.Error("voice cluster should contain filter and amp")
	}
	if strings.Index(dot, `"osc" [`) > start {
		t.Error("osc should be declared outside the cluster")
	}
}

func TestToDOT_Compacted(t *testing.T) {
	g, err := graph.NewGraph([]*graph.Leaf{graph.NewCompactedLeaf("voice", 1, 1)}, nil)
	if err != nil {
		t.Fatalf("NewGraph() error = %v", err)
	}

	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, "dashed") {
		t.Error("ToDOT() compacted leaf missing dashed style")
	}
	if !strings.Contains(dot, "lightgrey") {
		t.Error("ToDOT() compacted leaf missing lightgrey fill")
	}
}

func TestFmtLabel(t *testing.T) {
	tests := []struct {
		name     string
		leaf     *graph.Leaf
		id       string
		detailed bool
		want     string
	}{
		{"simple", graph.NewLeaf("mix", 2, 1), "mix", false, "{{<i0> |<i1> }|mix|{<o0> }}"},
		{"source", graph.NewLeaf("osc", 0, 1), "osc", false, "{osc|{<o0> }}"},
		{"sink", graph.NewLeaf("out", 1, 0), "out", false, "{{<i0> }|out}"},
		{"detailed", graph.NewLeaf("amp", 1, 1), "amp", true, `{{<i0> in0}|amp\nregular|{<o0> out0}}`},
		{"escaped", graph.NewLeaf("a|b", 0, 0), "a|b", false, `{a\|b}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtLabel(tt.id, tt.leaf, tt.detailed); got != tt.want {
				t.Errorf("fmtLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFmtAttrs(t *testing.T) {
	regular := fmtAttrs(graph.NewLeaf("a", 0, 0), "a")
	if len(regular) != 1 {
		t.Errorf("fmtAttrs() regular leaf should have 1 attr, got %d", len(regular))
	}

	compacted := fmtAttrs(graph.NewCompactedLeaf("g", 0, 0), "g")
	if len(compacted) != 4 {
		t.Errorf("fmtAttrs() compacted leaf should have 4 attrs, got %d: %v", len(compacted), compacted)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(buildVoice(t), Options{Clusters: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}

	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), `not valid DOT {{{`)
	if err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
