// Package topology summarizes the shape of a node graph: how many connected
// pieces it has and whether data can flow through it in a single pass.
//
// Analysis runs on a gonum directed graph built from the leaves and links of
// a [graph.NodeContainer]. Groups are ignored; every leaf at any depth is a
// vertex and every link between two of them an edge.
package topology

import (
	"slices"

	gograph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/nodegraph/pkg/graph"
)

// Report describes the structure of a container.
type Report struct {
	Leaves int // number of leaves at any depth
	Links  int // number of links with both endpoints inside

	// Components is the number of weakly connected components.
	// An empty container has zero components.
	Components int

	// Acyclic reports whether no directed cycle exists, including self-loops.
	Acyclic bool

	// Order lists leaves so that every link points forward. It is nil when
	// the graph is cyclic. Ties are broken by creation order.
	Order []*graph.Leaf

	// Sources and Sinks count leaves without incoming and outgoing links.
	// A self-loop is both, so such a leaf is neither a source nor a sink.
	Sources int
	Sinks   int
}

// Analyze computes a [Report] for c.
func Analyze(c graph.NodeContainer) Report {
	leaves := c.AllLeaves()
	graph.SortLeaves(leaves)
	links := graph.AllLinks(c)

	index := make(map[*graph.Leaf]int64, len(leaves))
	dg := simple.NewDirectedGraph()
	for i, l := range leaves {
		index[l] = int64(i)
		dg.AddNode(simple.Node(i))
	}

	// simple.DirectedGraph rejects self edges, so loops are tracked here.
	loops := make(map[int64]bool)
	r := Report{Leaves: len(leaves), Links: len(links), Acyclic: true}
	for _, link := range links {
		from := index[link.Output().Leaf()]
		to := index[link.Input().Leaf()]
		if from == to {
			r.Acyclic = false
			loops[from] = true
			continue
		}
		if !dg.HasEdgeFromTo(from, to) {
			dg.SetEdge(dg.NewEdge(simple.Node(from), simple.Node(to)))
		}
	}

	r.Components = len(topo.ConnectedComponents(gograph.Undirect{G: dg}))

	for _, l := range leaves {
		id := index[l]
		if loops[id] {
			continue
		}
		if dg.To(id).Len() == 0 {
			r.Sources++
		}
		if dg.From(id).Len() == 0 {
			r.Sinks++
		}
	}

	sorted, err := topo.SortStabilized(dg, byID)
	if err != nil {
		r.Acyclic = false
	}
	if r.Acyclic {
		r.Order = make([]*graph.Leaf, len(sorted))
		for i, n := range sorted {
			r.Order[i] = leaves[n.ID()]
		}
	}
	return r
}

func byID(nodes []gograph.Node) {
	slices.SortFunc(nodes, func(a, b gograph.Node) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
}
