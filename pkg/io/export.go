package io

import (
	"github.com/matzehuels/nodegraph/pkg/graph"
)

var kindToString = map[graph.Kind]string{
	graph.KindCompacted: "compacted",
}

// FromContainer converts a node container into a document.
//
// All leaves, groups and links inside c are exported, ordered by creation.
// Membership in groups outside c (for example the group c itself) is not
// recorded, so the result is a self-contained document.
func FromContainer(c graph.NodeContainer) Document {
	ids := graph.AssignIDs(c)

	groups := graph.AllGroups(c)
	graph.SortGroups(groups)
	leaves := c.AllLeaves()
	graph.SortLeaves(leaves)
	links := graph.AllLinks(c)

	doc := Document{
		Leaves: make([]LeafSpec, 0, len(leaves)),
	}
	for _, g := range groups {
		gs := GroupSpec{ID: ids.Groups[g]}
		if p := g.Parent(); p != nil {
			gs.Parent = ids.Groups[p]
		}
		doc.Groups = append(doc.Groups, gs)
	}
	for _, l := range leaves {
		ls := LeafSpec{
			ID:      ids.Leaves[l],
			Inputs:  len(l.Inputs()),
			Outputs: len(l.Outputs()),
			Kind:    kindToString[l.Kind()],
		}
		if p := l.Parent(); p != nil {
			ls.Group = ids.Groups[p]
		}
		doc.Leaves = append(doc.Leaves, ls)
	}
	for _, lk := range links {
		out, in := lk.Output(), lk.Input()
		doc.Links = append(doc.Links, LinkSpec{
			From: ids.Leaves[out.Leaf()],
			Out:  out.ID(),
			To:   ids.Leaves[in.Leaf()],
			In:   in.ID(),
		})
	}
	return doc
}
