package graph

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	// ErrNilPin is returned by [CreateLink] when an endpoint is nil.
	ErrNilPin = errors.New("pin must not be nil")

	// ErrPinAlreadyLinked is returned by [CreateLink] when an endpoint already
	// holds a link. A pin carries at most one link at a time.
	ErrPinAlreadyLinked = errors.New("pin already linked")

	// ErrAlreadyParented is returned by [NewGroup] and [NewGraph] when a member
	// already belongs to a group or graph.
	ErrAlreadyParented = errors.New("member already belongs to a container")

	// ErrNilMember is returned by [NewGroup] and [NewGraph] for nil members.
	ErrNilMember = errors.New("member must not be nil")
)

var seq atomic.Uint64

// nextSeq returns the next creation sequence number. Sequence numbers are
// process-wide so that ordering stays total across independently built graphs.
func nextSeq() uint64 { return seq.Add(1) }

// NodeContainer is implemented by [Graph] and [Group].
type NodeContainer interface {
	// Leaves returns the leaves owned directly by the container.
	Leaves() []*Leaf
	// Groups returns the groups owned directly by the container.
	Groups() []*Group
	// Links returns links whose endpoints both sit on direct leaves.
	Links() []*Link
	// AllLeaves returns every leaf at any depth.
	AllLeaves() []*Leaf
}

var (
	_ NodeContainer = (*Graph)(nil)
	_ NodeContainer = (*Group)(nil)
)

// Graph is the top-level container of leaves and groups.
//
// The zero value is an empty graph.
type Graph struct {
	leaves []*Leaf
	groups []*Group
}

// NewGraph creates a graph owning leaves and groups. Members must not belong
// to another container; see [NewGroup] for the errors returned.
func NewGraph(leaves []*Leaf, groups []*Group) (*Graph, error) {
	ls, gs, err := adopt(leaves, groups)
	if err != nil {
		return nil, fmt.Errorf("graph: %w", err)
	}
	for _, l := range ls {
		l.owned = true
	}
	for _, g := range gs {
		g.owned = true
	}
	return &Graph{leaves: ls, groups: gs}, nil
}

// Leaves returns the top-level leaves. The returned slice must not be modified.
func (g *Graph) Leaves() []*Leaf { return g.leaves }

// Groups returns the top-level groups. The returned slice must not be modified.
func (g *Graph) Groups() []*Group { return g.groups }

// Links returns the links between top-level leaves.
func (g *Graph) Links() []*Link { return directLinks(g.leaves) }

// AllLeaves returns every leaf in the graph, including grouped ones.
func (g *Graph) AllLeaves() []*Leaf { return collectLeaves(g.leaves, g.groups) }

func collectGroups(groups []*Group) []*Group {
	var all []*Group
	for _, g := range groups {
		all = append(all, g)
		all = append(all, collectGroups(g.groups)...)
	}
	return all
}

// AllLinks returns every link whose endpoints both lie inside c at any depth,
// in creation order. Links leaving c are not included.
func AllLinks(c NodeContainer) []*Link {
	leaves := c.AllLeaves()
	inside := make(map[*Leaf]bool, len(leaves))
	for _, l := range leaves {
		inside[l] = true
	}
	var links []*Link
	for _, l := range leaves {
		for _, out := range l.outputs {
			if out.link != nil && inside[out.link.input.leaf] {
				links = append(links, out.link)
			}
		}
	}
	SortLinks(links)
	return links
}

// AllGroups returns every group in c at any depth, parents before children.
func AllGroups(c NodeContainer) []*Group { return collectGroups(c.Groups()) }
