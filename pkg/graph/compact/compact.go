package compact

import (
	"fmt"

	"github.com/matzehuels/nodegraph/pkg/graph"
)

// Stats reports what a compaction did.
type Stats struct {
	// GroupsCompacted is the number of top-level groups replaced by a synthetic leaf.
	GroupsCompacted int

	// LeavesCopied is the number of top-level leaves copied one to one.
	LeavesCopied int

	// LinksConsidered is the number of distinct links eligible for copying:
	// links between top-level leaves plus the external links of every group.
	LinksConsidered int

	// LinksCopied is the number of links recreated in the compacted graph.
	LinksCopied int

	// LinksDropped is LinksConsidered minus LinksCopied. A non-zero value
	// means at least one endpoint had no counterpart in the compacted graph.
	LinksDropped int
}

// Compacter holds a compacted copy of a node container and the lookup tables
// between the original and the copy.
//
// A Compacter is immutable after [New] returns and safe for concurrent reads.
type Compacter struct {
	graph *graph.Graph

	copies    map[*graph.Leaf]*graph.Leaf  // original leaf -> copy
	originals map[*graph.Leaf]*graph.Leaf  // copy -> original leaf
	groups    map[*graph.Group]*graph.Leaf // original group -> synthetic leaf
	members   map[*graph.Leaf]*graph.Group // synthetic leaf -> original group
	order     []*graph.Leaf                // synthetic leaves in group order

	stats Stats
}

// New compacts container. Each group owned directly by container becomes a
// synthetic leaf, each leaf owned directly by container is copied, and links
// are recreated between the copies.
//
// The container must not be modified while New runs. New panics if recreating
// a link fails, which can only happen if the port accounting is wrong.
func New(container graph.NodeContainer) *Compacter {
	c := &Compacter{
		copies:    make(map[*graph.Leaf]*graph.Leaf),
		originals: make(map[*graph.Leaf]*graph.Leaf),
		groups:    make(map[*graph.Group]*graph.Leaf),
		members:   make(map[*graph.Leaf]*graph.Group),
	}

	groups := append([]*graph.Group(nil), container.Groups()...)
	graph.SortGroups(groups)
	for _, g := range groups {
		leaf := compactGroup(g)
		c.groups[g] = leaf
		c.members[leaf] = g
		c.order = append(c.order, leaf)
	}

	var copies []*graph.Leaf
	for _, l := range container.Leaves() {
		cp := l.Copy()
		c.copies[l] = cp
		c.originals[cp] = l
		copies = append(copies, cp)
	}

	for _, link := range linksToCopy(container, groups) {
		c.stats.LinksConsidered++
		if c.copyLink(link) {
			c.stats.LinksCopied++
		}
	}
	c.stats.LinksDropped = c.stats.LinksConsidered - c.stats.LinksCopied
	c.stats.GroupsCompacted = len(c.order)
	c.stats.LeavesCopied = len(copies)

	g, err := graph.NewGraph(append(append([]*graph.Leaf(nil), c.order...), copies...), nil)
	if err != nil {
		panic(fmt.Errorf("compact: assemble graph: %w", err))
	}
	c.graph = g
	return c
}

// Graph returns the compacted graph. It contains leaves only.
func (c *Compacter) Graph() *graph.Graph { return c.graph }

// OriginalOf returns the original leaf of a copied top-level leaf.
// It returns false for synthetic leaves and unknown leaves.
func (c *Compacter) OriginalOf(cp *graph.Leaf) (*graph.Leaf, bool) {
	l, ok := c.originals[cp]
	return l, ok
}

// CopyOf returns the copy of an original top-level leaf.
func (c *Compacter) CopyOf(original *graph.Leaf) (*graph.Leaf, bool) {
	l, ok := c.copies[original]
	return l, ok
}

// CompactedGroup returns the synthetic leaf standing in for a top-level group.
func (c *Compacter) CompactedGroup(g *graph.Group) (*graph.Leaf, bool) {
	l, ok := c.groups[g]
	return l, ok
}

// GroupOf returns the original group a synthetic leaf stands in for.
func (c *Compacter) GroupOf(synthetic *graph.Leaf) (*graph.Group, bool) {
	g, ok := c.members[synthetic]
	return g, ok
}

// CompactedGroups returns all synthetic leaves, in group order.
func (c *Compacter) CompactedGroups() []*graph.Leaf {
	return append([]*graph.Leaf(nil), c.order...)
}

// Stats returns the diagnostic counters collected during compaction.
func (c *Compacter) Stats() Stats { return c.stats }

// compactGroup creates the synthetic leaf for g. Its pin counts are the free
// pins inside g plus one pin per boundary-crossing link of that direction.
func compactGroup(g *graph.Group) *graph.Leaf {
	return graph.NewCompactedLeaf(g.Name(),
		compositeCount(g, (*graph.Leaf).Inputs, (*graph.Link).Input),
		compositeCount(g, (*graph.Leaf).Outputs, (*graph.Link).Output))
}

// compositeCount counts the pins of one direction a compacted g exposes.
// pins and endpoint must select the same direction.
func compositeCount[P graph.Pin](g *graph.Group, pins func(*graph.Leaf) []P, endpoint func(*graph.Link) P) int {
	n := 0
	for _, l := range g.AllLeaves() {
		for _, p := range pins(l) {
			if !p.IsLinked() {
				n++
			}
		}
	}
	for _, link := range g.ExternalLinks() {
		if g.Contains(endpoint(link).Leaf()) {
			n++
		}
	}
	return n
}

// linksToCopy returns the links between direct leaves of container plus the
// external links of groups, deduplicated and in creation order.
func linksToCopy(container graph.NodeContainer, groups []*graph.Group) []*graph.Link {
	seen := make(map[*graph.Link]bool)
	var links []*graph.Link
	add := func(ls []*graph.Link) {
		for _, l := range ls {
			if !seen[l] {
				seen[l] = true
				links = append(links, l)
			}
		}
	}
	add(container.Links())
	for _, g := range groups {
		add(g.ExternalLinks())
	}
	graph.SortLinks(links)
	return links
}

// copyLink recreates link in the compacted graph and reports whether it did.
func (c *Compacter) copyLink(link *graph.Link) bool {
	in, inOK := copiedPin(c, link.Input(), (*graph.Leaf).Inputs)
	out, outOK := copiedPin(c, link.Output(), (*graph.Leaf).Outputs)
	if !inOK || !outOK {
		return false
	}
	if _, err := graph.CreateLink(out, in); err != nil {
		panic(fmt.Errorf("compact: copy link %s: %w", link, err))
	}
	return true
}

// copiedPin returns the pin of the compacted graph that takes over p.
//
// If p's leaf was copied, the copy's pin at the same index is returned. If
// the leaf's own parent group was compacted, that group's synthetic leaf
// provides its first unlinked pin of the same direction. Leaves nested more
// deeply have no counterpart, and ok is false.
func copiedPin[P graph.Pin](c *Compacter, p P, pins func(*graph.Leaf) []P) (P, bool) {
	var zero P
	leaf := p.Leaf()
	if cp, found := c.copies[leaf]; found {
		return pins(cp)[p.ID()], true
	}
	parent := leaf.Parent()
	if parent == nil {
		return zero, false
	}
	synthetic, found := c.groups[parent]
	if !found {
		return zero, false
	}
	for _, candidate := range pins(synthetic) {
		if !candidate.IsLinked() {
			return candidate, true
		}
	}
	return zero, false
}
