package graph

import (
	"cmp"
	"fmt"
	"slices"
)

// Group is a container of leaves and nested groups.
//
// Membership is fixed at construction: [NewGroup] sets the parent of every
// member, and a leaf or group can belong to at most one group.
type Group struct {
	seq    uint64
	name   string
	leaves []*Leaf
	groups []*Group
	parent *Group
	owned  bool
}

// NewGroup creates a group owning leaves and groups.
// It returns ErrAlreadyParented if a member already belongs to another group
// or graph, and ErrNilMember for nil entries. Duplicate members are ignored.
func NewGroup(name string, leaves []*Leaf, groups []*Group) (*Group, error) {
	g := &Group{seq: nextSeq(), name: name}
	ls, gs, err := adopt(leaves, groups)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", name, err)
	}
	for _, l := range ls {
		l.parent, l.owned = g, true
	}
	for _, sub := range gs {
		sub.parent, sub.owned = g, true
	}
	g.leaves, g.groups = ls, gs
	return g, nil
}

// adopt validates candidate members and returns them deduplicated and in
// creation order. It does not modify the members.
func adopt(leaves []*Leaf, groups []*Group) ([]*Leaf, []*Group, error) {
	ls := make([]*Leaf, 0, len(leaves))
	seenLeaf := make(map[*Leaf]bool, len(leaves))
	for _, l := range leaves {
		if l == nil {
			return nil, nil, ErrNilMember
		}
		if l.owned {
			return nil, nil, fmt.Errorf("%w: leaf %s", ErrAlreadyParented, l)
		}
		if !seenLeaf[l] {
			seenLeaf[l] = true
			ls = append(ls, l)
		}
	}
	gs := make([]*Group, 0, len(groups))
	seenGroup := make(map[*Group]bool, len(groups))
	for _, g := range groups {
		if g == nil {
			return nil, nil, ErrNilMember
		}
		if g.owned {
			return nil, nil, fmt.Errorf("%w: group %s", ErrAlreadyParented, g)
		}
		if !seenGroup[g] {
			seenGroup[g] = true
			gs = append(gs, g)
		}
	}
	SortLeaves(ls)
	SortGroups(gs)
	return ls, gs, nil
}

// Name returns the display name given at construction. It may be empty.
func (g *Group) Name() string { return g.name }

// Parent returns the enclosing group, or nil for a top-level group.
func (g *Group) Parent() *Group { return g.parent }

// Leaves returns the leaves owned directly by the group.
// The returned slice must not be modified.
func (g *Group) Leaves() []*Leaf { return g.leaves }

// Groups returns the groups nested directly in the group.
// The returned slice must not be modified.
func (g *Group) Groups() []*Group { return g.groups }

// AllLeaves returns every leaf inside the group, including those of nested
// groups at any depth. Direct leaves come first, then each nested group in
// order.
func (g *Group) AllLeaves() []*Leaf {
	return collectLeaves(g.leaves, g.groups)
}

// Links returns links whose endpoints both belong to leaves owned directly
// by the group.
func (g *Group) Links() []*Link {
	return directLinks(g.leaves)
}

// Contains reports whether l lies inside g at any depth.
func (g *Group) Contains(l *Leaf) bool {
	for p := l.parent; p != nil; p = p.parent {
		if p == g {
			return true
		}
	}
	return false
}

// ExternalLinks returns the links crossing the group boundary: exactly one
// endpoint on a leaf inside the group, the other outside.
// Links are returned in creation order.
func (g *Group) ExternalLinks() []*Link {
	var links []*Link
	for _, l := range g.AllLeaves() {
		for _, out := range l.outputs {
			if out.link != nil && !g.Contains(out.link.input.leaf) {
				links = append(links, out.link)
			}
		}
		for _, in := range l.inputs {
			if in.link != nil && !g.Contains(in.link.output.leaf) {
				links = append(links, in.link)
			}
		}
	}
	SortLinks(links)
	return links
}

// Compare orders groups by creation. It is the total order used whenever
// groups are processed one after another.
func (g *Group) Compare(other *Group) int { return cmp.Compare(g.seq, other.seq) }

func (g *Group) String() string {
	if g.name != "" {
		return g.name
	}
	return fmt.Sprintf("group-%d", g.seq)
}

// SortGroups sorts groups by [Group.Compare].
func SortGroups(groups []*Group) {
	slices.SortFunc(groups, (*Group).Compare)
}

func collectLeaves(leaves []*Leaf, groups []*Group) []*Leaf {
	all := slices.Clone(leaves)
	for _, g := range groups {
		all = append(all, g.AllLeaves()...)
	}
	return all
}

func directLinks(leaves []*Leaf) []*Link {
	direct := make(map[*Leaf]bool, len(leaves))
	for _, l := range leaves {
		direct[l] = true
	}
	var links []*Link
	for _, l := range leaves {
		for _, out := range l.outputs {
			if out.link != nil && direct[out.link.input.leaf] {
				links = append(links, out.link)
			}
		}
	}
	SortLinks(links)
	return links
}
