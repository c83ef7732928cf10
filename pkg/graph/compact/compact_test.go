package compact

import (
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/nodegraph/pkg/graph"
)

func mustLink(t *testing.T, out *graph.Output, in *graph.Input) *graph.Link {
	t.Helper()
	l, err := graph.CreateLink(out, in)
	if err != nil {
		t.Fatalf("CreateLink(%s, %s) error = %v", out, in, err)
	}
	return l
}

func mustGroup(t *testing.T, name string, leaves []*graph.Leaf, groups ...*graph.Group) *graph.Group {
	t.Helper()
	g, err := graph.NewGroup(name, leaves, groups)
	if err != nil {
		t.Fatalf("NewGroup(%s) error = %v", name, err)
	}
	return g
}

func mustGraph(t *testing.T, leaves []*graph.Leaf, groups ...*graph.Group) *graph.Graph {
	t.Helper()
	g, err := graph.NewGraph(leaves, groups)
	if err != nil {
		t.Fatalf("NewGraph() error = %v", err)
	}
	return g
}

func TestNew_TopLevelLeaves(t *testing.T) {
	l1 := graph.NewLeaf("l1", 0, 1)
	l2 := graph.NewLeaf("l2", 1, 0)
	mustLink(t, l1.Outputs()[0], l2.Inputs()[0])
	g := mustGraph(t, []*graph.Leaf{l1, l2})

	c := New(g)

	if got := len(c.Graph().Leaves()); got != 2 {
		t.Fatalf("Leaves() = %d, want 2", got)
	}
	if got := len(c.CompactedGroups()); got != 0 {
		t.Errorf("CompactedGroups() = %d, want 0", got)
	}
	links := c.Graph().Links()
	if len(links) != 1 {
		t.Fatalf("Links() = %d, want 1", len(links))
	}
	c1, _ := c.CopyOf(l1)
	c2, _ := c.CopyOf(l2)
	if links[0].Output() != c1.Outputs()[0] || links[0].Input() != c2.Inputs()[0] {
		t.Errorf("copied link = %v, want %s.out0 -> %s.in0", links[0], c1, c2)
	}
}

func TestNew_InternalGroup(t *testing.T) {
	a := graph.NewLeaf("a", 2, 0)
	grp := mustGroup(t, "grp", []*graph.Leaf{a})
	g := mustGraph(t, nil, grp)

	c := New(g)

	leaf, ok := c.CompactedGroup(grp)
	if !ok {
		t.Fatal("CompactedGroup() not found")
	}
	if len(leaf.Inputs()) != 2 || len(leaf.Outputs()) != 0 {
		t.Errorf("compacted pins = %d/%d, want 2/0", len(leaf.Inputs()), len(leaf.Outputs()))
	}
	if !leaf.IsCompacted() || leaf.Name() != "grp" {
		t.Errorf("compacted leaf = %s (kind %v)", leaf.Name(), leaf.Kind())
	}
}

func TestNew_GroupLinkedOutside(t *testing.T) {
	a := graph.NewLeaf("a", 0, 1)
	b := graph.NewLeaf("b", 1, 0)
	mustLink(t, a.Outputs()[0], b.Inputs()[0])
	grp := mustGroup(t, "grp", []*graph.Leaf{a})
	g := mustGraph(t, []*graph.Leaf{b}, grp)

	c := New(g)

	synthetic, _ := c.CompactedGroup(grp)
	if got := len(synthetic.Outputs()); got != 1 {
		t.Errorf("compacted outputs = %d, want 1", got)
	}
	bc, ok := c.CopyOf(b)
	if !ok || len(bc.Inputs()) != 1 {
		t.Fatalf("CopyOf(b) = %v, %v", bc, ok)
	}
	links := graph.AllLinks(c.Graph())
	if len(links) != 1 {
		t.Fatalf("AllLinks() = %d, want 1", len(links))
	}
	if links[0].Output() != synthetic.Outputs()[0] || links[0].Input() != bc.Inputs()[0] {
		t.Errorf("link = %v", links[0])
	}
	if s := c.Stats(); s.LinksConsidered != 1 || s.LinksCopied != 1 || s.LinksDropped != 0 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestNew_PortCountConservation(t *testing.T) {
	// src --> [ x --> y ] --> sink
	//              y.out1 free, x.in1 free
	src := graph.NewLeaf("src", 0, 2)
	x := graph.NewLeaf("x", 2, 1)
	y := graph.NewLeaf("y", 2, 2)
	sink := graph.NewLeaf("sink", 1, 0)
	mustLink(t, src.Outputs()[0], x.Inputs()[0])
	mustLink(t, src.Outputs()[1], y.Inputs()[1])
	mustLink(t, x.Outputs()[0], y.Inputs()[0])
	mustLink(t, y.Outputs()[0], sink.Inputs()[0])
	grp := mustGroup(t, "grp", []*graph.Leaf{x, y})
	g := mustGraph(t, []*graph.Leaf{src, sink}, grp)

	c := New(g)

	for _, group := range g.Groups() {
		leaf, _ := c.CompactedGroup(group)
		wantIn, wantOut := expectedPorts(group)
		if len(leaf.Inputs()) != wantIn {
			t.Errorf("%s inputs = %d, want %d", group, len(leaf.Inputs()), wantIn)
		}
		if len(leaf.Outputs()) != wantOut {
			t.Errorf("%s outputs = %d, want %d", group, len(leaf.Outputs()), wantOut)
		}
	}
	// 1 free input (x.in1) + 2 incoming links; 1 free output (y.out1) + 1 outgoing link
	leaf, _ := c.CompactedGroup(grp)
	if len(leaf.Inputs()) != 3 || len(leaf.Outputs()) != 2 {
		t.Errorf("compacted pins = %d/%d, want 3/2", len(leaf.Inputs()), len(leaf.Outputs()))
	}
	if got := len(graph.AllLinks(c.Graph())); got != 3 {
		t.Errorf("AllLinks() = %d, want 3", got)
	}
}

func expectedPorts(g *graph.Group) (in, out int) {
	for _, l := range g.AllLeaves() {
		in += l.FreeInputs()
		out += l.FreeOutputs()
	}
	for _, link := range g.ExternalLinks() {
		if g.Contains(link.Input().Leaf()) {
			in++
		}
		if g.Contains(link.Output().Leaf()) {
			out++
		}
	}
	return in, out
}

func TestNew_LeafIdentityRoundTrip(t *testing.T) {
	leaves := []*graph.Leaf{
		graph.NewLeaf("a", 1, 1),
		graph.NewLeaf("b", 0, 3),
		graph.NewLeaf("c", 2, 0),
	}
	g := mustGraph(t, leaves)

	c := New(g)

	for _, l := range leaves {
		cp, ok := c.CopyOf(l)
		if !ok {
			t.Fatalf("CopyOf(%s) not found", l)
		}
		if orig, ok := c.OriginalOf(cp); !ok || orig != l {
			t.Errorf("OriginalOf(CopyOf(%s)) = %v", l, orig)
		}
	}
	for _, synthetic := range c.CompactedGroups() {
		if _, ok := c.OriginalOf(synthetic); ok {
			t.Errorf("OriginalOf(%s) should not resolve a synthetic leaf", synthetic)
		}
	}
}

func TestNew_NoDanglingLinks(t *testing.T) {
	g, _ := sampleGraph(t)

	c := New(g)

	present := make(map[*graph.Leaf]bool)
	for _, l := range c.Graph().Leaves() {
		present[l] = true
	}
	for _, l := range c.Graph().Leaves() {
		for _, link := range l.Links() {
			if !present[link.Output().Leaf()] || !present[link.Input().Leaf()] {
				t.Errorf("link %v has an endpoint outside the compacted graph", link)
			}
		}
	}
	if len(c.Graph().Groups()) != 0 {
		t.Error("compacted graph should not contain groups")
	}
}

func TestNew_FreePinAllocation(t *testing.T) {
	const n, k = 4, 3
	leaves := make([]*graph.Leaf, n)
	for i := range leaves {
		leaves[i] = graph.NewLeaf("", k, 0)
	}
	grp := mustGroup(t, "grp", leaves)
	g := mustGraph(t, nil, grp)

	c := New(g)

	leaf, _ := c.CompactedGroup(grp)
	if got := len(leaf.Inputs()); got != n*k {
		t.Errorf("compacted inputs = %d, want %d", got, n*k)
	}
}

func TestNew_Deterministic(t *testing.T) {
	g, _ := sampleGraph(t)

	first := New(g)
	second := New(g)

	a, b := first.CompactedGroups(), second.CompactedGroups()
	if len(a) != len(b) {
		t.Fatalf("CompactedGroups() lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		ga, _ := first.GroupOf(a[i])
		gb, _ := second.GroupOf(b[i])
		if ga != gb || len(a[i].Inputs()) != len(b[i].Inputs()) || len(a[i].Outputs()) != len(b[i].Outputs()) {
			t.Errorf("compacted group %d differs between runs", i)
		}
	}
	if linkShape(first) != linkShape(second) {
		t.Errorf("link topology differs:\n%s\n%s", linkShape(first), linkShape(second))
	}
}

func linkShape(c *Compacter) string {
	ids := graph.AssignIDs(c.Graph())
	var b strings.Builder
	for _, link := range graph.AllLinks(c.Graph()) {
		fmt.Fprintf(&b, "%s.%d->%s.%d;",
			ids.Leaves[link.Output().Leaf()], link.Output().ID(),
			ids.Leaves[link.Input().Leaf()], link.Input().ID())
	}
	return b.String()
}

func TestNew_DoesNotModifySource(t *testing.T) {
	g, links := sampleGraph(t)

	New(g)

	for _, link := range links {
		if link.Output().Link() != link || link.Input().Link() != link {
			t.Errorf("source link %v was modified", link)
		}
	}
}

func TestNew_NestedGroups(t *testing.T) {
	// [outer: a, [inner: b]]  with b --> c at the top level
	a := graph.NewLeaf("a", 1, 0)
	b := graph.NewLeaf("b", 0, 2)
	c := graph.NewLeaf("c", 1, 0)
	mustLink(t, b.Outputs()[0], a.Inputs()[0])
	mustLink(t, b.Outputs()[1], c.Inputs()[0])
	inner := mustGroup(t, "inner", []*graph.Leaf{b})
	outer := mustGroup(t, "outer", []*graph.Leaf{a}, inner)
	g := mustGraph(t, []*graph.Leaf{c}, outer)

	cp := New(g)

	synthetic, _ := cp.CompactedGroup(outer)
	if len(synthetic.Inputs()) != 0 || len(synthetic.Outputs()) != 1 {
		t.Errorf("outer pins = %d/%d, want 0/1", len(synthetic.Inputs()), len(synthetic.Outputs()))
	}
	if _, ok := cp.CompactedGroup(inner); ok {
		t.Error("nested group should not be compacted on its own")
	}
	// b's own parent is inner, which was not compacted, so b --> c has no
	// counterpart even though outer reserved an output for it.
	s := cp.Stats()
	if s.LinksConsidered != 1 || s.LinksCopied != 0 || s.LinksDropped != 1 {
		t.Errorf("Stats() = %+v, want 1 considered and 1 dropped", s)
	}
	if synthetic.Outputs()[0].IsLinked() {
		t.Error("outer output should stay unlinked")
	}
	cCopy, _ := cp.CopyOf(c)
	if cCopy.Inputs()[0].IsLinked() {
		t.Error("copy of c should have no incoming link")
	}
}

func TestNew_GroupContainerDropsOutgoingLinks(t *testing.T) {
	// container: [outer: a, [inner: b]] ; b --> outside
	a := graph.NewLeaf("a", 1, 0)
	b := graph.NewLeaf("b", 0, 2)
	outside := graph.NewLeaf("outside", 1, 0)
	mustLink(t, b.Outputs()[0], a.Inputs()[0])
	mustLink(t, b.Outputs()[1], outside.Inputs()[0])
	inner := mustGroup(t, "inner", []*graph.Leaf{b})
	outer := mustGroup(t, "outer", []*graph.Leaf{a}, inner)
	mustGraph(t, []*graph.Leaf{outside}, outer)

	c := New(outer)

	s := c.Stats()
	if s.GroupsCompacted != 1 || s.LeavesCopied != 1 {
		t.Errorf("Stats() = %+v, want 1 group and 1 leaf", s)
	}
	if s.LinksConsidered != 2 || s.LinksCopied != 1 || s.LinksDropped != 1 {
		t.Errorf("Stats() = %+v, want 2 considered, 1 copied, 1 dropped", s)
	}
}

func TestNew_Empty(t *testing.T) {
	c := New(&graph.Graph{})

	if len(c.Graph().Leaves()) != 0 || c.Stats() != (Stats{}) {
		t.Errorf("New(empty) = %d leaves, %+v", len(c.Graph().Leaves()), c.Stats())
	}
}

// sampleGraph builds two sibling groups linked to each other and to a
// top-level leaf.
func sampleGraph(t *testing.T) (*graph.Graph, []*graph.Link) {
	t.Helper()
	src := graph.NewLeaf("src", 0, 2)
	p := graph.NewLeaf("p", 1, 1)
	q := graph.NewLeaf("q", 2, 1)
	r := graph.NewLeaf("r", 1, 1)
	sink := graph.NewLeaf("sink", 2, 0)
	links := []*graph.Link{
		mustLink(t, src.Outputs()[0], p.Inputs()[0]),
		mustLink(t, src.Outputs()[1], r.Inputs()[0]),
		mustLink(t, p.Outputs()[0], q.Inputs()[0]),
		mustLink(t, q.Outputs()[0], sink.Inputs()[0]),
		mustLink(t, r.Outputs()[0], q.Inputs()[1]),
	}
	left := mustGroup(t, "left", []*graph.Leaf{p, r})
	right := mustGroup(t, "right", []*graph.Leaf{q})
	return mustGraph(t, []*graph.Leaf{src, sink}, left, right), links
}
