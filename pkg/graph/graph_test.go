package graph

import (
	"errors"
	"testing"
)

func TestNewLeaf(t *testing.T) {
	l := NewLeaf("mixer", 2, 3)

	if len(l.Inputs()) != 2 {
		t.Errorf("len(Inputs()) = %d, want 2", len(l.Inputs()))
	}
	if len(l.Outputs()) != 3 {
		t.Errorf("len(Outputs()) = %d, want 3", len(l.Outputs()))
	}
	for i, in := range l.Inputs() {
		if in.ID() != i || in.Leaf() != l || in.IsLinked() {
			t.Errorf("input %d: ID()=%d Leaf()=%v IsLinked()=%v", i, in.ID(), in.Leaf(), in.IsLinked())
		}
	}
	if l.Kind() != KindRegular {
		t.Errorf("Kind() = %v, want %v", l.Kind(), KindRegular)
	}
}

func TestNewLeaf_NegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewLeaf() with negative count did not panic")
		}
	}()
	NewLeaf("bad", -1, 0)
}

func TestLeafCopy(t *testing.T) {
	a := NewLeaf("a", 0, 1)
	b := NewLeaf("b", 1, 0)
	if _, err := CreateLink(a.Outputs()[0], b.Inputs()[0]); err != nil {
		t.Fatal(err)
	}

	cp := a.Copy()

	if cp == a {
		t.Fatal("Copy() returned the same leaf")
	}
	if cp.Name() != "a" || len(cp.Outputs()) != 1 || len(cp.Inputs()) != 0 {
		t.Errorf("Copy() = %s with %d/%d pins", cp, len(cp.Inputs()), len(cp.Outputs()))
	}
	if cp.Outputs()[0].IsLinked() {
		t.Error("Copy() pins should be unlinked")
	}
	if cp.Compare(a) <= 0 {
		t.Error("Copy() should sort after the original")
	}
}

func TestCreateLink(t *testing.T) {
	a := NewLeaf("a", 0, 1)
	b := NewLeaf("b", 1, 0)

	l, err := CreateLink(a.Outputs()[0], b.Inputs()[0])
	if err != nil {
		t.Fatalf("CreateLink() error = %v", err)
	}
	if l.Output() != a.Outputs()[0] || l.Input() != b.Inputs()[0] {
		t.Error("CreateLink() endpoints mismatch")
	}
	if a.Outputs()[0].Link() != l || b.Inputs()[0].Link() != l {
		t.Error("CreateLink() did not attach the link to both pins")
	}
	if got := l.String(); got != "a.out0 -> b.in0" {
		t.Errorf("String() = %q, want %q", got, "a.out0 -> b.in0")
	}
}

func TestCreateLink_Errors(t *testing.T) {
	a := NewLeaf("a", 0, 2)
	b := NewLeaf("b", 2, 0)
	if _, err := CreateLink(a.Outputs()[0], b.Inputs()[0]); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		out  *Output
		in   *Input
		want error
	}{
		{"nil output", nil, b.Inputs()[1], ErrNilPin},
		{"nil input", a.Outputs()[1], nil, ErrNilPin},
		{"output taken", a.Outputs()[0], b.Inputs()[1], ErrPinAlreadyLinked},
		{"input taken", a.Outputs()[1], b.Inputs()[0], ErrPinAlreadyLinked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateLink(tt.out, tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("CreateLink() error = %v, want %v", err, tt.want)
			}
		})
	}
	if a.Outputs()[1].IsLinked() || b.Inputs()[1].IsLinked() {
		t.Error("failed CreateLink() modified a pin")
	}
}

func TestRemoveLink(t *testing.T) {
	a := NewLeaf("a", 0, 1)
	b := NewLeaf("b", 1, 0)
	l, _ := CreateLink(a.Outputs()[0], b.Inputs()[0])

	RemoveLink(l)
	RemoveLink(l)

	if a.Outputs()[0].IsLinked() || b.Inputs()[0].IsLinked() {
		t.Error("RemoveLink() left a pin linked")
	}
	if _, err := CreateLink(a.Outputs()[0], b.Inputs()[0]); err != nil {
		t.Errorf("CreateLink() after RemoveLink() error = %v", err)
	}
}

func TestNewGroup(t *testing.T) {
	a := NewLeaf("a", 1, 1)
	b := NewLeaf("b", 1, 1)
	inner, err := NewGroup("inner", []*Leaf{b}, nil)
	if err != nil {
		t.Fatal(err)
	}
	outer, err := NewGroup("outer", []*Leaf{a}, []*Group{inner})
	if err != nil {
		t.Fatal(err)
	}

	if a.Parent() != outer || b.Parent() != inner || inner.Parent() != outer {
		t.Error("NewGroup() did not set parent back-references")
	}
	if got := len(outer.AllLeaves()); got != 2 {
		t.Errorf("AllLeaves() = %d leaves, want 2", got)
	}
	if !outer.Contains(b) {
		t.Error("Contains() = false for nested leaf")
	}
	if inner.Contains(a) {
		t.Error("Contains() = true for leaf outside group")
	}
}

func TestNewGroup_AlreadyParented(t *testing.T) {
	a := NewLeaf("a", 0, 0)
	if _, err := NewGroup("first", []*Leaf{a}, nil); err != nil {
		t.Fatal(err)
	}
	_, err := NewGroup("second", []*Leaf{a}, nil)
	if !errors.Is(err, ErrAlreadyParented) {
		t.Errorf("NewGroup() error = %v, want %v", err, ErrAlreadyParented)
	}

	b := NewLeaf("b", 0, 0)
	if _, err := NewGraph([]*Leaf{b}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := NewGroup("third", []*Leaf{b}, nil); !errors.Is(err, ErrAlreadyParented) {
		t.Errorf("NewGroup() on graph member error = %v, want %v", err, ErrAlreadyParented)
	}
}

func TestNewGroup_NilMember(t *testing.T) {
	if _, err := NewGroup("g", []*Leaf{nil}, nil); !errors.Is(err, ErrNilMember) {
		t.Errorf("NewGroup() error = %v, want %v", err, ErrNilMember)
	}
}

func TestExternalLinks(t *testing.T) {
	//   outside --> a --> b --> outside2
	//              [   group   ]
	outside := NewLeaf("outside", 0, 1)
	a := NewLeaf("a", 1, 1)
	b := NewLeaf("b", 1, 1)
	outside2 := NewLeaf("outside2", 1, 0)
	in, _ := CreateLink(outside.Outputs()[0], a.Inputs()[0])
	internal, _ := CreateLink(a.Outputs()[0], b.Inputs()[0])
	out, _ := CreateLink(b.Outputs()[0], outside2.Inputs()[0])

	g, err := NewGroup("g", []*Leaf{a, b}, nil)
	if err != nil {
		t.Fatal(err)
	}

	ext := g.ExternalLinks()
	if len(ext) != 2 || ext[0] != in || ext[1] != out {
		t.Errorf("ExternalLinks() = %v, want [%v %v]", ext, in, out)
	}
	links := g.Links()
	if len(links) != 1 || links[0] != internal {
		t.Errorf("Links() = %v, want [%v]", links, internal)
	}
}

func TestGraphLinks(t *testing.T) {
	a := NewLeaf("a", 0, 2)
	b := NewLeaf("b", 1, 0)
	c := NewLeaf("c", 1, 0)
	top, _ := CreateLink(a.Outputs()[0], b.Inputs()[0])
	CreateLink(a.Outputs()[1], c.Inputs()[0])
	grp, _ := NewGroup("grp", []*Leaf{c}, nil)

	g, err := NewGraph([]*Leaf{a, b}, []*Group{grp})
	if err != nil {
		t.Fatal(err)
	}

	links := g.Links()
	if len(links) != 1 || links[0] != top {
		t.Errorf("Links() = %v, want [%v]", links, top)
	}
	if got := len(AllLinks(g)); got != 2 {
		t.Errorf("AllLinks() = %d links, want 2", got)
	}
	if got := len(g.AllLeaves()); got != 3 {
		t.Errorf("AllLeaves() = %d, want 3", got)
	}
}

func TestGroupCompare(t *testing.T) {
	first, _ := NewGroup("z", nil, nil)
	second, _ := NewGroup("a", nil, nil)

	groups := []*Group{second, first}
	SortGroups(groups)

	if groups[0] != first || groups[1] != second {
		t.Error("SortGroups() should order by creation, not name")
	}
}

func TestAssignIDs(t *testing.T) {
	named := NewLeaf("mixer", 0, 0)
	dup := NewLeaf("mixer", 0, 0)
	anon := NewLeaf("", 0, 0)
	grp, _ := NewGroup("mixer", []*Leaf{dup}, nil)
	g, err := NewGraph([]*Leaf{named, anon}, []*Group{grp})
	if err != nil {
		t.Fatal(err)
	}

	ids := AssignIDs(g)

	if got := ids.Groups[grp]; got != "mixer" {
		t.Errorf("group ID = %q, want %q", got, "mixer")
	}
	if got := ids.Leaves[named]; got != "mixer__1" {
		t.Errorf("leaf ID = %q, want %q", got, "mixer__1")
	}
	if got := ids.Leaves[dup]; got != "mixer__2" {
		t.Errorf("duplicate leaf ID = %q, want %q", got, "mixer__2")
	}
	if got := ids.Leaves[anon]; got != anon.String() {
		t.Errorf("anonymous leaf ID = %q, want %q", got, anon.String())
	}
}
