package graph

import (
	"cmp"
	"fmt"
	"slices"
)

// Kind distinguishes leaves authored by users from synthetic leaves created
// during graph transformation.
type Kind int

const (
	// KindRegular is a leaf authored as part of the original graph.
	KindRegular Kind = iota
	// KindCompacted is a synthetic leaf standing in for a whole group.
	KindCompacted
)

func (k Kind) String() string {
	switch k {
	case KindCompacted:
		return "compacted"
	default:
		return "regular"
	}
}

// Leaf is an atomic node owning ordered input and output pins.
//
// The zero value is not usable; create leaves with [NewLeaf].
type Leaf struct {
	seq     uint64
	name    string
	kind    Kind
	inputs  []*Input
	outputs []*Output
	parent  *Group
	owned   bool
}

// NewLeaf creates a regular leaf with the given number of unlinked pins.
// It panics if a pin count is negative.
func NewLeaf(name string, inputs, outputs int) *Leaf {
	return newLeaf(name, KindRegular, inputs, outputs)
}

// NewCompactedLeaf creates a synthetic leaf of kind [KindCompacted].
func NewCompactedLeaf(name string, inputs, outputs int) *Leaf {
	return newLeaf(name, KindCompacted, inputs, outputs)
}

func newLeaf(name string, kind Kind, inputs, outputs int) *Leaf {
	if inputs < 0 || outputs < 0 {
		panic(fmt.Sprintf("graph: negative pin count for leaf %q (%d inputs, %d outputs)", name, inputs, outputs))
	}
	l := &Leaf{
		seq:     nextSeq(),
		name:    name,
		kind:    kind,
		inputs:  make([]*Input, inputs),
		outputs: make([]*Output, outputs),
	}
	for i := range l.inputs {
		l.inputs[i] = &Input{pin{leaf: l, id: i}}
	}
	for i := range l.outputs {
		l.outputs[i] = &Output{pin{leaf: l, id: i}}
	}
	return l
}

// Copy returns a structural copy of l: same name, kind and pin counts, with
// fresh unlinked pins and no parent.
func (l *Leaf) Copy() *Leaf {
	return newLeaf(l.name, l.kind, len(l.inputs), len(l.outputs))
}

// Name returns the display name given at construction. It may be empty.
func (l *Leaf) Name() string { return l.name }

// Kind reports whether the leaf is regular or synthetic.
func (l *Leaf) Kind() Kind { return l.kind }

// IsCompacted reports whether the leaf stands in for a compacted group.
func (l *Leaf) IsCompacted() bool { return l.kind == KindCompacted }

// Inputs returns the input pins in positional order.
// The returned slice must not be modified.
func (l *Leaf) Inputs() []*Input { return l.inputs }

// Outputs returns the output pins in positional order.
// The returned slice must not be modified.
func (l *Leaf) Outputs() []*Output { return l.outputs }

// Parent returns the group directly owning the leaf, or nil for a top-level leaf.
func (l *Leaf) Parent() *Group { return l.parent }

// Compare orders leaves by creation.
func (l *Leaf) Compare(other *Leaf) int { return cmp.Compare(l.seq, other.seq) }

// Links returns every link attached to the leaf, outputs first.
func (l *Leaf) Links() []*Link {
	var links []*Link
	for _, out := range l.outputs {
		if out.link != nil {
			links = append(links, out.link)
		}
	}
	for _, in := range l.inputs {
		if in.link != nil {
			links = append(links, in.link)
		}
	}
	return links
}

// FreeInputs returns the number of unlinked input pins.
func (l *Leaf) FreeInputs() int {
	n := 0
	for _, in := range l.inputs {
		if !in.IsLinked() {
			n++
		}
	}
	return n
}

// FreeOutputs returns the number of unlinked output pins.
func (l *Leaf) FreeOutputs() int {
	n := 0
	for _, out := range l.outputs {
		if !out.IsLinked() {
			n++
		}
	}
	return n
}

func (l *Leaf) String() string {
	if l.name != "" {
		return l.name
	}
	return fmt.Sprintf("leaf-%d", l.seq)
}

// SortLeaves sorts leaves in creation order.
func SortLeaves(leaves []*Leaf) {
	slices.SortFunc(leaves, (*Leaf).Compare)
}
