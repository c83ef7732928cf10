package graph

import "fmt"

// Pin is a connection point owned by exactly one [Leaf].
// It is implemented by [*Input] and [*Output].
type Pin interface {
	// Leaf returns the leaf owning the pin.
	Leaf() *Leaf
	// ID returns the position of the pin within its leaf's input or output sequence.
	ID() int
	// Link returns the link attached to the pin, or nil.
	Link() *Link
	// IsLinked reports whether a link is attached to the pin.
	IsLinked() bool
}

type pin struct {
	leaf *Leaf
	id   int
	link *Link
}

func (p *pin) Leaf() *Leaf    { return p.leaf }
func (p *pin) ID() int        { return p.id }
func (p *pin) Link() *Link    { return p.link }
func (p *pin) IsLinked() bool { return p.link != nil }

// Input is a pin receiving a link.
type Input struct{ pin }

// Output is a pin emitting a link.
type Output struct{ pin }

func (in *Input) String() string   { return fmt.Sprintf("%s.in%d", in.leaf, in.id) }
func (out *Output) String() string { return fmt.Sprintf("%s.out%d", out.leaf, out.id) }

var (
	_ Pin = (*Input)(nil)
	_ Pin = (*Output)(nil)
)
