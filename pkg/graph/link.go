package graph

import (
	"cmp"
	"fmt"
	"slices"
)

// Link is a directed edge from one [Output] to one [Input].
// Links are created with [CreateLink] and never change endpoints.
type Link struct {
	seq    uint64
	output *Output
	input  *Input
}

// Output returns the emitting endpoint.
func (l *Link) Output() *Output { return l.output }

// Input returns the receiving endpoint.
func (l *Link) Input() *Input { return l.input }

// Compare orders links by creation.
func (l *Link) Compare(other *Link) int { return cmp.Compare(l.seq, other.seq) }

func (l *Link) String() string { return fmt.Sprintf("%s -> %s", l.output, l.input) }

// CreateLink connects out to in.
// It returns ErrNilPin if either pin is nil and ErrPinAlreadyLinked if either
// pin already holds a link. On error no pin is modified.
func CreateLink(out *Output, in *Input) (*Link, error) {
	if out == nil || in == nil {
		return nil, ErrNilPin
	}
	if out.IsLinked() {
		return nil, fmt.Errorf("%w: %s", ErrPinAlreadyLinked, out)
	}
	if in.IsLinked() {
		return nil, fmt.Errorf("%w: %s", ErrPinAlreadyLinked, in)
	}
	l := &Link{seq: nextSeq(), output: out, input: in}
	out.link = l
	in.link = l
	return l, nil
}

// RemoveLink detaches l from both of its pins.
// Removing a link twice is a no-op.
func RemoveLink(l *Link) {
	if l.output.link == l {
		l.output.link = nil
	}
	if l.input.link == l {
		l.input.link = nil
	}
}

// SortLinks sorts links in creation order.
func SortLinks(links []*Link) {
	slices.SortFunc(links, (*Link).Compare)
}
