package io

import (
	"errors"
	"fmt"
	"slices"

	nerrors "github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/graph"
)

var (
	// ErrDuplicateID is returned when two leaves or groups share an ID.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrUnknownLeaf is returned when a link references a missing leaf.
	ErrUnknownLeaf = errors.New("unknown leaf")
	// ErrUnknownGroup is returned when a leaf or group references a missing group.
	ErrUnknownGroup = errors.New("unknown group")
	// ErrGroupCycle is returned when group parents form a cycle.
	ErrGroupCycle = errors.New("group parent cycle")
	// ErrPinCount is returned for negative pin counts.
	ErrPinCount = errors.New("negative pin count")
	// ErrPinLimit is returned when a leaf or document exceeds MaxPins or
	// MaxDocumentPins.
	ErrPinLimit = errors.New("pin limit exceeded")
	// ErrPinRange is returned when a link addresses a pin that does not exist.
	ErrPinRange = errors.New("pin index out of range")
	// ErrUnknownKind is returned for leaf kinds other than "regular" and "compacted".
	ErrUnknownKind = errors.New("unknown leaf kind")
)

// Pin limits enforced by Build. Pins are allocated up front, so the bounds
// keep a small document from requesting an unbounded allocation. Both are
// checked before any leaf is built.
const (
	// MaxPins is the maximum number of inputs, and separately of outputs,
	// on one leaf.
	MaxPins = 1 << 16
	// MaxDocumentPins is the maximum number of pins across all leaves.
	MaxDocumentPins = 1 << 20
)

var kindFromString = map[string]graph.Kind{
	"":          graph.KindRegular,
	"regular":   graph.KindRegular,
	"compacted": graph.KindCompacted,
}

// Model is a document turned into live graph structures.
type Model struct {
	Graph  *graph.Graph
	leaves map[string]*graph.Leaf
	groups map[string]*graph.Group
}

// Leaf returns the leaf built for id, or nil.
func (m *Model) Leaf(id string) *graph.Leaf { return m.leaves[id] }

// Group returns the group built for id, or nil.
func (m *Model) Group(id string) *graph.Group { return m.groups[id] }

// Container returns the node container to operate on: the whole graph when
// groupID is empty, otherwise the group with that ID.
func (m *Model) Container(groupID string) (graph.NodeContainer, error) {
	if groupID == "" {
		return m.Graph, nil
	}
	g, ok := m.groups[groupID]
	if !ok {
		return nil, nerrors.Wrap(nerrors.ErrCodeGroupNotFound, ErrUnknownGroup, "group %q", groupID)
	}
	return g, nil
}

// Build validates doc and constructs the graph it describes.
//
// Leaves and links are created in document order. Groups are created
// deepest-first because a group takes ownership of its members on
// construction; siblings keep their document order.
func Build(doc Document) (*Model, error) {
	m := &Model{
		leaves: make(map[string]*graph.Leaf, len(doc.Leaves)),
		groups: make(map[string]*graph.Group, len(doc.Groups)),
	}

	groupSpecs := make(map[string]GroupSpec, len(doc.Groups))
	for _, gs := range doc.Groups {
		if err := nerrors.ValidateID(gs.ID); err != nil {
			return nil, fmt.Errorf("group %q: %w", gs.ID, err)
		}
		if _, dup := groupSpecs[gs.ID]; dup {
			return nil, fmt.Errorf("group %q: %w", gs.ID, ErrDuplicateID)
		}
		groupSpecs[gs.ID] = gs
	}
	for _, gs := range doc.Groups {
		if gs.Parent != "" {
			if _, ok := groupSpecs[gs.Parent]; !ok {
				return nil, fmt.Errorf("group %q parent %q: %w", gs.ID, gs.Parent, ErrUnknownGroup)
			}
		}
	}
	depth, err := groupDepths(doc.Groups, groupSpecs)
	if err != nil {
		return nil, err
	}

	if err := checkPins(doc.Leaves); err != nil {
		return nil, err
	}

	for _, ls := range doc.Leaves {
		if err := nerrors.ValidateID(ls.ID); err != nil {
			return nil, fmt.Errorf("leaf %q: %w", ls.ID, err)
		}
		if _, dup := m.leaves[ls.ID]; dup {
			return nil, fmt.Errorf("leaf %q: %w", ls.ID, ErrDuplicateID)
		}
		if _, dup := groupSpecs[ls.ID]; dup {
			return nil, fmt.Errorf("leaf %q: %w", ls.ID, ErrDuplicateID)
		}
		if ls.Group != "" {
			if _, ok := groupSpecs[ls.Group]; !ok {
				return nil, fmt.Errorf("leaf %q group %q: %w", ls.ID, ls.Group, ErrUnknownGroup)
			}
		}
		kind, ok := kindFromString[ls.Kind]
		if !ok {
			return nil, fmt.Errorf("leaf %q kind %q: %w", ls.ID, ls.Kind, ErrUnknownKind)
		}
		if kind == graph.KindCompacted {
			m.leaves[ls.ID] = graph.NewCompactedLeaf(ls.ID, ls.Inputs, ls.Outputs)
		} else {
			m.leaves[ls.ID] = graph.NewLeaf(ls.ID, ls.Inputs, ls.Outputs)
		}
	}

	for i, l := range doc.Links {
		if err := buildLink(m, l); err != nil {
			return nil, fmt.Errorf("link %d (%s.out%d -> %s.in%d): %w", i, l.From, l.Out, l.To, l.In, err)
		}
	}

	memberLeaves := make(map[string][]*graph.Leaf)
	var topLeaves []*graph.Leaf
	for _, ls := range doc.Leaves {
		if ls.Group == "" {
			topLeaves = append(topLeaves, m.leaves[ls.ID])
			continue
		}
		memberLeaves[ls.Group] = append(memberLeaves[ls.Group], m.leaves[ls.ID])
	}

	order := slices.Clone(doc.Groups)
	slices.SortStableFunc(order, func(a, b GroupSpec) int {
		return depth[b.ID] - depth[a.ID]
	})
	memberGroups := make(map[string][]*graph.Group)
	var topGroups []*graph.Group
	for _, gs := range order {
		g, err := graph.NewGroup(gs.ID, memberLeaves[gs.ID], memberGroups[gs.ID])
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", gs.ID, err)
		}
		m.groups[gs.ID] = g
		if gs.Parent == "" {
			topGroups = append(topGroups, g)
		} else {
			memberGroups[gs.Parent] = append(memberGroups[gs.Parent], g)
		}
	}

	m.Graph, err = graph.NewGraph(topLeaves, topGroups)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// checkPins validates the pin counts of every leaf against the limits.
func checkPins(leaves []LeafSpec) error {
	total := 0
	for _, ls := range leaves {
		if ls.Inputs < 0 || ls.Outputs < 0 {
			return fmt.Errorf("leaf %q: %w", ls.ID, ErrPinCount)
		}
		if ls.Inputs > MaxPins || ls.Outputs > MaxPins {
			return fmt.Errorf("leaf %q has %d inputs and %d outputs, at most %d each: %w",
				ls.ID, ls.Inputs, ls.Outputs, MaxPins, ErrPinLimit)
		}
		total += ls.Inputs + ls.Outputs
	}
	if total > MaxDocumentPins {
		return fmt.Errorf("document has %d pins, at most %d: %w", total, MaxDocumentPins, ErrPinLimit)
	}
	return nil
}

func buildLink(m *Model, l LinkSpec) error {
	from, ok := m.leaves[l.From]
	if !ok {
		return fmt.Errorf("from %q: %w", l.From, ErrUnknownLeaf)
	}
	to, ok := m.leaves[l.To]
	if !ok {
		return fmt.Errorf("to %q: %w", l.To, ErrUnknownLeaf)
	}
	if l.Out < 0 || l.Out >= len(from.Outputs()) {
		return fmt.Errorf("output %d of %q: %w", l.Out, l.From, ErrPinRange)
	}
	if l.In < 0 || l.In >= len(to.Inputs()) {
		return fmt.Errorf("input %d of %q: %w", l.In, l.To, ErrPinRange)
	}
	_, err := graph.CreateLink(from.Outputs()[l.Out], to.Inputs()[l.In])
	return err
}

// groupDepths returns the nesting depth of each group (0 for top level) and
// fails if the parent relation contains a cycle.
func groupDepths(groups []GroupSpec, specs map[string]GroupSpec) (map[string]int, error) {
	depth := make(map[string]int, len(groups))
	for _, gs := range groups {
		seen := map[string]bool{gs.ID: true}
		d := 0
		for p := gs.Parent; p != ""; p = specs[p].Parent {
			if seen[p] {
				return nil, fmt.Errorf("group %q: %w", gs.ID, ErrGroupCycle)
			}
			seen[p] = true
			d++
		}
		depth[gs.ID] = d
	}
	return depth, nil
}
