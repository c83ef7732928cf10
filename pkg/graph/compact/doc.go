// Package compact flattens a node container so that every top-level group
// appears as a single synthetic leaf.
//
// # Overview
//
// Editors collapse groups to simplify large graphs. Seen from the outside, a
// collapsed group behaves like one node whose ports are:
//
//   - every unlinked pin of any leaf inside the group, which stays free, and
//   - one pin for every link crossing the group boundary, so that the link
//     still has somewhere to land.
//
// [New] builds a new [graph.Graph] following these rules and never modifies
// its input. Top-level leaves are copied one to one; top-level groups become
// leaves of kind [graph.KindCompacted]. Links between copied leaves keep their
// pin indices. Links landing in a compacted group take the first free pin of
// the matching direction, so pin counts are preserved but not pin identity.
//
//	c := compact.New(g)
//	flat := c.Graph()
//	for _, synthetic := range c.CompactedGroups() {
//	    group, _ := c.GroupOf(synthetic)
//	    fmt.Println(group, len(synthetic.Inputs()), len(synthetic.Outputs()))
//	}
//
// # Dropped links
//
// A link is copied only when both endpoints resolve to the compacted graph.
// When the container is itself a group, links leaving it cannot resolve and
// are dropped. [Stats] counts considered, copied and dropped links so callers
// can detect the loss.
package compact
