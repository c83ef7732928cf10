// Package graph provides the node-graph data model edited by nodegraph:
// leaves with ordered input and output pins, directed links between pins,
// and groups that nest leaves and other groups.
//
// # Overview
//
// A [Leaf] is an atomic node. It owns a fixed sequence of [Input] pins and a
// fixed sequence of [Output] pins, both assigned at construction:
//
//	src := graph.NewLeaf("source", 0, 1)
//	dst := graph.NewLeaf("sink", 1, 0)
//	link, err := graph.CreateLink(src.Outputs()[0], dst.Inputs()[0])
//
// A pin holds at most one [Link]. [CreateLink] returns [ErrPinAlreadyLinked]
// when either endpoint is taken; [RemoveLink] frees both endpoints again.
//
// # Containers
//
// [Group] and [Graph] both implement [NodeContainer]. A group owns a set of
// leaves and nested groups; every member gets a back-reference to its parent
// group. A graph is the top-level container and never has a parent.
//
// Links are not owned by containers. Instead they are derived from pins:
//
//   - [NodeContainer.Links] returns links whose endpoints both sit on leaves
//     owned directly by the container.
//   - [Group.ExternalLinks] returns links with exactly one endpoint on a leaf
//     transitively inside the group.
//
// # Ordering
//
// Every leaf, group and link receives a sequence number when it is created.
// All accessors return members in sequence order, and [Group.Compare] orders
// groups by it, so iteration never depends on map order or pointer values.
//
// # Concurrency
//
// Graph values are not safe for concurrent mutation. Once built, a graph may
// be read from multiple goroutines as long as no links are created or
// removed.
package graph
