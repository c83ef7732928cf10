// Package pkg provides the core libraries of nodegraph.
//
// # Overview
//
// Nodegraph models node graphs as they appear in visual editors: leaves with
// ordered input and output pins, links from an output to an input, and
// groups that nest leaves and other groups. Its central operation is
// compaction, which collapses each top-level group of a container into a
// single synthetic leaf while keeping every link that crosses the group
// boundary.
//
// # Architecture
//
// The typical data flow:
//
//	JSON/TOML document
//	         ↓
//	    [io] package (validate and build the live graph)
//	         ↓
//	    [graph/compact] package (collapse groups)
//	         ↓
//	    [render/nodelink] package (DOT, then SVG/PNG/PDF)
//
// [pipeline] wires these stages together with caching, and both the CLI and
// [server] go through it.
//
// # Quick Start
//
//	doc, _ := io.ReadFile("synth.toml")
//	m, _ := io.Build(doc)
//
//	cp := compact.New(m.Graph)
//	fmt.Println(cp.Stats().LinksDropped)
//
//	dot := nodelink.ToDOT(cp.Graph(), nodelink.Options{})
//	svg, _ := nodelink.RenderSVG(ctx, dot)
//
// # Main Packages
//
// Domain:
//   - [graph]: pins, links, leaves, groups and graphs
//   - [graph/compact]: the compaction algorithm and its lookup tables
//   - [graph/topology]: components and topological order
//   - [io]: graph documents and their codecs
//   - [render/nodelink]: Graphviz rendering
//
// Infrastructure:
//   - [cache]: render cache (file, Redis, none)
//   - [store]: document store (memory, MongoDB)
//   - [config]: layered configuration
//   - [watch]: file change notification
//   - [server]: HTTP API
//   - [observability]: instrumentation hooks
//   - [errors]: coded errors
package pkg
