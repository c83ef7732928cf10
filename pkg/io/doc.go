// Package io reads and writes node graph documents.
//
// # Overview
//
// A [Document] is the serialized form of a node graph: a flat list of
// leaves, groups and links that reference each other by string ID. The same
// document structure is used for files on disk (JSON or TOML), HTTP request
// and response bodies, and records in the document store.
//
// # JSON Format
//
//	{
//	  "leaves": [
//	    {"id": "osc", "inputs": 0, "outputs": 1},
//	    {"id": "filter", "inputs": 1, "outputs": 1, "group": "voice"},
//	    {"id": "amp", "inputs": 1, "outputs": 1, "group": "voice"},
//	    {"id": "out", "inputs": 1, "outputs": 0}
//	  ],
//	  "groups": [
//	    {"id": "voice"}
//	  ],
//	  "links": [
//	    {"from": "osc", "out": 0, "to": "filter", "in": 0},
//	    {"from": "filter", "out": 0, "to": "amp", "in": 0},
//	    {"from": "amp", "out": 0, "to": "out", "in": 0}
//	  ]
//	}
//
// The TOML form uses the same keys with arrays of tables ([[leaves]],
// [[groups]], [[links]]).
//
// # Leaf Fields
//
// Required:
//   - id: Unique identifier, shared namespace with groups
//   - inputs, outputs: Pin counts (zero or more)
//
// Optional:
//   - group: ID of the group that directly contains the leaf
//   - kind: "regular" (default) or "compacted"
//
// # Building
//
// [Build] validates a document and turns it into live [graph] structures
// held by a [Model]. Validation covers identifier rules, dangling group
// references, parent cycles, negative pin counts, pin indices out of range
// and pins linked twice. Errors wrap the sentinel values of this package so
// callers can use errors.Is.
//
// # Export
//
// [FromContainer] converts any [graph.NodeContainer] back into a document,
// including compacted graphs, whose synthetic leaves are exported with kind
// "compacted". Identifiers come from [graph.AssignIDs].
package io
