package io

// Document is the serialized form of a node graph.
type Document struct {
	Leaves []LeafSpec  `json:"leaves" toml:"leaves" bson:"leaves"`
	Groups []GroupSpec `json:"groups,omitempty" toml:"groups,omitempty" bson:"groups,omitempty"`
	Links  []LinkSpec  `json:"links,omitempty" toml:"links,omitempty" bson:"links,omitempty"`
}

// LeafSpec describes one leaf and its pin counts.
type LeafSpec struct {
	ID      string `json:"id" toml:"id" bson:"id"`
	Inputs  int    `json:"inputs" toml:"inputs" bson:"inputs"`
	Outputs int    `json:"outputs" toml:"outputs" bson:"outputs"`
	Group   string `json:"group,omitempty" toml:"group,omitempty" bson:"group,omitempty"`
	Kind    string `json:"kind,omitempty" toml:"kind,omitempty" bson:"kind,omitempty"`
}

// GroupSpec describes a group. Parent is empty for top-level groups.
type GroupSpec struct {
	ID     string `json:"id" toml:"id" bson:"id"`
	Parent string `json:"parent,omitempty" toml:"parent,omitempty" bson:"parent,omitempty"`
}

// LinkSpec connects output Out of leaf From to input In of leaf To.
type LinkSpec struct {
	From string `json:"from" toml:"from" bson:"from"`
	Out  int    `json:"out" toml:"out" bson:"out"`
	To   string `json:"to" toml:"to" bson:"to"`
	In   int    `json:"in" toml:"in" bson:"in"`
}

// Stats returns the number of leaves, groups and links in the document.
func (d Document) Stats() (leaves, groups, links int) {
	return len(d.Leaves), len(d.Groups), len(d.Links)
}
