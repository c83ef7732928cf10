package graph

import "fmt"

// IDs maps leaves and groups of a container to unique display identifiers.
type IDs struct {
	Leaves map[*Leaf]string
	Groups map[*Group]string
}

// AssignIDs computes identifiers for every leaf and group in c.
//
// Names are used as given. Unnamed members get "leaf-N" or "group-N" from
// their sequence number. Leaves and groups share one namespace; on collision
// a numeric suffix is appended ("mixer__1"). Groups are assigned first, then
// leaves, each in creation order, so the result is deterministic.
func AssignIDs(c NodeContainer) IDs {
	gen := idGen{used: make(map[string]struct{})}
	groups := AllGroups(c)
	SortGroups(groups)
	leaves := c.AllLeaves()
	SortLeaves(leaves)

	ids := IDs{
		Leaves: make(map[*Leaf]string, len(leaves)),
		Groups: make(map[*Group]string, len(groups)),
	}
	for _, g := range groups {
		ids.Groups[g] = gen.next(g.String())
	}
	for _, l := range leaves {
		ids.Leaves[l] = gen.next(l.String())
	}
	return ids
}

type idGen struct {
	used map[string]struct{}
}

func (gen *idGen) next(base string) string {
	id := base
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", base, i)
	}
}
