package layout

import (
	"slices"
	"strings"
)

// Normalize deterministically orders a graph so identical graphs always
// serialize identically regardless of upstream collection iteration order:
//
//   - Nodes ascending by id
//   - Ports within each node ascending by port id
//   - Edges by (source, target, weight descending, id ascending)
//
// Weight descending as secondary edge key keeps higher-priority parallel
// edges first; the id is the final tie-break for full determinism.
//
// Normalize is pure: the result shares no slices with the input.
func Normalize(g *Graph) *Graph {
	out := &Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}

	for i, n := range g.Nodes {
		n.Ports = append([]Port(nil), n.Ports...)
		slices.SortStableFunc(n.Ports, func(a, b Port) int {
			return strings.Compare(a.ID, b.ID)
		})
		out.Nodes[i] = n
	}
	slices.SortStableFunc(out.Nodes, func(a, b Node) int {
		return strings.Compare(a.ID, b.ID)
	})

	copy(out.Edges, g.Edges)
	slices.SortStableFunc(out.Edges, func(a, b Edge) int {
		if c := strings.Compare(a.SourceID, b.SourceID); c != 0 {
			return c
		}
		if c := strings.Compare(a.TargetID, b.TargetID); c != 0 {
			return c
		}
		switch {
		case a.Weight > b.Weight:
			return -1
		case a.Weight < b.Weight:
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})

	return out
}
