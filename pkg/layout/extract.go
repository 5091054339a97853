package layout

import (
	"github.com/archonhq/archon/pkg/errors"
	"github.com/archonhq/archon/pkg/model"
)

// Default node sizes, used when a stored size is absent or invalid.
// Containers get larger defaults so nested layout has room to work with.
const (
	defaultNodeWidth  = 120.0
	defaultNodeHeight = 60.0

	defaultContainerWidth  = 300.0
	defaultContainerHeight = 200.0
)

// Extract reads a view's positioned nodes and the owning model and produces
// the normalized-input candidate: a solver-agnostic graph of semantic nodes
// and edges. Decorative view objects (notes, labels, group boxes) are
// excluded.
//
// When opts.Scope is ScopeSelection, nodes are filtered to the deduplicated
// selection id set first, then edges by node-set membership - an edge
// survives only if both filtered ends remain.
//
// Extract is a pure read: it returns fresh slices and never aliases or
// mutates view state. It returns an UNSUPPORTED_VIEW_KIND error for view
// kinds without a semantic graph, and an empty graph (not an error) for a
// view with zero eligible nodes.
func Extract(m *model.Model, viewID string, opts Options, selection []string) (*Graph, error) {
	view := m.View(viewID)
	if view == nil {
		return nil, errors.New(errors.ErrCodeViewNotFound, "view %q does not exist", viewID)
	}
	if !view.Kind.Layoutable() {
		return nil, errors.New(errors.ErrCodeUnsupportedKind, "view %q has kind %q which cannot be auto-laid-out", viewID, view.Kind)
	}

	selected := selectionSet(opts, selection)

	// Pass 1: eligible view nodes.
	included := make([]*model.ViewNode, 0, len(view.Nodes))
	for _, vn := range view.Nodes {
		if !vn.Kind.Semantic() {
			continue
		}
		if selected != nil && !selected[vn.ID] {
			continue
		}
		included = append(included, vn)
	}

	g := &Graph{Nodes: make([]Node, 0, len(included))}
	nodeIDs := make(map[string]bool, len(included))
	for _, vn := range included {
		g.Nodes = append(g.Nodes, extractNode(m, view, vn, included))
		nodeIDs[vn.ID] = true
	}

	// Pass 2: edges, preferring the view's materialized connection list.
	// Only edges with both endpoints in the included node set survive.
	if len(view.Connections) > 0 {
		for _, c := range view.Connections {
			if !nodeIDs[c.SourceID] || !nodeIDs[c.TargetID] {
				continue
			}
			g.Edges = append(g.Edges, extractEdge(m, c, g))
		}
	} else {
		g.Edges = append(g.Edges, legacyEdges(m, view, nodeIDs)...)
	}

	return g, nil
}

// selectionSet returns the deduplicated selection set, or nil when the run
// covers the whole view.
func selectionSet(opts Options, selection []string) map[string]bool {
	if opts.Scope != ScopeSelection {
		return nil
	}
	set := make(map[string]bool, len(selection))
	for _, id := range selection {
		if id != "" {
			set[id] = true
		}
	}
	return set
}

// extractNode builds one layout node: size defaults, lock flag, kind and
// layer hints, and geometric parent inference.
func extractNode(m *model.Model, view *model.View, vn *model.ViewNode, included []*model.ViewNode) Node {
	n := Node{
		ID:      vn.ID,
		Width:   vn.Width,
		Height:  vn.Height,
		Locked:  vn.Locked,
		GroupID: vn.GroupID,
	}

	isContainer := vn.Kind == model.NodeKindContainer
	if n.Width <= 0 || n.Height <= 0 {
		if isContainer {
			n.Width, n.Height = defaultContainerWidth, defaultContainerHeight
		} else {
			n.Width, n.Height = defaultNodeWidth, defaultNodeHeight
		}
	}

	if elem := m.Element(vn.ElementID); elem != nil {
		n.Kind = elem.Type
		n.LayerHint = string(elem.Layer())
	} else if isContainer {
		n.Kind = "container"
	}

	if parent := innermostContainer(vn, included); parent != nil {
		n.ParentID = parent.ID
	}

	return n
}

// innermostContainer finds the smallest container among the included nodes
// whose bounds fully enclose vn. Containment is recomputed from geometry on
// every extraction, never cached across model edits.
//
// Containment is inclusive, so two containers with identical bounds enclose
// each other. Mutual enclosure is broken by id: only the lexically smaller
// container may act as parent, which keeps the parent chain strictly ordered
// by (area, id) and therefore acyclic.
func innermostContainer(vn *model.ViewNode, included []*model.ViewNode) *model.ViewNode {
	var best *model.ViewNode
	for _, cand := range included {
		if cand == vn || cand.Kind != model.NodeKindContainer {
			continue
		}
		if !cand.Bounds().Contains(vn.Bounds()) {
			continue
		}
		if vn.Kind == model.NodeKindContainer && vn.Bounds().Contains(cand.Bounds()) && cand.ID >= vn.ID {
			continue
		}
		if best == nil || cand.Bounds().Area() < best.Bounds().Area() ||
			(cand.Bounds().Area() == best.Bounds().Area() && cand.ID < best.ID) {
			best = cand
		}
	}
	return best
}

// extractEdge builds one layout edge from a materialized connection,
// carrying relationship weight/kind and manual anchors as port hints.
func extractEdge(m *model.Model, c *model.ViewConnection, g *Graph) Edge {
	e := Edge{
		ID:       c.ID,
		SourceID: c.SourceID,
		TargetID: c.TargetID,
	}
	if rel := m.Relationship(c.RelationshipID); rel != nil {
		e.Weight = float64(rel.Weight)
		e.Kind = rel.Type
	}
	if c.SourceAnchor != "" {
		e.SourcePortID = addPort(g, c.SourceID, c.SourceAnchor)
	}
	if c.TargetAnchor != "" {
		e.TargetPortID = addPort(g, c.TargetID, c.TargetAnchor)
	}
	return e
}

// addPort materializes a manual endpoint anchor as a port on the node and
// returns the port id.
func addPort(g *Graph, nodeID, side string) string {
	portID := nodeID + ":" + side
	for i := range g.Nodes {
		if g.Nodes[i].ID != nodeID {
			continue
		}
		for _, p := range g.Nodes[i].Ports {
			if p.ID == portID {
				return portID
			}
		}
		g.Nodes[i].Ports = append(g.Nodes[i].Ports, Port{ID: portID, Side: side})
		return portID
	}
	return ""
}

// legacyEdges derives edges from model relationships for views without a
// materialized connection list. The edge id is the relationship id.
func legacyEdges(m *model.Model, view *model.View, nodeIDs map[string]bool) []Edge {
	nodeByElement := make(map[string]string)
	for _, vn := range view.Nodes {
		if nodeIDs[vn.ID] && vn.ElementID != "" {
			nodeByElement[vn.ElementID] = vn.ID
		}
	}

	var edges []Edge
	for _, rel := range m.Relationships {
		src, okS := nodeByElement[rel.SourceID]
		dst, okT := nodeByElement[rel.TargetID]
		if !okS || !okT {
			continue
		}
		edges = append(edges, Edge{
			ID:       rel.ID,
			SourceID: src,
			TargetID: dst,
			Weight:   float64(rel.Weight),
			Kind:     rel.Type,
		})
	}
	return edges
}
