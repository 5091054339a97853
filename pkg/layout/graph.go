package layout

// =============================================================================
// Geometry Primitives
// =============================================================================

// Point is a coordinate in the view's top-level coordinate space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Route is an ordered sequence of points describing an edge path.
type Route struct {
	Points []Point `json:"points"`
}

// =============================================================================
// Graph - Neutral Layout Input
// =============================================================================

// Port is a named attachment point on a node.
type Port struct {
	ID   string `json:"id"`
	Side string `json:"side,omitempty"` // "top", "bottom", "left", "right"
}

// Node is a solver-agnostic layout node. IDs correspond to view node ids in
// the owning view.
type Node struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// ParentID nests this node inside a container node of the same graph.
	// A ParentID referencing a node absent from the graph is treated as
	// top-level.
	ParentID string `json:"parent,omitempty"`

	// Locked marks a user-pinned node whose position must survive layout
	// when the run respects locked nodes.
	Locked bool `json:"locked,omitempty"`

	// Kind is the element type hint (e.g. "business-actor", "container").
	Kind string `json:"kind,omitempty"`

	// GroupID ties alignment-group siblings.
	GroupID string `json:"group,omitempty"`

	// LayerHint buckets the node into a semantic band for notations that
	// normalize rows ("business", "application", "technology", "other").
	LayerHint string `json:"layer,omitempty"`

	Ports []Port `json:"ports,omitempty"`
}

// Edge is a solver-agnostic layout edge. The id maps back to a view
// connection (preferred) or a relationship id (legacy fallback). Both
// endpoints always reference node ids present in the graph; extraction
// drops dangling edges.
type Edge struct {
	ID           string  `json:"id"`
	SourceID     string  `json:"source"`
	TargetID     string  `json:"target"`
	SourcePortID string  `json:"source_port,omitempty"`
	TargetPortID string  `json:"target_port,omitempty"`
	Weight       float64 `json:"weight,omitempty"`
	Kind         string  `json:"kind,omitempty"`
}

// Graph is the neutral layout input: an ordered node and edge sequence.
// Within one graph, node ids are unique and edges reference only known
// node ids.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// IsEmpty reports whether the graph has no nodes.
func (g *Graph) IsEmpty() bool { return len(g.Nodes) == 0 }

// Node returns the node with the given id and whether it exists.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// HasHierarchy reports whether any node declares a parent that is present
// in the graph. Dangling parent references do not count: they degrade to
// top-level nodes.
func (g *Graph) HasHierarchy() bool {
	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}
	for _, n := range g.Nodes {
		if n.ParentID != "" && ids[n.ParentID] {
			return true
		}
	}
	return false
}

// =============================================================================
// Output - Neutral Layout Result
// =============================================================================

// Output is what a solver adapter produces: absolute positions (top-left
// corners in the view's top-level coordinate space) and, optionally, edge
// routes. A node id absent from Positions means the solver had nothing to
// say about it; downstream stages treat that as "no update", never as a
// zero position.
type Output struct {
	Positions map[string]Point `json:"positions"`

	// Sizes carries grown container sizes in hierarchical mode.
	Sizes map[string]Point `json:"sizes,omitempty"` // X=width, Y=height

	EdgeRoutes map[string]Route `json:"edge_routes,omitempty"`
}

// Clone returns a deep copy. Post-processing operates on copies so cached
// outputs are never mutated.
func (o *Output) Clone() *Output {
	out := &Output{Positions: make(map[string]Point, len(o.Positions))}
	for id, p := range o.Positions {
		out.Positions[id] = p
	}
	if o.Sizes != nil {
		out.Sizes = make(map[string]Point, len(o.Sizes))
		for id, s := range o.Sizes {
			out.Sizes[id] = s
		}
	}
	if o.EdgeRoutes != nil {
		out.EdgeRoutes = make(map[string]Route, len(o.EdgeRoutes))
		for id, r := range o.EdgeRoutes {
			pts := append([]Point(nil), r.Points...)
			out.EdgeRoutes[id] = Route{Points: pts}
		}
	}
	return out
}
