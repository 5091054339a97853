package layout

import (
	"context"
	"sort"
)

// Container padding hints sent to the solver so children do not touch the
// container border. The top edge reserves extra room for the title bar.
const (
	containerPaddingTop  = 40.0
	containerPaddingSide = 20.0
)

// runHierarchical lays out a graph with containment. The containment tree
// is built from ParentID references; a node whose declared parent is absent
// from the graph degrades to top-level rather than erroring.
//
// The external engine returns child positions relative to their parent.
// This adapter walks the result tree root-to-leaf, adding each ancestor's
// absolute offset, so the emitted positions are all in the view's top-level
// coordinate space. Container sizes are grown to fit their laid-out
// children and emitted alongside positions.
//
// A radial preset is never applied to a graph with real hierarchy; it is
// silently downgraded to the default layered algorithm, since radial
// placement is incompatible with nested containment.
func runHierarchical(ctx context.Context, solver Solver, g *Graph, opts Options) (*Output, error) {
	if g.IsEmpty() {
		return &Output{Positions: map[string]Point{}}, nil
	}

	nodes := make(map[string]*SolverNode, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes[n.ID] = &SolverNode{
			ID:     n.ID,
			Width:  n.Width,
			Height: n.Height,
			Ports:  append([]Port(nil), n.Ports...),
		}
	}

	parentOf := containmentParents(g)
	hasChildren := make(map[string]bool, len(parentOf))
	for _, pid := range parentOf {
		hasChildren[pid] = true
	}

	sg := &SolverGraph{}
	for _, n := range g.Nodes {
		sn := nodes[n.ID]
		if hasChildren[n.ID] {
			sn.Padding = Padding{
				Top:    containerPaddingTop,
				Right:  containerPaddingSide,
				Bottom: containerPaddingSide,
				Left:   containerPaddingSide,
			}
		}
		if pid := parentOf[n.ID]; pid != "" {
			parent := nodes[pid]
			parent.Children = append(parent.Children, sn)
		} else {
			sg.Children = append(sg.Children, sn)
		}
	}

	for _, e := range g.Edges {
		sg.Edges = append(sg.Edges, SolverEdge{
			ID:         e.ID,
			SourceID:   e.SourceID,
			TargetID:   e.TargetID,
			SourcePort: e.SourcePortID,
			TargetPort: e.TargetPortID,
			Weight:     e.Weight,
		})
	}

	algorithm := opts.Algorithm()
	if algorithm == AlgorithmRadial {
		algorithm = AlgorithmLayered
	}
	cfg := SolverConfig{
		Algorithm:    algorithm,
		Direction:    string(opts.Direction),
		NodeSpacing:  opts.EffectiveSpacing(),
		LayerSpacing: opts.EffectiveSpacing(),
		EdgeRouting:  string(opts.EdgeRouting),
	}

	result, err := solver.Solve(ctx, sg, cfg)
	if err != nil {
		return nil, err
	}

	out := &Output{Positions: make(map[string]Point, len(result.Cells))}

	// Accumulate parent-relative coordinates to absolute, root to leaf.
	var walk func(n *SolverNode, originX, originY float64)
	walk = func(n *SolverNode, originX, originY float64) {
		cell, ok := result.Cells[n.ID]
		if !ok {
			// Solver dropped the subtree root; children degrade with it.
			return
		}
		absX := originX + cell.X
		absY := originY + cell.Y
		out.Positions[n.ID] = Point{X: absX, Y: absY}
		if len(n.Children) > 0 {
			if out.Sizes == nil {
				out.Sizes = make(map[string]Point)
			}
			out.Sizes[n.ID] = Point{X: cell.Width, Y: cell.Height}
		}
		for _, child := range n.Children {
			walk(child, absX, absY)
		}
	}
	for _, root := range sg.Children {
		walk(root, 0, 0)
	}

	growContainers(g, parentOf, out)

	// Route points come back in the coordinate space of the edge source's
	// parent; shift them into top-level space.
	for id, r := range result.Routes {
		if len(r.Points) == 0 {
			continue
		}
		var offset Point
		for _, e := range g.Edges {
			if e.ID != id {
				continue
			}
			if pid := parentOf[e.SourceID]; pid != "" {
				offset = out.Positions[pid]
			}
			break
		}
		pts := make([]Point, len(r.Points))
		for i, p := range r.Points {
			pts[i] = Point{X: p.X + offset.X, Y: p.Y + offset.Y}
		}
		if out.EdgeRoutes == nil {
			out.EdgeRoutes = make(map[string]Route)
		}
		out.EdgeRoutes[id] = Route{Points: pts}
	}

	return out, nil
}

// containmentParents resolves the parent map the containment tree is built
// from: declared parents absent from the graph are dropped, and any parent
// chain that loops back on itself is broken at the node closing the loop,
// which demotes it to top-level. Extraction never produces such a loop, but
// a graph built by hand must still terminate.
func containmentParents(g *Graph) map[string]string {
	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}

	parentOf := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ParentID != "" && ids[n.ParentID] {
			parentOf[n.ID] = n.ParentID
		}
	}

	for _, n := range g.Nodes {
		seen := make(map[string]bool)
		id := n.ID
		for id != "" && !seen[id] {
			seen[id] = true
			id = parentOf[id]
		}
		if id != "" {
			delete(parentOf, id)
		}
	}
	return parentOf
}

// growContainers enforces that every container's emitted size encloses its
// laid-out children plus padding, regardless of what the solver reported.
func growContainers(g *Graph, parentOf map[string]string, out *Output) {
	byID := make(map[string]Node, len(g.Nodes))
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}

	depth := func(n Node) int {
		d := 0
		seen := map[string]bool{n.ID: true}
		for pid := parentOf[n.ID]; pid != "" && !seen[pid]; pid = parentOf[n.ID] {
			seen[pid] = true
			d++
			n = byID[pid]
		}
		return d
	}

	// Deepest children first, so a grown container propagates outward.
	ordered := make([]Node, len(g.Nodes))
	copy(ordered, g.Nodes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return depth(ordered[i]) > depth(ordered[j])
	})

	for _, n := range ordered {
		pid := parentOf[n.ID]
		if pid == "" {
			continue
		}
		childPos, ok := out.Positions[n.ID]
		if !ok {
			continue
		}
		parentPos, ok := out.Positions[pid]
		if !ok {
			continue
		}

		childW, childH := n.Width, n.Height
		if s, ok := out.Sizes[n.ID]; ok {
			childW, childH = s.X, s.Y
		}

		needW := childPos.X + childW + containerPaddingSide - parentPos.X
		needH := childPos.Y + childH + containerPaddingSide - parentPos.Y

		size, ok := out.Sizes[pid]
		if !ok {
			p := byID[pid]
			size = Point{X: p.Width, Y: p.Height}
		}
		if needW > size.X {
			size.X = needW
		}
		if needH > size.Y {
			size.Y = needH
		}
		if out.Sizes == nil {
			out.Sizes = make(map[string]Point)
		}
		out.Sizes[pid] = size
	}
}
