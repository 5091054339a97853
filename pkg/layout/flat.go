package layout

import (
	"context"
	"math"
	"slices"
	"strings"
)

// runFlat lays out a graph with no containment: every node is a direct
// child of the solver root, and the solver's coordinates are already
// absolute. The adapter's job is translation, not the algorithm.
//
// A radial preset has a known instability in external engines for some
// inputs; if the engine rejects a radial run, a deterministic internal
// circle placement is substituted rather than failing the pipeline. This
// is the only place a solver error does not propagate.
func runFlat(ctx context.Context, solver Solver, g *Graph, opts Options) (*Output, error) {
	if g.IsEmpty() {
		return &Output{Positions: map[string]Point{}}, nil
	}

	sg := &SolverGraph{Children: make([]*SolverNode, 0, len(g.Nodes))}
	for _, n := range g.Nodes {
		sg.Children = append(sg.Children, &SolverNode{
			ID:     n.ID,
			Width:  n.Width,
			Height: n.Height,
			Ports:  append([]Port(nil), n.Ports...),
		})
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

	cfg := SolverConfig{
		Algorithm:    opts.Algorithm(),
		Direction:    string(opts.Direction),
		NodeSpacing:  opts.EffectiveSpacing(),
		LayerSpacing: opts.EffectiveSpacing(),
		EdgeRouting:  string(opts.EdgeRouting),
	}

	result, err := solver.Solve(ctx, sg, cfg)
	if err != nil {
		if opts.Preset == PresetRadial {
			return circleFallback(g, opts), nil
		}
		return nil, err
	}

	out := &Output{Positions: make(map[string]Point, len(result.Cells))}
	for _, n := range g.Nodes {
		cell, ok := result.Cells[n.ID]
		if !ok {
			// Solver dropped the node: no update downstream, never (0,0).
			continue
		}
		out.Positions[n.ID] = Point{X: cell.X, Y: cell.Y}
	}
	for id, r := range result.Routes {
		if out.EdgeRoutes == nil {
			out.EdgeRoutes = make(map[string]Route)
		}
		out.EdgeRoutes[id] = Route{Points: append([]Point(nil), r.Points...)}
	}

	return out, nil
}

// circleFallback places node centers on a circle, ordered by descending
// edge degree with id as tie-break. The radius is chosen so the
// circumference accommodates the summed node girth plus spacing.
func circleFallback(g *Graph, opts Options) *Output {
	degree := make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges {
		degree[e.SourceID]++
		degree[e.TargetID]++
	}

	order := append([]Node(nil), g.Nodes...)
	slices.SortStableFunc(order, func(a, b Node) int {
		if d := degree[b.ID] - degree[a.ID]; d != 0 {
			return d
		}
		return strings.Compare(a.ID, b.ID)
	})

	spacing := opts.EffectiveSpacing()
	girth := 0.0
	for _, n := range order {
		girth += math.Max(n.Width, n.Height) + spacing
	}
	radius := math.Max(spacing, girth/(2*math.Pi))

	out := &Output{Positions: make(map[string]Point, len(order))}
	step := 2 * math.Pi / float64(len(order))
	for i, n := range order {
		angle := -math.Pi/2 + step*float64(i)
		cx := radius * math.Cos(angle)
		cy := radius * math.Sin(angle)
		out.Positions[n.ID] = Point{
			X: cx - n.Width/2 + radius,
			Y: cy - n.Height/2 + radius,
		}
	}
	return out
}
