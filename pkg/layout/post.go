package layout

import (
	"math"
	"sort"

	"github.com/archonhq/archon/pkg/model"
)

// Overlap tolerance in pixels. Two nodes whose boxes intersect by less
// than this are left alone; anything deeper gets nudged apart.
const overlapTolerance = 2.0

// Vertical padding added above the tallest member of a layer band, and the
// minimum horizontal gap enforced between same-band siblings.
const (
	bandPadding = 30.0
	bandMinGap  = 20.0
)

// PostProcess runs the geometry pipeline over a solver output: lock
// restore, grid snap, overlap nudge, layer banding, and edge-route
// translation, in that order. The input output is never mutated; callers
// get a fresh copy even when every step is a no-op.
//
// current carries the positions nodes hold in the view right now; locked
// nodes are pinned back to these before anything else runs, which is why a
// cached solver output must still pass through here on every run.
func PostProcess(g *Graph, out *Output, current map[string]Point, kind model.ViewKind, opts Options) *Output {
	res := out.Clone()
	original := out.Positions

	fixed := make(map[string]bool)
	if opts.RespectLocked {
		restoreLocked(g, res, current, fixed)
	}

	snapToGrid(res, fixed)

	flat := !g.HasHierarchy()
	if flat {
		nudgeOverlaps(g, res, fixed)
		if kind == model.ViewKindArchimate || opts.Preset == PresetFlowBands {
			bandLayers(g, res, fixed)
		}
	}

	translateRoutes(g, res, original)
	return res
}

// restoreLocked pins every locked node back to its current view position
// and marks it fixed so no later step moves it. Locked nodes the view has
// no position for keep the solver's proposal but are still fixed.
func restoreLocked(g *Graph, out *Output, current map[string]Point, fixed map[string]bool) {
	for _, n := range g.Nodes {
		if !n.Locked {
			continue
		}
		fixed[n.ID] = true
		if p, ok := current[n.ID]; ok {
			out.Positions[n.ID] = p
		}
	}
}

// snapToGrid rounds every non-fixed position to the nearest grid multiple.
func snapToGrid(out *Output, fixed map[string]bool) {
	for id, p := range out.Positions {
		if fixed[id] {
			continue
		}
		out.Positions[id] = Point{
			X: math.Round(p.X/GridSize) * GridSize,
			Y: math.Round(p.Y/GridSize) * GridSize,
		}
	}
}

// nudgeOverlaps shifts non-fixed nodes rightward until no pair overlaps by
// more than the tolerance. Nodes are visited left to right so an earlier
// nudge cannot reintroduce an overlap behind it. Flat mode only; inside a
// container this could push children through the border.
func nudgeOverlaps(g *Graph, out *Output, fixed map[string]bool) {
	type box struct {
		id   string
		w, h float64
	}
	boxes := make([]box, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, ok := out.Positions[n.ID]; !ok {
			continue
		}
		boxes = append(boxes, box{id: n.ID, w: n.Width, h: n.Height})
	}
	sort.SliceStable(boxes, func(i, j int) bool {
		pi, pj := out.Positions[boxes[i].id], out.Positions[boxes[j].id]
		if pi.X != pj.X {
			return pi.X < pj.X
		}
		if pi.Y != pj.Y {
			return pi.Y < pj.Y
		}
		return boxes[i].id < boxes[j].id
	})

	for i := 1; i < len(boxes); i++ {
		if fixed[boxes[i].id] {
			continue
		}
		for j := 0; j < i; j++ {
			a, b := boxes[j], boxes[i]
			pa, pb := out.Positions[a.id], out.Positions[b.id]
			overlapX := pa.X + a.w - pb.X
			overlapY := math.Min(pa.Y+a.h, pb.Y+b.h) - math.Max(pa.Y, pb.Y)
			if overlapX > overlapTolerance && overlapY > overlapTolerance && pb.X+b.w > pa.X {
				shifted := pa.X + a.w + GridSize
				shifted = math.Round(shifted/GridSize) * GridSize
				out.Positions[b.id] = Point{X: shifted, Y: pb.Y}
			}
		}
	}
}

// bandLayers buckets nodes by layer hint into ordered horizontal bands,
// aligns each band to a shared row sized to its tallest member, and spreads
// same-band siblings so they keep a minimum horizontal gap. Fixed nodes
// keep their positions and do not influence band geometry.
func bandLayers(g *Graph, out *Output, fixed map[string]bool) {
	bands := make(map[model.Layer][]Node)
	for _, n := range g.Nodes {
		if fixed[n.ID] {
			continue
		}
		if _, ok := out.Positions[n.ID]; !ok {
			continue
		}
		layer := model.Layer(n.LayerHint)
		bands[layer] = append(bands[layer], n)
	}
	if len(bands) == 0 {
		return
	}

	y := 0.0
	for _, layer := range model.LayerOrder {
		members := bands[layer]
		if len(members) == 0 {
			continue
		}

		tallest := 0.0
		for _, n := range members {
			if n.Height > tallest {
				tallest = n.Height
			}
		}

		sort.SliceStable(members, func(i, j int) bool {
			pi, pj := out.Positions[members[i].ID], out.Positions[members[j].ID]
			if pi.X != pj.X {
				return pi.X < pj.X
			}
			return members[i].ID < members[j].ID
		})

		rowY := math.Round(y/GridSize) * GridSize
		minX := math.Inf(-1)
		for _, n := range members {
			p := out.Positions[n.ID]
			x := p.X
			if x < minX {
				// Snapping a clamped member rounds up so the enforced gap
				// stays a true minimum.
				x = math.Ceil(minX/GridSize) * GridSize
			} else {
				x = math.Round(x/GridSize) * GridSize
			}
			out.Positions[n.ID] = Point{X: x, Y: rowY}
			minX = x + n.Width + bandMinGap
		}

		y = rowY + tallest + bandPadding
	}
}

// translateRoutes shifts each edge's bend points by the average of its two
// endpoints' movement between the raw solver output and the post-processed
// positions, keeping routes visually attached across snapping and nudging.
func translateRoutes(g *Graph, out *Output, original map[string]Point) {
	if len(out.EdgeRoutes) == 0 {
		return
	}
	for _, e := range g.Edges {
		r, ok := out.EdgeRoutes[e.ID]
		if !ok || len(r.Points) == 0 {
			continue
		}
		var dx, dy float64
		n := 0.0
		for _, id := range []string{e.SourceID, e.TargetID} {
			before, okB := original[id]
			after, okA := out.Positions[id]
			if okB && okA {
				dx += after.X - before.X
				dy += after.Y - before.Y
				n++
			}
		}
		if n == 0 || (dx == 0 && dy == 0) {
			continue
		}
		dx /= n
		dy /= n
		pts := make([]Point, len(r.Points))
		for i, p := range r.Points {
			pts[i] = Point{X: p.X + dx, Y: p.Y + dy}
		}
		out.EdgeRoutes[e.ID] = Route{Points: pts}
	}
}
