package layout

import (
	"github.com/archonhq/archon/pkg/model"
)

// Commit writes post-processed geometry back into the view through the
// store's mutation surface. It is the idempotent tail of the pipeline:
// when every candidate position (and size, for hierarchical runs) already
// matches the view and no edge routes were computed, nothing is written -
// no mutation, no dirty flag, no change event. When routes are present the
// commit always proceeds, since routes may differ even when positions
// coincide.
//
// Returns the number of geometry fields actually scheduled for change (0
// on a skipped commit). Candidate geometry for node ids the view does not
// contain is dropped silently.
func Commit(store *model.Store, viewID string, out *Output) (int, error) {
	view, err := store.View(viewID)
	if err != nil {
		return 0, err
	}

	geo := make(model.GeometrySet)
	diff := 0
	for _, n := range view.Nodes {
		p, ok := out.Positions[n.ID]
		if !ok {
			continue
		}
		g := model.Geometry{}
		if p.X != n.X || p.Y != n.Y {
			x, y := p.X, p.Y
			g.X, g.Y = &x, &y
			diff += 2
		}
		if s, ok := out.Sizes[n.ID]; ok && (s.X != n.Width || s.Y != n.Height) {
			w, h := s.X, s.Y
			g.Width, g.Height = &w, &h
			diff += 2
		}
		if g.X != nil || g.Width != nil {
			geo[n.ID] = g
		}
	}

	if diff == 0 && len(out.EdgeRoutes) == 0 {
		return 0, nil
	}

	var routes map[string][]model.Point
	if len(out.EdgeRoutes) > 0 {
		routes = make(map[string][]model.Point, len(out.EdgeRoutes))
		for id, r := range out.EdgeRoutes {
			if len(r.Points) == 0 {
				continue
			}
			pts := make([]model.Point, len(r.Points))
			for i, p := range r.Points {
				pts[i] = model.Point{X: p.X, Y: p.Y}
			}
			routes[id] = pts
		}
	}

	if err := store.ApplyGeometry(viewID, geo, routes); err != nil {
		return 0, err
	}
	return diff, nil
}
