package model

import (
	"github.com/google/uuid"

	"github.com/archonhq/archon/pkg/errors"
)

// =============================================================================
// Geometry Commit Set
// =============================================================================

// Geometry is one node's candidate geometry in a commit set. Nil fields are
// left untouched; hierarchical layout sets sizes, flat layout only positions.
type Geometry struct {
	X      *float64
	Y      *float64
	Width  *float64
	Height *float64
}

// GeometrySet maps node ids to candidate geometry. It is write-only output
// of the layout pipeline, never persisted.
type GeometrySet map[string]Geometry

// =============================================================================
// Change Events
// =============================================================================

// EventKind identifies the category of a store mutation.
type EventKind string

const (
	// EventGeometryCommitted fires after a geometry commit changed a view.
	EventGeometryCommitted EventKind = "geometry-committed"
)

// Event describes one store mutation, delivered to subscribers.
type Event struct {
	Kind    EventKind
	ViewID  string
	Changed int // node geometries actually modified
	Routes  int // connection routes applied
}

// =============================================================================
// Store
// =============================================================================

// Store wraps a Model with the mutation surface the rest of the application
// uses. It is a single-writer structure: mutations are applied through
// explicit commit methods, never concurrently. Reads hand out the live model
// objects; callers must not mutate them directly.
type Store struct {
	model *Model
	subs  []func(Event)
	dirty bool
}

// NewStore wraps a model in a store.
func NewStore(m *Model) *Store {
	return &Store{model: m}
}

// Model returns the wrapped model.
func (s *Store) Model() *Model { return s.model }

// Dirty reports whether any mutation has been committed since the store was
// created or ClearDirty was called.
func (s *Store) Dirty() bool { return s.dirty }

// ClearDirty resets the dirty flag, typically after saving to disk.
func (s *Store) ClearDirty() { s.dirty = false }

// Subscribe registers a change listener and returns an unsubscribe function.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subs = append(s.subs, fn)
	idx := len(s.subs) - 1
	return func() { s.subs[idx] = nil }
}

func (s *Store) notify(ev Event) {
	for _, fn := range s.subs {
		if fn != nil {
			fn(ev)
		}
	}
}

// View returns the view with the given id.
// Returns a VIEW_NOT_FOUND error if the id is unknown.
func (s *Store) View(id string) (*View, error) {
	if v := s.model.View(id); v != nil {
		return v, nil
	}
	return nil, errors.New(errors.ErrCodeViewNotFound, "view %q does not exist", id)
}

// =============================================================================
// Geometry Commit
// =============================================================================

// ApplyGeometry is the geometry-commit mutation. It updates node
// positions/sizes from the commit set, clears manually persisted bendpoints
// and endpoint anchors on the view's connections, applies freshly computed
// routes last, and re-materializes the connection list. Subscribers are
// notified once.
//
// Geometry for unknown node ids is ignored key-by-key. An empty commit with
// no routes is a no-op: no mutation, no dirty flag, no notification.
func (s *Store) ApplyGeometry(viewID string, geo GeometrySet, routes map[string][]Point) error {
	view, err := s.View(viewID)
	if err != nil {
		return err
	}

	changed := 0
	for _, n := range view.Nodes {
		g, ok := geo[n.ID]
		if !ok {
			continue
		}
		if g.X != nil && *g.X != n.X {
			n.X = *g.X
			changed++
		}
		if g.Y != nil && *g.Y != n.Y {
			n.Y = *g.Y
			changed++
		}
		if g.Width != nil && *g.Width != n.Width {
			n.Width = *g.Width
			changed++
		}
		if g.Height != nil && *g.Height != n.Height {
			n.Height = *g.Height
			changed++
		}
	}

	if changed == 0 && len(routes) == 0 {
		return nil
	}

	// Stale manual routing must not linger after an auto-layout commit.
	for _, c := range view.Connections {
		c.Bendpoints = nil
		c.SourceAnchor = ""
		c.TargetAnchor = ""
	}

	applied := 0
	for _, c := range view.Connections {
		if pts, ok := routes[c.ID]; ok && len(pts) > 0 {
			c.Bendpoints = append([]Point(nil), pts...)
			applied++
		}
	}

	s.rematerializeConnections(view)

	s.dirty = true
	s.notify(Event{
		Kind:    EventGeometryCommitted,
		ViewID:  viewID,
		Changed: changed,
		Routes:  applied,
	})
	return nil
}

// rematerializeConnections rebuilds the view's connection list against the
// current node set: connections whose endpoints vanished are dropped, and
// relationships whose endpoints are both visible but not yet materialized
// get a connection. Existing connections (and their routes) are kept.
func (s *Store) rematerializeConnections(view *View) {
	nodeByElement := make(map[string]string, len(view.Nodes))
	nodeIDs := make(map[string]bool, len(view.Nodes))
	for _, n := range view.Nodes {
		nodeIDs[n.ID] = true
		if n.Kind.Semantic() && n.ElementID != "" {
			nodeByElement[n.ElementID] = n.ID
		}
	}

	kept := view.Connections[:0]
	materialized := make(map[string]bool)
	for _, c := range view.Connections {
		if !nodeIDs[c.SourceID] || !nodeIDs[c.TargetID] {
			continue
		}
		kept = append(kept, c)
		if c.RelationshipID != "" {
			materialized[c.RelationshipID] = true
		}
	}
	view.Connections = kept

	for _, r := range s.model.Relationships {
		if materialized[r.ID] {
			continue
		}
		src, okS := nodeByElement[r.SourceID]
		dst, okT := nodeByElement[r.TargetID]
		if !okS || !okT {
			continue
		}
		view.Connections = append(view.Connections, &ViewConnection{
			ID:             uuid.NewString(),
			RelationshipID: r.ID,
			SourceID:       src,
			TargetID:       dst,
		})
	}
}
