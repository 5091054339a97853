package model

import (
	"github.com/archonhq/archon/pkg/errors"
)

// =============================================================================
// View Kinds
// =============================================================================

// ViewKind distinguishes notations with different layout semantics.
type ViewKind string

const (
	// ViewKindArchimate is a layered architecture notation. Auto-layout
	// applies semantic layer banding to these views.
	ViewKindArchimate ViewKind = "archimate"

	// ViewKindFlow is a generic flow/box-and-line notation.
	ViewKindFlow ViewKind = "flow"

	// ViewKindSketch is a free-form canvas with no semantic graph.
	// Sketch views cannot be auto-laid-out.
	ViewKindSketch ViewKind = "sketch"
)

// Layoutable reports whether views of this kind have a semantic graph the
// auto-layout engine can extract.
func (k ViewKind) Layoutable() bool {
	return k == ViewKindArchimate || k == ViewKindFlow
}

// =============================================================================
// View Node Kinds
// =============================================================================

// NodeKind distinguishes semantic nodes from decorative view-local objects.
type NodeKind string

const (
	// NodeKindElement is a node backed by a model element.
	NodeKindElement NodeKind = "element"

	// NodeKindContainer is an element node that geometrically nests other
	// nodes (pool, lane, grouping package).
	NodeKindContainer NodeKind = "container"

	// NodeKindNote is a decorative annotation with no semantic identity.
	NodeKindNote NodeKind = "note"

	// NodeKindLabel is a decorative text label.
	NodeKindLabel NodeKind = "label"

	// NodeKindGroup is a decorative group box with no semantic identity.
	NodeKindGroup NodeKind = "group"
)

// Semantic reports whether nodes of this kind participate in the layout graph.
func (k NodeKind) Semantic() bool {
	return k == NodeKindElement || k == NodeKindContainer
}

// =============================================================================
// Geometry Primitives
// =============================================================================

// Point is a coordinate in view space.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Bounds is an axis-aligned rectangle in view space.
type Bounds struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Contains reports whether other lies fully inside b.
func (b Bounds) Contains(other Bounds) bool {
	return other.X >= b.X &&
		other.Y >= b.Y &&
		other.X+other.Width <= b.X+b.Width &&
		other.Y+other.Height <= b.Y+b.Height
}

// Area returns the rectangle area.
func (b Bounds) Area() float64 { return b.Width * b.Height }

// =============================================================================
// View Nodes and Connections
// =============================================================================

// ViewNode is a positioned occurrence of an element (or decoration) in a view.
type ViewNode struct {
	ID        string   `json:"id" bson:"id"`
	ElementID string   `json:"element,omitempty" bson:"element,omitempty"`
	Kind      NodeKind `json:"kind" bson:"kind"`

	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	// Locked pins the node; auto-layout preserves its position when the
	// run respects locked nodes.
	Locked bool `json:"locked,omitempty" bson:"locked,omitempty"`

	// GroupID ties nodes that should stay spatially close (alignment
	// groups created in the editor).
	GroupID string `json:"group,omitempty" bson:"group,omitempty"`

	// Text is the content of decorative notes and labels.
	Text string `json:"text,omitempty" bson:"text,omitempty"`
}

// Bounds returns the node's bounding rectangle.
func (n *ViewNode) Bounds() Bounds {
	return Bounds{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// ViewConnection materializes a relationship between two nodes of a view.
type ViewConnection struct {
	ID             string `json:"id" bson:"id"`
	RelationshipID string `json:"relationship,omitempty" bson:"relationship,omitempty"`
	SourceID       string `json:"source" bson:"source"`
	TargetID       string `json:"target" bson:"target"`

	// Bendpoints are interior route points between the endpoints.
	Bendpoints []Point `json:"bendpoints,omitempty" bson:"bendpoints,omitempty"`

	// SourceAnchor and TargetAnchor are manual endpoint-attachment
	// overrides ("top", "left", ...). Cleared when auto-routing commits.
	SourceAnchor string `json:"source_anchor,omitempty" bson:"source_anchor,omitempty"`
	TargetAnchor string `json:"target_anchor,omitempty" bson:"target_anchor,omitempty"`
}

// =============================================================================
// View
// =============================================================================

// View is a diagram over a subset of the model.
type View struct {
	ID   string   `json:"id" bson:"id"`
	Name string   `json:"name" bson:"name"`
	Kind ViewKind `json:"kind" bson:"kind"`

	Nodes       []*ViewNode       `json:"nodes,omitempty" bson:"nodes,omitempty"`
	Connections []*ViewConnection `json:"connections,omitempty" bson:"connections,omitempty"`
}

// Node returns the view node with the given id, or nil.
func (v *View) Node(id string) *ViewNode {
	for _, n := range v.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Connection returns the connection with the given id, or nil.
func (v *View) Connection(id string) *ViewConnection {
	for _, c := range v.Connections {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// validate checks node and connection integrity against the element set.
func (v *View) validate(elems map[string]bool) error {
	if err := errors.ValidateID(v.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidModel, err, "view id")
	}

	nodes := make(map[string]bool, len(v.Nodes))
	for _, n := range v.Nodes {
		if nodes[n.ID] {
			return errors.New(errors.ErrCodeInvalidModel, "view %s: duplicate node id %q", v.ID, n.ID)
		}
		nodes[n.ID] = true
		if n.Kind.Semantic() && n.ElementID != "" && !elems[n.ElementID] {
			return errors.New(errors.ErrCodeInvalidModel, "view %s: node %s references unknown element %q", v.ID, n.ID, n.ElementID)
		}
	}

	for _, c := range v.Connections {
		if !nodes[c.SourceID] {
			return errors.New(errors.ErrCodeInvalidModel, "view %s: connection %s references unknown source node %q", v.ID, c.ID, c.SourceID)
		}
		if !nodes[c.TargetID] {
			return errors.New(errors.ErrCodeInvalidModel, "view %s: connection %s references unknown target node %q", v.ID, c.ID, c.TargetID)
		}
	}

	return nil
}
