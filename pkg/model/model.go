// Package model defines the architecture model domain: elements,
// relationships, and views composed of positioned nodes and connections,
// organized into folders.
//
// The model is the single source of truth the layout engine reads from and
// commits geometry back into. All mutation goes through [Store], which is a
// single-writer structure with explicit commit operations and change
// notifications; nothing in this package is safe for concurrent mutation
// without external synchronization.
//
// # Structure
//
// A [Model] owns elements (the semantic objects), relationships (directed
// semantic links between elements), and views. A [View] shows a subset of
// the model: each [ViewNode] references an element (or is a decorative
// note/label with no semantic identity), and each [ViewConnection]
// materializes a relationship between two visible nodes.
package model

import (
	"strings"

	"github.com/google/uuid"

	"github.com/archonhq/archon/pkg/errors"
)

// =============================================================================
// Layers
// =============================================================================

// Layer buckets elements into ordered semantic bands for notations that
// arrange diagrams in horizontal rows (e.g. ArchiMate-style views).
type Layer string

// Semantic layers in band order, top to bottom.
const (
	LayerBusiness    Layer = "business"
	LayerApplication Layer = "application"
	LayerTechnology  Layer = "technology"
	LayerOther       Layer = "other"
)

// LayerOrder lists layers in their band order, top to bottom.
var LayerOrder = []Layer{LayerBusiness, LayerApplication, LayerTechnology, LayerOther}

// LayerOf derives the semantic layer from an element type.
// Types follow the "layer-name" convention (e.g. "business-actor",
// "application-component", "technology-node"); unrecognized types map
// to LayerOther.
func LayerOf(elementType string) Layer {
	switch {
	case strings.HasPrefix(elementType, "business-"):
		return LayerBusiness
	case strings.HasPrefix(elementType, "application-"):
		return LayerApplication
	case strings.HasPrefix(elementType, "technology-"):
		return LayerTechnology
	default:
		return LayerOther
	}
}

// =============================================================================
// Elements and Relationships
// =============================================================================

// Element is a semantic model object (actor, component, node, ...).
type Element struct {
	ID   string `json:"id" bson:"id"`
	Type string `json:"type" bson:"type"`
	Name string `json:"name,omitempty" bson:"name,omitempty"`

	// Documentation is free-form text attached by the user.
	Documentation string `json:"documentation,omitempty" bson:"documentation,omitempty"`
}

// Layer returns the semantic layer derived from the element type.
func (e *Element) Layer() Layer { return LayerOf(e.Type) }

// Relationship is a directed semantic link between two elements.
type Relationship struct {
	ID       string `json:"id" bson:"id"`
	Type     string `json:"type" bson:"type"`
	SourceID string `json:"source" bson:"source"`
	TargetID string `json:"target" bson:"target"`

	// Weight biases layout: heavier relationships are kept shorter and
	// straighter by the solver. Zero means default weight.
	Weight int `json:"weight,omitempty" bson:"weight,omitempty"`
}

// Folder groups views and elements for organization in the editor tree.
// Folders have no layout semantics.
type Folder struct {
	ID       string    `json:"id" bson:"id"`
	Name     string    `json:"name" bson:"name"`
	ViewIDs  []string  `json:"views,omitempty" bson:"views,omitempty"`
	Children []*Folder `json:"children,omitempty" bson:"children,omitempty"`
}

// =============================================================================
// Model
// =============================================================================

// Model is the root of an architecture model.
type Model struct {
	ID            string          `json:"id" bson:"id"`
	Name          string          `json:"name" bson:"name"`
	Elements      []*Element      `json:"elements,omitempty" bson:"elements,omitempty"`
	Relationships []*Relationship `json:"relationships,omitempty" bson:"relationships,omitempty"`
	Views         []*View         `json:"views,omitempty" bson:"views,omitempty"`
	Folders       []*Folder       `json:"folders,omitempty" bson:"folders,omitempty"`
}

// NewModel creates an empty model with a fresh id.
func NewModel(name string) *Model {
	return &Model{ID: uuid.NewString(), Name: name}
}

// Element returns the element with the given id, or nil.
func (m *Model) Element(id string) *Element {
	for _, e := range m.Elements {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Relationship returns the relationship with the given id, or nil.
func (m *Model) Relationship(id string) *Relationship {
	for _, r := range m.Relationships {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// View returns the view with the given id, or nil.
func (m *Model) View(id string) *View {
	for _, v := range m.Views {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// Validate checks referential integrity: relationships must reference known
// elements, view nodes must reference known elements (when semantic), and
// view connections must reference nodes present in their view.
func (m *Model) Validate() error {
	if m.ID == "" {
		return errors.New(errors.ErrCodeInvalidModel, "model id is empty")
	}

	elems := make(map[string]bool, len(m.Elements))
	for _, e := range m.Elements {
		if err := errors.ValidateID(e.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidModel, err, "element id")
		}
		if elems[e.ID] {
			return errors.New(errors.ErrCodeInvalidModel, "duplicate element id %q", e.ID)
		}
		elems[e.ID] = true
	}

	for _, r := range m.Relationships {
		if !elems[r.SourceID] {
			return errors.New(errors.ErrCodeInvalidModel, "relationship %s references unknown source %q", r.ID, r.SourceID)
		}
		if !elems[r.TargetID] {
			return errors.New(errors.ErrCodeInvalidModel, "relationship %s references unknown target %q", r.ID, r.TargetID)
		}
	}

	for _, v := range m.Views {
		if err := v.validate(elems); err != nil {
			return err
		}
	}

	return nil
}
