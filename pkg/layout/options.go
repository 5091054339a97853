package layout

import (
	"github.com/archonhq/archon/pkg/errors"
)

// =============================================================================
// Option Vocabulary
// =============================================================================

// Direction is the primary flow direction of the layout.
type Direction string

const (
	DirectionRight Direction = "RIGHT"
	DirectionDown  Direction = "DOWN"
)

// Routing selects the edge routing style requested from the solver.
type Routing string

const (
	RoutingPolyline   Routing = "POLYLINE"
	RoutingOrthogonal Routing = "ORTHOGONAL"
)

// Scope selects which view nodes participate in a run.
type Scope string

const (
	ScopeAll       Scope = "all"
	ScopeSelection Scope = "selection"
)

// Preset names a layout topology preset mapped to a solver algorithm.
type Preset string

const (
	PresetFlow      Preset = "flow"
	PresetTree      Preset = "tree"
	PresetNetwork   Preset = "network"
	PresetRadial    Preset = "radial"
	PresetFlowBands Preset = "flow_bands"
)

// DefaultSpacing is the node-node spacing in pixels when unset.
const DefaultSpacing = 80.0

// GridSize is the snap grid unit applied by post-processing.
const GridSize = 10.0

// =============================================================================
// Options
// =============================================================================

// Options configures one auto-layout run. Options are pure values with no
// identity; both the solver adapters (algorithm, spacing) and the
// post-processor (locked-node preservation) consume them.
//
// The zero value is not ready for use - call SetDefaults (or Validate,
// which implies it) first.
type Options struct {
	Direction   Direction `json:"direction,omitempty"`
	Spacing     float64   `json:"spacing,omitempty"`
	EdgeRouting Routing   `json:"edge_routing,omitempty"`
	Scope       Scope     `json:"scope,omitempty"`

	// RespectLocked preserves the stored position of locked nodes.
	RespectLocked bool `json:"respect_locked,omitempty"`

	Preset Preset `json:"preset,omitempty"`
}

// SetDefaults fills unset enum and spacing fields with their defaults.
// RespectLocked is left alone: false is a meaningful caller choice, so
// only DefaultOptions turns it on.
func (o *Options) SetDefaults() {
	if o.Direction == "" {
		o.Direction = DirectionRight
	}
	if o.Spacing == 0 {
		o.Spacing = DefaultSpacing
	}
	if o.EdgeRouting == "" {
		o.EdgeRouting = RoutingPolyline
	}
	if o.Scope == "" {
		o.Scope = ScopeAll
	}
	if o.Preset == "" {
		o.Preset = PresetFlow
	}
}

// DefaultOptions returns fully defaulted options with locked nodes
// respected.
func DefaultOptions() Options {
	o := Options{RespectLocked: true}
	o.SetDefaults()
	return o
}

// Validate checks enum fields and applies defaults. Invalid values return
// INVALID_OPTION errors.
func (o *Options) Validate() error {
	o.SetDefaults()

	switch o.Direction {
	case DirectionRight, DirectionDown:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "invalid direction %q (must be RIGHT or DOWN)", o.Direction)
	}

	switch o.EdgeRouting {
	case RoutingPolyline, RoutingOrthogonal:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "invalid edge routing %q (must be POLYLINE or ORTHOGONAL)", o.EdgeRouting)
	}

	switch o.Scope {
	case ScopeAll, ScopeSelection:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "invalid scope %q (must be all or selection)", o.Scope)
	}

	switch o.Preset {
	case PresetFlow, PresetTree, PresetNetwork, PresetRadial, PresetFlowBands:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "invalid preset %q", o.Preset)
	}

	if o.Spacing < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "spacing must be non-negative, got %v", o.Spacing)
	}

	return nil
}

// spacingMultiplier returns the preset-specific node spacing factor. The
// external algorithms produce visually cramped results for network and
// radial topologies at default spacing.
func (o Options) spacingMultiplier() float64 {
	switch o.Preset {
	case PresetNetwork:
		return 1.75
	case PresetRadial:
		return 1.35
	default:
		return 1.0
	}
}

// EffectiveSpacing returns the node spacing after the preset multiplier.
func (o Options) EffectiveSpacing() float64 {
	return o.Spacing * o.spacingMultiplier()
}

// Algorithm maps the preset to the solver's algorithm vocabulary.
// Hierarchical graphs never receive the radial algorithm; see the
// hierarchical adapter.
func (o Options) Algorithm() string {
	switch o.Preset {
	case PresetTree:
		return AlgorithmTree
	case PresetNetwork:
		return AlgorithmStress
	case PresetRadial:
		return AlgorithmRadial
	default:
		return AlgorithmLayered
	}
}
