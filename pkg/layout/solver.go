package layout

import (
	"context"
)

// Solver algorithm names, in the external engine's vocabulary.
const (
	AlgorithmLayered = "layered"
	AlgorithmTree    = "mrtree"
	AlgorithmStress  = "stress"
	AlgorithmRadial  = "radial"
)

// =============================================================================
// Solver Graph - What the External Engine Sees
// =============================================================================

// Padding is the space a container reserves inside its border so children
// do not touch it.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// SolverNode is one node of the solver graph. Children make the graph
// hierarchical; the engine lays out each container's children in the
// container's local coordinate space.
type SolverNode struct {
	ID       string
	Width    float64
	Height   float64
	Ports    []Port
	Padding  Padding
	Children []*SolverNode
}

// SolverEdge connects two nodes anywhere in the hierarchy.
type SolverEdge struct {
	ID         string
	SourceID   string
	TargetID   string
	SourcePort string
	TargetPort string
	Weight     float64
}

// SolverGraph is the root sent to the external engine.
type SolverGraph struct {
	Children []*SolverNode
	Edges    []SolverEdge
}

// SolverConfig is the engine configuration derived from [Options].
type SolverConfig struct {
	Algorithm    string  // layered, mrtree, stress, radial
	Direction    string  // RIGHT or DOWN
	NodeSpacing  float64 // spacing between nodes within a layer
	LayerSpacing float64 // spacing between adjacent layers
	EdgeRouting  string  // POLYLINE or ORTHOGONAL
}

// =============================================================================
// Solver Result
// =============================================================================

// SolverCell is one node's computed geometry. Coordinates are relative to
// the node's parent container (top-level nodes are relative to the graph
// origin); the hierarchical adapter accumulates them to absolute space.
type SolverCell struct {
	X, Y          float64
	Width, Height float64
}

// SolverRoute is one edge's computed path: start point, interior bend
// points, end point, in the coordinate space of the edge's containing
// node.
type SolverRoute struct {
	Points []Point
}

// SolverResult is the engine's answer. Nodes the engine silently dropped
// are simply absent from Cells.
type SolverResult struct {
	Cells  map[string]SolverCell
	Routes map[string]SolverRoute
}

// =============================================================================
// Solver Boundary
// =============================================================================

// Solver is the external layout engine boundary. Implementations translate
// the solver graph into their native representation, run the algorithm, and
// translate positions and edge routes back.
//
// Solve must be resilient to empty graphs: zero children yields an
// immediate empty result. Any other failure is returned as-is; the engine
// propagates solver errors unchanged to the caller (the radial fallback in
// the flat adapter is the single documented exception).
type Solver interface {
	Solve(ctx context.Context, graph *SolverGraph, cfg SolverConfig) (*SolverResult, error)
}

// SolverProvider defers solver construction until first use. Engines that
// load lazily (native libraries, WASM runtimes) keep their load cost out of
// application startup; the provider call is the pipeline's only suspension
// point besides the solve itself.
type SolverProvider interface {
	Solver(ctx context.Context) (Solver, error)
}

// StaticProvider wraps an already constructed solver.
type StaticProvider struct {
	S Solver
}

// Solver returns the wrapped solver.
func (p StaticProvider) Solver(ctx context.Context) (Solver, error) {
	return p.S, nil
}

// SolverFunc adapts a function to the Solver interface, used by tests.
type SolverFunc func(ctx context.Context, graph *SolverGraph, cfg SolverConfig) (*SolverResult, error)

// Solve calls the function.
func (f SolverFunc) Solve(ctx context.Context, graph *SolverGraph, cfg SolverConfig) (*SolverResult, error) {
	return f(ctx, graph, cfg)
}
