// Package graphviz adapts the Graphviz layout engines to the solver
// boundary of pkg/layout.
//
// Each solve serializes the solver graph to DOT, runs the algorithm's
// engine (dot, neato, or twopi) through goccy/go-graphviz, and parses the
// attributed DOT output back into positions and edge routes. Containment
// maps onto clusters; compound edges let connections terminate at a
// container border.
package graphviz

import (
	"bytes"
	"context"
	"sync"

	"github.com/goccy/go-graphviz"

	"github.com/archonhq/archon/pkg/errors"
	"github.com/archonhq/archon/pkg/layout"
)

// Engine is the Graphviz-backed solver. It holds no state; every solve
// creates and tears down its own Graphviz instance.
type Engine struct{}

var _ layout.Solver = (*Engine)(nil)

// New creates a Graphviz solver.
func New() *Engine {
	return &Engine{}
}

// Solve lays out the graph with the engine matching cfg.Algorithm.
func (e *Engine) Solve(ctx context.Context, sg *layout.SolverGraph, cfg layout.SolverConfig) (*layout.SolverResult, error) {
	if len(sg.Children) == 0 {
		return &layout.SolverResult{Cells: map[string]layout.SolverCell{}}, nil
	}

	dot := buildDOT(sg, cfg)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSolverUnavailable, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(engineFor(cfg.Algorithm))

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSolver, err, "parse layout graph")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSolver, err, "run %s layout", cfg.Algorithm)
	}

	return parseResult(buf.Bytes(), sg)
}

// engineFor maps solver algorithm names onto Graphviz engines. The layered
// and tree algorithms both use dot; stress maps to the force-directed
// neato, radial to twopi.
func engineFor(algorithm string) graphviz.Layout {
	switch algorithm {
	case layout.AlgorithmStress:
		return graphviz.NEATO
	case layout.AlgorithmRadial:
		return graphviz.TWOPI
	default:
		return graphviz.DOT
	}
}

// =============================================================================
// Provider
// =============================================================================

// Provider constructs the solver on first use, keeping Graphviz's native
// setup cost out of application startup for runs that never solve.
type Provider struct {
	once   sync.Once
	engine *Engine
}

var _ layout.SolverProvider = (*Provider)(nil)

// NewProvider creates a lazy provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Solver returns the shared engine, constructing it on the first call.
func (p *Provider) Solver(ctx context.Context) (layout.Solver, error) {
	p.once.Do(func() {
		p.engine = New()
	})
	return p.engine, nil
}
