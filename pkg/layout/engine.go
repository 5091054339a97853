// Package layout implements the auto-layout pipeline for diagram views.
//
// # Architecture
//
// A run flows through fixed stages:
//
//	Extract -> Normalize -> Signature -> (memo / cache) -> Solve -> PostProcess -> Commit
//
// Extraction turns a view into a solver-agnostic [Graph]; normalization
// makes it canonical so [ComputeSignature] is stable across runs.
// The signature gates two cache tiers: a per-view in-memory [Memo] and an
// optional persistent [cache.Cache]. On a miss the graph is handed to the
// external engine through the [Solver] boundary, in flat or hierarchical
// mode depending on containment. Post-processing and the commit diff run
// on every path, hits included, because they depend on current view state
// rather than on the graph signature.
//
// # Usage
//
//	engine := layout.NewEngine(store, graphviz.NewProvider())
//	result, err := engine.AutoLayoutView(ctx, viewID, layout.DefaultOptions(), nil)
package layout

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/archonhq/archon/pkg/cache"
	"github.com/archonhq/archon/pkg/errors"
	"github.com/archonhq/archon/pkg/model"
	"github.com/archonhq/archon/pkg/observability"
)

// Modes of a layout run.
const (
	ModeFlat         = "flat"
	ModeHierarchical = "hierarchical"
)

// Result sources, in lookup order.
const (
	SourceMemo   = "memo"
	SourceCache  = "cache"
	SourceSolver = "solver"
)

// =============================================================================
// Engine
// =============================================================================

// Engine runs the auto-layout pipeline against one model store. It is a
// single-writer structure like the store it wraps: concurrent runs against
// the same engine are not supported.
type Engine struct {
	store    *model.Store
	provider SolverProvider
	memo     *Memo
	cache    cache.Cache
	keyer    cache.Keyer
	logger   *log.Logger
}

// EngineOption configures an [Engine].
type EngineOption func(*Engine)

// WithCache attaches a persistent second-tier cache.
func WithCache(c cache.Cache, k cache.Keyer) EngineOption {
	return func(e *Engine) {
		e.cache = c
		e.keyer = k
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine over a store and a solver provider. Without
// options it runs with the in-memory memo only and the default logger.
func NewEngine(store *model.Store, provider SolverProvider, opts ...EngineOption) *Engine {
	e := &Engine{
		store:    store,
		provider: provider,
		memo:     NewMemo(),
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Memo exposes the per-view memo, mainly for invalidation on view deletion.
func (e *Engine) Memo() *Memo { return e.memo }

// =============================================================================
// Pipeline
// =============================================================================

// Result summarizes one completed run.
type Result struct {
	ViewID    string  `json:"view_id"`
	Mode      string  `json:"mode"`
	Signature string  `json:"signature"`
	Source    string  `json:"source"` // memo, cache, or solver
	Nodes     int     `json:"nodes"`
	Edges     int     `json:"edges"`
	Changed   int     `json:"changed"` // geometry fields committed
	Skipped   bool    `json:"skipped"` // commit found nothing to write
	Output    *Output `json:"-"`
}

// AutoLayoutView runs the full pipeline for one view and commits the
// resulting geometry. selection is only consulted when opts.Scope is
// ScopeSelection. An empty eligible graph is a successful no-op.
//
// Solver failures are returned unchanged; every other failure carries a
// pkg/errors code.
func (e *Engine) AutoLayoutView(ctx context.Context, viewID string, opts Options, selection []string) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	// A malformed id is just an id that resolves to nothing; the store
	// classifies it the same way as any other unknown view.
	view, err := e.store.View(viewID)
	if err != nil {
		return nil, err
	}

	g, err := Extract(e.store.Model(), viewID, opts, selection)
	if err != nil {
		return nil, err
	}
	g = Normalize(g)
	observability.Layout().OnExtract(ctx, viewID, len(g.Nodes), len(g.Edges))

	res := &Result{ViewID: viewID, Nodes: len(g.Nodes), Edges: len(g.Edges)}
	if g.IsEmpty() {
		res.Mode = ModeFlat
		res.Skipped = true
		e.logger.Debug("auto-layout: empty graph, nothing to do", "view", viewID)
		return res, nil
	}

	mode := ModeFlat
	if g.HasHierarchy() {
		mode = ModeHierarchical
	}
	res.Mode = mode

	res.Signature = ComputeSignature(SignatureInput{
		ViewID:    viewID,
		ViewKind:  string(view.Kind),
		Mode:      mode,
		Graph:     g,
		Options:   opts,
		Selection: selection,
	})

	out, source, err := e.lookupOrSolve(ctx, viewID, mode, res.Signature, g, opts)
	if err != nil {
		return nil, err
	}
	res.Source = source

	// Post-processing always runs against the freshest view state: locked
	// nodes may have moved since the cached output was computed.
	current := make(map[string]Point, len(view.Nodes))
	for _, vn := range view.Nodes {
		current[vn.ID] = Point{X: vn.X, Y: vn.Y}
	}
	processed := PostProcess(g, out, current, view.Kind, opts)

	changed, err := Commit(e.store, viewID, processed)
	if err != nil {
		return nil, err
	}
	res.Changed = changed
	res.Skipped = changed == 0 && len(processed.EdgeRoutes) == 0
	res.Output = processed

	observability.Layout().OnCommit(ctx, viewID, changed, res.Skipped)
	e.logger.Debug("auto-layout complete",
		"view", viewID, "mode", mode, "source", source,
		"changed", changed, "skipped", res.Skipped)
	return res, nil
}

// lookupOrSolve resolves the solver output for a signature: memo first,
// then the persistent cache, then an actual solve. Both cache tiers are
// refreshed on the way out.
func (e *Engine) lookupOrSolve(ctx context.Context, viewID, mode, signature string, g *Graph, opts Options) (*Output, string, error) {
	if out, ok := e.memo.Get(viewID, signature); ok {
		observability.Cache().OnCacheHit(ctx, "layout-memo")
		return out, SourceMemo, nil
	}
	observability.Cache().OnCacheMiss(ctx, "layout-memo")

	algorithm := opts.Algorithm()
	if mode == ModeHierarchical && algorithm == AlgorithmRadial {
		algorithm = AlgorithmLayered
	}
	key := e.keyer.LayoutKey(signature, cache.LayoutKeyOpts{Mode: mode, Algorithm: algorithm})

	if data, hit, err := e.cache.Get(ctx, key); err != nil {
		e.logger.Warn("layout cache read failed", "view", viewID, "error", err)
	} else if hit {
		var out Output
		if err := json.Unmarshal(data, &out); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			e.memo.Set(viewID, signature, &out)
			return &out, SourceCache, nil
		}
		e.logger.Warn("layout cache entry corrupt, recomputing", "view", viewID)
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	solver, err := e.provider.Solver(ctx)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeSolverUnavailable, err, "layout engine unavailable")
	}

	observability.Layout().OnSolveStart(ctx, viewID, mode, algorithm)
	start := time.Now()
	var out *Output
	if mode == ModeHierarchical {
		out, err = runHierarchical(ctx, solver, g, opts)
	} else {
		out, err = runFlat(ctx, solver, g, opts)
	}
	observability.Layout().OnSolveComplete(ctx, viewID, mode, time.Since(start), err)
	if err != nil {
		return nil, "", err
	}

	e.memo.Set(viewID, signature, out)
	if data, merr := json.Marshal(out); merr == nil {
		if serr := e.cache.Set(ctx, key, data, cache.TTLLayout); serr != nil {
			e.logger.Warn("layout cache write failed", "view", viewID, "error", serr)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return out, SourceSolver, nil
}
