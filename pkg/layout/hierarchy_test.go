package layout

import (
	"context"
	"testing"
)

func TestHierarchicalAccumulatesToAbsolute(t *testing.T) {
	g := &Graph{Nodes: []Node{
		{ID: "pool", Width: 300, Height: 200},
		{ID: "task", Width: 100, Height: 50, ParentID: "pool"},
	}}
	solver := SolverFunc(func(ctx context.Context, sg *SolverGraph, cfg SolverConfig) (*SolverResult, error) {
		return &SolverResult{Cells: map[string]SolverCell{
			"pool": {X: 10, Y: 10, Width: 300, Height: 200},
			"task": {X: 5, Y: 5, Width: 100, Height: 50},
		}}, nil
	})

	out, err := runHierarchical(context.Background(), solver, g, DefaultOptions())
	if err != nil {
		t.Fatalf("runHierarchical failed: %v", err)
	}
	if p := out.Positions["task"]; p.X != 15 || p.Y != 15 {
		t.Errorf("expected task at absolute (15,15), got (%g,%g)", p.X, p.Y)
	}
	if p := out.Positions["pool"]; p.X != 10 || p.Y != 10 {
		t.Errorf("expected pool at (10,10), got (%g,%g)", p.X, p.Y)
	}
}

func TestHierarchicalDanglingParentIsTopLevel(t *testing.T) {
	g := &Graph{Nodes: []Node{
		{ID: "orphan", Width: 100, Height: 50, ParentID: "gone"},
	}}
	var got *SolverGraph
	solver := SolverFunc(func(ctx context.Context, sg *SolverGraph, cfg SolverConfig) (*SolverResult, error) {
		got = sg
		return &SolverResult{Cells: map[string]SolverCell{
			"orphan": {X: 40, Y: 40, Width: 100, Height: 50},
		}}, nil
	})

	out, err := runHierarchical(context.Background(), solver, g, DefaultOptions())
	if err != nil {
		t.Fatalf("runHierarchical failed: %v", err)
	}
	if len(got.Children) != 1 || got.Children[0].ID != "orphan" {
		t.Fatalf("orphan not promoted to top level: %+v", got.Children)
	}
	if p := out.Positions["orphan"]; p.X != 40 || p.Y != 40 {
		t.Errorf("expected orphan at (40,40), got (%g,%g)", p.X, p.Y)
	}
}

func TestHierarchicalCyclicParentsTerminate(t *testing.T) {
	// A hand-built graph can declare mutually-referencing parents. The run
	// must break the loop and finish, not walk the chain forever.
	g := &Graph{Nodes: []Node{
		{ID: "P1", Width: 400, Height: 300, ParentID: "P2"},
		{ID: "P2", Width: 400, Height: 300, ParentID: "P1"},
		{ID: "task", Width: 100, Height: 50, ParentID: "P2"},
	}}

	var got *SolverGraph
	solver := SolverFunc(func(ctx context.Context, sg *SolverGraph, cfg SolverConfig) (*SolverResult, error) {
		got = sg
		return &SolverResult{Cells: map[string]SolverCell{
			"P1":   {X: 0, Y: 0, Width: 400, Height: 300},
			"P2":   {X: 20, Y: 40, Width: 360, Height: 240},
			"task": {X: 20, Y: 40, Width: 100, Height: 50},
		}}, nil
	})

	out, err := runHierarchical(context.Background(), solver, g, DefaultOptions())
	if err != nil {
		t.Fatalf("runHierarchical failed: %v", err)
	}
	if len(got.Children) != 1 || got.Children[0].ID != "P1" {
		t.Fatalf("loop-closing node not promoted to top level: %+v", got.Children)
	}
	for _, id := range []string{"P1", "P2", "task"} {
		if _, ok := out.Positions[id]; !ok {
			t.Errorf("node %q missing from output", id)
		}
	}
	if p := out.Positions["task"]; p.X != 40 || p.Y != 80 {
		t.Errorf("expected task at absolute (40,80), got (%g,%g)", p.X, p.Y)
	}
}

func TestHierarchicalRadialDowngradesToLayered(t *testing.T) {
	g := &Graph{Nodes: []Node{
		{ID: "pool", Width: 300, Height: 200},
		{ID: "task", Width: 100, Height: 50, ParentID: "pool"},
	}}
	var gotAlgorithm string
	solver := SolverFunc(func(ctx context.Context, sg *SolverGraph, cfg SolverConfig) (*SolverResult, error) {
		gotAlgorithm = cfg.Algorithm
		return &SolverResult{Cells: map[string]SolverCell{
			"pool": {X: 0, Y: 0, Width: 300, Height: 200},
			"task": {X: 20, Y: 40, Width: 100, Height: 50},
		}}, nil
	})

	opts := DefaultOptions()
	opts.Preset = PresetRadial
	if _, err := runHierarchical(context.Background(), solver, g, opts); err != nil {
		t.Fatalf("runHierarchical failed: %v", err)
	}
	if gotAlgorithm != AlgorithmLayered {
		t.Errorf("expected radial downgraded to %q, got %q", AlgorithmLayered, gotAlgorithm)
	}
}

func TestHierarchicalContainerPadding(t *testing.T) {
	g := &Graph{Nodes: []Node{
		{ID: "pool", Width: 300, Height: 200},
		{ID: "task", Width: 100, Height: 50, ParentID: "pool"},
	}}
	var got *SolverGraph
	solver := SolverFunc(func(ctx context.Context, sg *SolverGraph, cfg SolverConfig) (*SolverResult, error) {
		got = sg
		return &SolverResult{Cells: map[string]SolverCell{
			"pool": {X: 0, Y: 0, Width: 300, Height: 200},
			"task": {X: 20, Y: 40, Width: 100, Height: 50},
		}}, nil
	})

	if _, err := runHierarchical(context.Background(), solver, g, DefaultOptions()); err != nil {
		t.Fatalf("runHierarchical failed: %v", err)
	}
	pool := got.Children[0]
	if pool.Padding.Top != containerPaddingTop || pool.Padding.Left != containerPaddingSide {
		t.Errorf("container padding not applied: %+v", pool.Padding)
	}
	if len(pool.Children) != 1 || pool.Children[0].Padding.Top != 0 {
		t.Errorf("leaf child should carry no padding: %+v", pool.Children)
	}
}

func TestHierarchicalGrowsContainerToFitChildren(t *testing.T) {
	g := &Graph{Nodes: []Node{
		{ID: "pool", Width: 300, Height: 200},
		{ID: "task", Width: 100, Height: 50, ParentID: "pool"},
	}}
	// Solver reports a container too small for the child it placed.
	solver := SolverFunc(func(ctx context.Context, sg *SolverGraph, cfg SolverConfig) (*SolverResult, error) {
		return &SolverResult{Cells: map[string]SolverCell{
			"pool": {X: 0, Y: 0, Width: 150, Height: 80},
			"task": {X: 100, Y: 60, Width: 100, Height: 50},
		}}, nil
	})

	out, err := runHierarchical(context.Background(), solver, g, DefaultOptions())
	if err != nil {
		t.Fatalf("runHierarchical failed: %v", err)
	}
	size := out.Sizes["pool"]
	if size.X < 100+100+containerPaddingSide {
		t.Errorf("container width %g does not enclose its child", size.X)
	}
	if size.Y < 60+50+containerPaddingSide {
		t.Errorf("container height %g does not enclose its child", size.Y)
	}
}

func TestHierarchicalDroppedSubtree(t *testing.T) {
	g := &Graph{Nodes: []Node{
		{ID: "pool", Width: 300, Height: 200},
		{ID: "task", Width: 100, Height: 50, ParentID: "pool"},
		{ID: "solo", Width: 100, Height: 50},
	}}
	// Engine silently drops the container and everything inside it.
	solver := SolverFunc(func(ctx context.Context, sg *SolverGraph, cfg SolverConfig) (*SolverResult, error) {
		return &SolverResult{Cells: map[string]SolverCell{
			"solo": {X: 0, Y: 0, Width: 100, Height: 50},
		}}, nil
	})

	out, err := runHierarchical(context.Background(), solver, g, DefaultOptions())
	if err != nil {
		t.Fatalf("runHierarchical failed: %v", err)
	}
	if len(out.Positions) != 1 {
		t.Errorf("dropped nodes must be absent, not zeroed: %+v", out.Positions)
	}
	if _, ok := out.Positions["solo"]; !ok {
		t.Error("surviving node missing from output")
	}
}
