package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/archonhq/archon/pkg/io"
	"github.com/archonhq/archon/pkg/layout"
	"github.com/archonhq/archon/pkg/model"
)

// newTestModelFile writes a two-view model (one flow, one sketch) to a temp
// file and returns its path.
func newTestModelFile(t *testing.T) string {
	t.Helper()

	m := model.NewModel("test")
	for _, id := range []string{"A", "B", "C"} {
		m.Elements = append(m.Elements, &model.Element{ID: "el-" + id, Type: "process", Name: id})
	}
	m.Relationships = []*model.Relationship{
		{ID: "rel-AB", Type: "flow", SourceID: "el-A", TargetID: "el-B"},
		{ID: "rel-BC", Type: "flow", SourceID: "el-B", TargetID: "el-C"},
	}
	m.Views = []*model.View{
		{
			ID:   "view-1",
			Name: "Main",
			Kind: model.ViewKindFlow,
			Nodes: []*model.ViewNode{
				{ID: "A", ElementID: "el-A", Kind: model.NodeKindElement, Width: 120, Height: 60},
				{ID: "B", ElementID: "el-B", Kind: model.NodeKindElement, Width: 120, Height: 60},
				{ID: "C", ElementID: "el-C", Kind: model.NodeKindElement, Width: 120, Height: 60},
			},
			Connections: []*model.ViewConnection{
				{ID: "conn-AB", RelationshipID: "rel-AB", SourceID: "A", TargetID: "B"},
				{ID: "conn-BC", RelationshipID: "rel-BC", SourceID: "B", TargetID: "C"},
			},
		},
		{ID: "view-2", Name: "Scratch", Kind: model.ViewKindSketch},
	}

	path := filepath.Join(t.TempDir(), "model.json")
	if err := io.WriteModelFile(m, path); err != nil {
		t.Fatal(err)
	}
	return path
}

// rowSolver places top-level nodes in a horizontal row, 200px apart.
func rowSolver() layout.SolverProvider {
	return layout.StaticProvider{S: layout.SolverFunc(
		func(ctx context.Context, graph *layout.SolverGraph, cfg layout.SolverConfig) (*layout.SolverResult, error) {
			result := &layout.SolverResult{Cells: map[string]layout.SolverCell{}}
			for i, n := range graph.Children {
				result.Cells[n.ID] = layout.SolverCell{
					X: float64(i) * 200, Y: 0, Width: n.Width, Height: n.Height,
				}
			}
			return result, nil
		})}
}

func newLayoutTestCLI(t *testing.T) *CLI {
	t.Helper()
	c := newTestCLI(t)
	c.Config.Cache.Backend = CacheBackendNone
	c.Provider = rowSolver()
	return c
}

func TestRunLayoutWritesModel(t *testing.T) {
	c := newLayoutTestCLI(t)
	path := newTestModelFile(t)

	flags := layoutFlags{view: "view-1"}
	if err := c.runLayout(context.Background(), path, flags, c.Config.LayoutOptions()); err != nil {
		t.Fatalf("runLayout() error: %v", err)
	}

	m, err := io.ReadModelFile(path)
	if err != nil {
		t.Fatal(err)
	}
	b := m.Views[0].Node("B")
	if b.X != 200 {
		t.Errorf("node B should have moved to x=200, got %v", b.X)
	}
}

func TestRunLayoutAll(t *testing.T) {
	c := newLayoutTestCLI(t)
	path := newTestModelFile(t)

	flags := layoutFlags{all: true}
	if err := c.runLayout(context.Background(), path, flags, c.Config.LayoutOptions()); err != nil {
		t.Fatalf("runLayout() error: %v", err)
	}

	m, err := io.ReadModelFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Views[0].Node("C").X != 400 {
		t.Errorf("node C should have moved to x=400, got %v", m.Views[0].Node("C").X)
	}
}

func TestRunLayoutOutputFlag(t *testing.T) {
	c := newLayoutTestCLI(t)
	input := newTestModelFile(t)
	output := filepath.Join(t.TempDir(), "out.json")

	flags := layoutFlags{view: "view-1", output: output}
	if err := c.runLayout(context.Background(), input, flags, c.Config.LayoutOptions()); err != nil {
		t.Fatalf("runLayout() error: %v", err)
	}

	in, err := io.ReadModelFile(input)
	if err != nil {
		t.Fatal(err)
	}
	if in.Views[0].Node("B").X != 0 {
		t.Error("input file should be untouched when --output is given")
	}

	out, err := io.ReadModelFile(output)
	if err != nil {
		t.Fatalf("output file should exist: %v", err)
	}
	if out.Views[0].Node("B").X != 200 {
		t.Errorf("output node B should be at x=200, got %v", out.Views[0].Node("B").X)
	}
}

func TestRunLayoutUnknownView(t *testing.T) {
	c := newLayoutTestCLI(t)
	path := newTestModelFile(t)

	flags := layoutFlags{view: "nope"}
	if err := c.runLayout(context.Background(), path, flags, c.Config.LayoutOptions()); err == nil {
		t.Error("runLayout() with unknown view should fail")
	}
}

func TestRunLayoutInvalidOption(t *testing.T) {
	c := newLayoutTestCLI(t)
	path := newTestModelFile(t)

	flags := layoutFlags{view: "view-1", direction: "SIDEWAYS"}
	if err := c.runLayout(context.Background(), path, flags, c.Config.LayoutOptions()); err == nil {
		t.Error("runLayout() with invalid direction should fail")
	}
}

func TestRunLayoutMissingFile(t *testing.T) {
	c := newLayoutTestCLI(t)

	flags := layoutFlags{view: "view-1"}
	err := c.runLayout(context.Background(), filepath.Join(t.TempDir(), "absent.json"), flags, c.Config.LayoutOptions())
	if err == nil {
		t.Error("runLayout() with missing file should fail")
	}
}

func TestResolveViewsAll(t *testing.T) {
	path := newTestModelFile(t)
	m, err := io.ReadModelFile(path)
	if err != nil {
		t.Fatal(err)
	}

	ids, err := resolveViews(m, layoutFlags{all: true})
	if err != nil {
		t.Fatal(err)
	}
	// Only the flow view is layoutable; the sketch view must be skipped.
	if len(ids) != 1 || ids[0] != "view-1" {
		t.Errorf("resolveViews(all) = %v, want [view-1]", ids)
	}
}

func TestResolveViewsExplicit(t *testing.T) {
	path := newTestModelFile(t)
	m, err := io.ReadModelFile(path)
	if err != nil {
		t.Fatal(err)
	}

	ids, err := resolveViews(m, layoutFlags{view: "view-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "view-1" {
		t.Errorf("resolveViews(view) = %v, want [view-1]", ids)
	}
}

func TestResolveViewsSingleCandidate(t *testing.T) {
	path := newTestModelFile(t)
	m, err := io.ReadModelFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// With exactly one layoutable view the picker is bypassed.
	ids, err := resolveViews(m, layoutFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "view-1" {
		t.Errorf("resolveViews() = %v, want [view-1]", ids)
	}
}

func TestResolveViewsNoCandidates(t *testing.T) {
	m := model.NewModel("empty")
	m.Views = []*model.View{{ID: "sketch", Kind: model.ViewKindSketch}}

	ids, err := resolveViews(m, layoutFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Errorf("resolveViews() = %v, want none", ids)
	}
}
