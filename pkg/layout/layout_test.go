package layout

import (
	"context"
	"fmt"

	"github.com/archonhq/archon/pkg/model"
)

// newTestModel builds a three-node flow view: A -> B -> C in a chain, all
// unlocked at the origin, with materialized connections.
func newTestModel() *model.Model {
	m := model.NewModel("test")
	for _, id := range []string{"A", "B", "C"} {
		m.Elements = append(m.Elements, &model.Element{ID: "el-" + id, Type: "process", Name: id})
	}
	m.Relationships = []*model.Relationship{
		{ID: "rel-AB", Type: "flow", SourceID: "el-A", TargetID: "el-B"},
		{ID: "rel-BC", Type: "flow", SourceID: "el-B", TargetID: "el-C"},
	}
	m.Views = []*model.View{{
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
	}}
	return m
}

// rowSolver places top-level children in a horizontal row, 200px apart, in
// the order they arrive. Child nodes are placed in a parent-relative row
// offset by the parent padding.
func rowSolver() SolverFunc {
	return func(ctx context.Context, graph *SolverGraph, cfg SolverConfig) (*SolverResult, error) {
		result := &SolverResult{Cells: map[string]SolverCell{}}
		var place func(nodes []*SolverNode)
		place = func(nodes []*SolverNode) {
			for i, n := range nodes {
				result.Cells[n.ID] = SolverCell{
					X:      float64(i) * 200,
					Y:      0,
					Width:  n.Width,
					Height: n.Height,
				}
				place(n.Children)
			}
		}
		place(graph.Children)
		return result, nil
	}
}

// countingSolver wraps a solver and counts Solve invocations.
type countingSolver struct {
	inner SolverFunc
	calls int
}

func (s *countingSolver) Solve(ctx context.Context, graph *SolverGraph, cfg SolverConfig) (*SolverResult, error) {
	s.calls++
	return s.inner(ctx, graph, cfg)
}

// failingSolver always errors.
func failingSolver() SolverFunc {
	return func(ctx context.Context, graph *SolverGraph, cfg SolverConfig) (*SolverResult, error) {
		return nil, fmt.Errorf("engine rejected graph")
	}
}
