package graphviz

import (
	"math"
	"testing"

	"github.com/archonhq/archon/pkg/layout"
)

// A hand-reduced attributed DOT output: a 300x200 canvas with node A
// (72x72 points) centered at (50,150) and node B centered at (250,50),
// connected by an edge with one interior point.
const flatOutput = `digraph G {
	graph [bb="0,0,300,200"];
	node [label="", shape=box];
	A	[height=1, id=A, pos="50,150", width=1];
	B	[height=1, id=B, pos="250,50", width=1];
	A -> B	[id=e1, pos="s,86,150 150,100 e,214,50"];
}
`

func TestParseFlatPositions(t *testing.T) {
	sg := &layout.SolverGraph{
		Children: []*layout.SolverNode{
			{ID: "A", Width: 72, Height: 72},
			{ID: "B", Width: 72, Height: 72},
		},
		Edges: []layout.SolverEdge{{ID: "e1", SourceID: "A", TargetID: "B"}},
	}

	result, err := parseResult([]byte(flatOutput), sg)
	if err != nil {
		t.Fatalf("parseResult failed: %v", err)
	}

	// Center (50,150) in y-up points, box 72x72, canvas height 200:
	// top-left = (50-36, 200-150-36) = (14,14).
	a := result.Cells["A"]
	if a.X != 14 || a.Y != 14 {
		t.Errorf("A at (%g,%g), want (14,14)", a.X, a.Y)
	}
	b := result.Cells["B"]
	if b.X != 214 || b.Y != 114 {
		t.Errorf("B at (%g,%g), want (214,114)", b.X, b.Y)
	}
	if a.Width != 72 || a.Height != 72 {
		t.Errorf("A sized %gx%g, want 72x72", a.Width, a.Height)
	}
}

func TestParseEdgeRoute(t *testing.T) {
	sg := &layout.SolverGraph{
		Children: []*layout.SolverNode{
			{ID: "A", Width: 72, Height: 72},
			{ID: "B", Width: 72, Height: 72},
		},
		Edges: []layout.SolverEdge{{ID: "e1", SourceID: "A", TargetID: "B"}},
	}

	result, err := parseResult([]byte(flatOutput), sg)
	if err != nil {
		t.Fatalf("parseResult failed: %v", err)
	}
	r, ok := result.Routes["e1"]
	if !ok {
		t.Fatal("edge route missing")
	}
	want := []layout.Point{{X: 86, Y: 50}, {X: 150, Y: 100}, {X: 214, Y: 150}}
	if len(r.Points) != len(want) {
		t.Fatalf("expected %d route points, got %d", len(want), len(r.Points))
	}
	for i, p := range r.Points {
		if p != want[i] {
			t.Errorf("point %d: got (%g,%g), want (%g,%g)", i, p.X, p.Y, want[i].X, want[i].Y)
		}
	}
}

const clusterOutput = `digraph G {
	graph [bb="0,0,400,300"];
	subgraph "cluster_pool" {
		graph [bb="20,20,220,180", id=pool];
		task	[height=0.5, id=task, pos="80,120", width=1];
	}
	ext	[height=0.5, id=ext, pos="320,150", width=1];
}
`

func TestParseClusterRelativeCoordinates(t *testing.T) {
	sg := &layout.SolverGraph{
		Children: []*layout.SolverNode{
			{
				ID: "pool", Width: 200, Height: 160,
				Children: []*layout.SolverNode{{ID: "task", Width: 72, Height: 36}},
			},
			{ID: "ext", Width: 72, Height: 36},
		},
	}

	result, err := parseResult([]byte(clusterOutput), sg)
	if err != nil {
		t.Fatalf("parseResult failed: %v", err)
	}

	// Cluster bb (20,20)-(220,180) on a 300-high canvas: absolute
	// top-left (20, 300-180) = (20,120), size 200x160.
	pool := result.Cells["pool"]
	if pool.X != 20 || pool.Y != 120 {
		t.Errorf("pool at (%g,%g), want (20,120)", pool.X, pool.Y)
	}
	if pool.Width != 200 || pool.Height != 160 {
		t.Errorf("pool sized %gx%g, want 200x160", pool.Width, pool.Height)
	}

	// task center (80,120), box 72x36: absolute top-left (44, 300-120-18)
	// = (44,162); relative to pool = (24,42).
	task := result.Cells["task"]
	if math.Abs(task.X-24) > 1e-9 || math.Abs(task.Y-42) > 1e-9 {
		t.Errorf("task at (%g,%g) relative to pool, want (24,42)", task.X, task.Y)
	}

	// Top-level node stays absolute.
	ext := result.Cells["ext"]
	if ext.X != 284 || ext.Y != 132 {
		t.Errorf("ext at (%g,%g), want (284,132)", ext.X, ext.Y)
	}
}

func TestParseMissingBoundingBox(t *testing.T) {
	sg := &layout.SolverGraph{Children: []*layout.SolverNode{{ID: "A"}}}
	if _, err := parseResult([]byte("digraph G {}\n"), sg); err == nil {
		t.Error("expected an error for output without a bounding box")
	}
}

func TestParseContinuationLines(t *testing.T) {
	// Long pos attributes wrap with backslash-newline in real output.
	wrapped := "digraph G {\n\tgraph [bb=\"0,0,100,100\"];\n\tA\t[height=1, id=A, pos=\"50,\\\n50\", width=1];\n}\n"
	sg := &layout.SolverGraph{Children: []*layout.SolverNode{{ID: "A", Width: 72, Height: 72}}}

	result, err := parseResult([]byte(wrapped), sg)
	if err != nil {
		t.Fatalf("parseResult failed: %v", err)
	}
	a, ok := result.Cells["A"]
	if !ok {
		t.Fatal("wrapped node statement not parsed")
	}
	if a.X != 14 || a.Y != 14 {
		t.Errorf("A at (%g,%g), want (14,14)", a.X, a.Y)
	}
}
