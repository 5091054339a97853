package graphviz

import (
	"bytes"
	"fmt"

	"github.com/archonhq/archon/pkg/layout"
)

// Graphviz works in inches for sizes and separations, points for positions.
const pointsPerInch = 72.0

// buildDOT serializes a solver graph to DOT text. Containers become
// clusters; edges whose endpoint is a container are attached to a proxy
// child and clipped at the cluster border via lhead/ltail (compound mode).
//
// Every node and edge carries an id attribute so the laid-out output can
// be matched back without relying on statement order.
func buildDOT(sg *layout.SolverGraph, cfg layout.SolverConfig) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  compound=true;\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir(cfg.Direction))
	fmt.Fprintf(&buf, "  splines=%s;\n", splines(cfg.EdgeRouting))
	fmt.Fprintf(&buf, "  nodesep=%.4f;\n", cfg.NodeSpacing/pointsPerInch)
	fmt.Fprintf(&buf, "  ranksep=%.4f;\n", cfg.LayerSpacing/pointsPerInch)
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("\n")

	for _, n := range sg.Children {
		writeNode(&buf, n, "  ")
	}

	buf.WriteString("\n")
	proxies := leafProxies(sg)
	for _, e := range sg.Edges {
		writeEdge(&buf, e, proxies)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func rankdir(direction string) string {
	if direction == string(layout.DirectionDown) {
		return "TB"
	}
	return "LR"
}

func splines(routing string) string {
	if routing == string(layout.RoutingOrthogonal) {
		return "ortho"
	}
	return "polyline"
}

func writeNode(buf *bytes.Buffer, n *layout.SolverNode, indent string) {
	if len(n.Children) == 0 {
		fmt.Fprintf(buf, "%s%q [id=%q, width=%.4f, height=%.4f];\n",
			indent, n.ID, n.ID,
			n.Width/pointsPerInch, n.Height/pointsPerInch)
		return
	}

	fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+n.ID)
	fmt.Fprintf(buf, "%s  id=%q;\n", indent, n.ID)
	fmt.Fprintf(buf, "%s  label=\"\";\n", indent)
	fmt.Fprintf(buf, "%s  margin=%.0f;\n", indent, n.Padding.Left)
	for _, c := range n.Children {
		writeNode(buf, c, indent+"  ")
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

// leafProxies maps every container id to one of its leaf descendants, the
// node an edge attaches to when its logical endpoint is the cluster.
func leafProxies(sg *layout.SolverGraph) map[string]string {
	proxies := make(map[string]string)
	var walk func(n *layout.SolverNode) string
	walk = func(n *layout.SolverNode) string {
		if len(n.Children) == 0 {
			return n.ID
		}
		leaf := walk(n.Children[0])
		for _, c := range n.Children[1:] {
			walk(c)
		}
		proxies[n.ID] = leaf
		return leaf
	}
	for _, n := range sg.Children {
		walk(n)
	}
	return proxies
}

func writeEdge(buf *bytes.Buffer, e layout.SolverEdge, proxies map[string]string) {
	src, dst := e.SourceID, e.TargetID
	attrs := fmt.Sprintf("id=%q", e.ID)

	if proxy, ok := proxies[src]; ok {
		src = proxy
		attrs += fmt.Sprintf(", ltail=%q", "cluster_"+e.SourceID)
	}
	if proxy, ok := proxies[dst]; ok {
		dst = proxy
		attrs += fmt.Sprintf(", lhead=%q", "cluster_"+e.TargetID)
	}
	if e.Weight > 0 {
		attrs += fmt.Sprintf(", weight=%d", int(e.Weight))
	}
	if side := compass(e.SourcePort); side != "" {
		attrs += fmt.Sprintf(", tailport=%s", side)
	}
	if side := compass(e.TargetPort); side != "" {
		attrs += fmt.Sprintf(", headport=%s", side)
	}

	fmt.Fprintf(buf, "  %q -> %q [%s];\n", src, dst, attrs)
}

// compass translates a port id of the form "<node>:<side>" into a DOT
// compass point.
func compass(portID string) string {
	for i := len(portID) - 1; i >= 0; i-- {
		if portID[i] != ':' {
			continue
		}
		switch portID[i+1:] {
		case "top":
			return "n"
		case "bottom":
			return "s"
		case "left":
			return "w"
		case "right":
			return "e"
		}
		return ""
	}
	return ""
}
