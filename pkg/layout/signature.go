package layout

import (
	"fmt"
	"hash/fnv"
	"slices"
	"strings"
)

// SignatureInput collects everything that distinguishes one layout run
// from another for caching purposes.
type SignatureInput struct {
	ViewID    string
	ViewKind  string
	Mode      string // "flat" or "hierarchical"
	Graph     *Graph // must already be normalized
	Options   Options
	Selection []string
}

// ComputeSignature computes a stable content hash over the normalized graph
// plus effective options plus selection. Two signatures are equal iff a
// re-run would be expected to produce an equivalent result.
//
// The hash is a 32-bit FNV-1a over a canonical text serialization, emitted
// as a fixed-width hex string. It gates a memo cache, not security: a
// collision costs a stale reuse at worst in theory, and the canonical text
// keeps the function injective enough in practice.
func ComputeSignature(in SignatureInput) string {
	var b strings.Builder

	opts := in.Options
	opts.SetDefaults()

	sel := append([]string(nil), in.Selection...)
	slices.Sort(sel)
	sel = slices.Compact(sel)

	fmt.Fprintf(&b, "view=%s kind=%s mode=%s\n", in.ViewID, in.ViewKind, in.Mode)
	fmt.Fprintf(&b, "dir=%s spacing=%g routing=%s scope=%s locked=%t preset=%s\n",
		opts.Direction, opts.Spacing, opts.EdgeRouting, opts.Scope, opts.RespectLocked, opts.Preset)
	fmt.Fprintf(&b, "selection=%s\n", strings.Join(sel, ","))

	b.WriteString("NODES\n")
	for _, n := range in.Graph.Nodes {
		ports := make([]string, len(n.Ports))
		for i, p := range n.Ports {
			ports[i] = p.ID + "@" + p.Side
		}
		fmt.Fprintf(&b, "%s|%g|%g|%s|%t|%s|%s|%s|%s\n",
			n.ID, n.Width, n.Height, n.ParentID, n.Locked, n.Kind, n.GroupID, n.LayerHint,
			strings.Join(ports, "+"))
	}

	b.WriteString("EDGES\n")
	for _, e := range in.Graph.Edges {
		fmt.Fprintf(&b, "%s|%s|%s|%s|%s|%g|%s\n",
			e.ID, e.SourceID, e.TargetID, e.SourcePortID, e.TargetPortID, e.Weight, e.Kind)
	}

	h := fnv.New32a()
	h.Write([]byte(b.String()))
	return fmt.Sprintf("%08x", h.Sum32())
}
