package graphviz

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/archonhq/archon/pkg/errors"
	"github.com/archonhq/archon/pkg/layout"
)

// Attribute patterns over attributed DOT output. Graphviz echoes the id
// attributes set at build time, which is what lets geometry be matched
// back to solver nodes without tracking statement order.
var (
	idAttrRe     = regexp.MustCompile(`\bid="?([^",\]\s]+)"?`)
	posAttrRe    = regexp.MustCompile(`\bpos="([^"]+)"`)
	widthAttrRe  = regexp.MustCompile(`\bwidth="?([0-9.]+)"?`)
	heightAttrRe = regexp.MustCompile(`\bheight="?([0-9.]+)"?`)
	bbAttrRe     = regexp.MustCompile(`\bbb="([^"]+)"`)
)

// parseResult reads Graphviz's attributed DOT output back into a solver
// result. Graphviz positions node centers in points with the y axis
// pointing up; everything is converted to top-left-origin, y-down
// coordinates, then made relative to each node's parent.
func parseResult(out []byte, sg *layout.SolverGraph) (*layout.SolverResult, error) {
	text := strings.ReplaceAll(string(out), "\\\n", "")

	parentOf := make(map[string]string)
	var index func(n *layout.SolverNode, parent string)
	index = func(n *layout.SolverNode, parent string) {
		if parent != "" {
			parentOf[n.ID] = parent
		}
		for _, c := range n.Children {
			index(c, n.ID)
		}
	}
	for _, n := range sg.Children {
		index(n, "")
	}

	// Pass 1: absolute geometry per id, plus the root bounding box that
	// anchors the y flip.
	type absBox struct {
		x, y, w, h float64
	}
	abs := make(map[string]absBox)
	var rootH float64
	var sawRoot bool

	for _, line := range strings.Split(text, "\n") {
		bb := bbAttrRe.FindStringSubmatch(line)
		if bb != nil {
			llx, lly, urx, ury, ok := parseBB(bb[1])
			if !ok {
				continue
			}
			id := attrID(line)
			if id == "" {
				if !sawRoot {
					rootH = ury
					sawRoot = true
				}
				continue
			}
			abs[id] = absBox{x: llx, y: lly, w: urx - llx, h: ury - lly}
			continue
		}

		if strings.Contains(line, "->") {
			continue
		}
		pos := posAttrRe.FindStringSubmatch(line)
		if pos == nil {
			continue
		}
		id := attrID(line)
		if id == "" {
			continue
		}
		cx, cy, ok := parsePoint(pos[1])
		if !ok {
			continue
		}
		w := attrInches(line, widthAttrRe)
		h := attrInches(line, heightAttrRe)
		abs[id] = absBox{x: cx - w/2, y: cy - h/2, w: w, h: h}
	}

	if !sawRoot {
		return nil, errors.New(errors.ErrCodeSolver, "layout output carries no bounding box")
	}

	// Pass 2: flip y and re-anchor each box to its parent.
	result := &layout.SolverResult{Cells: make(map[string]layout.SolverCell, len(abs))}
	topLeft := func(b absBox) (float64, float64) {
		// Cluster and node boxes alike are stored bottom-left up here.
		return b.x, rootH - b.y - b.h
	}
	for id, b := range abs {
		x, y := topLeft(b)
		if pid := parentOf[id]; pid != "" {
			if pb, ok := abs[pid]; ok {
				px, py := topLeft(pb)
				x -= px
				y -= py
			}
		}
		result.Cells[id] = layout.SolverCell{X: x, Y: y, Width: b.w, Height: b.h}
	}

	// Pass 3: edge routes, shifted into the source node's parent space.
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, "->") {
			continue
		}
		id := attrID(line)
		pos := posAttrRe.FindStringSubmatch(line)
		if id == "" || pos == nil {
			continue
		}
		points := parseSpline(pos[1], rootH)
		if len(points) == 0 {
			continue
		}

		var originX, originY float64
		for _, e := range sg.Edges {
			if e.ID != id {
				continue
			}
			if pid := parentOf[e.SourceID]; pid != "" {
				if pb, ok := abs[pid]; ok {
					originX, originY = topLeft(pb)
				}
			}
			break
		}
		for i := range points {
			points[i].X -= originX
			points[i].Y -= originY
		}
		if result.Routes == nil {
			result.Routes = make(map[string]layout.SolverRoute)
		}
		result.Routes[id] = layout.SolverRoute{Points: points}
	}

	return result, nil
}

func attrID(line string) string {
	m := idAttrRe.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return m[1]
}

func attrInches(line string, re *regexp.Regexp) float64 {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v * pointsPerInch
}

func parseBB(s string) (llx, lly, urx, ury float64, ok bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0, false
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, 0, 0, 0, false
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], vals[3], true
}

func parsePoint(s string) (x, y float64, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	x, errX := strconv.ParseFloat(parts[0], 64)
	y, errY := strconv.ParseFloat(parts[1], 64)
	if errX != nil || errY != nil {
		return 0, 0, false
	}
	return x, y, true
}

// parseSpline reads an edge pos attribute: optional "s,x,y" and "e,x,y"
// endpoint markers plus B-spline control points, space separated. The
// start marker leads the returned path and the end marker closes it.
func parseSpline(s string, rootH float64) []layout.Point {
	var start, end *layout.Point
	var mid []layout.Point

	for _, token := range strings.Fields(s) {
		tag := ""
		if strings.HasPrefix(token, "e,") || strings.HasPrefix(token, "s,") {
			tag = token[:1]
			token = token[2:]
		}
		x, y, ok := parsePoint(token)
		if !ok {
			continue
		}
		p := layout.Point{X: x, Y: rootH - y}
		switch tag {
		case "s":
			start = &p
		case "e":
			end = &p
		default:
			mid = append(mid, p)
		}
	}

	var points []layout.Point
	if start != nil {
		points = append(points, *start)
	}
	points = append(points, mid...)
	if end != nil {
		points = append(points, *end)
	}
	return points
}
