package loop

import (
	"sort"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

// extractCyclesDFS performs a bounded DFS from each node, emitting every
// simple cycle once (step 4). A sorted-edge-ID key
// deduplicates permutations and reversals of the same cycle.
func extractCyclesDFS(g *detectorGraph, minArea float64) []Loop {
	seen := map[string]bool{}
	var loops []Loop

	var path []nodeID
	var pathEdges []int // index into g.edges
	onPath := make([]bool, len(g.nodes))

	var visit func(start, cur nodeID, cameFrom int)
	visit = func(start, cur nodeID, cameFrom int) {
		for ei, e := range g.edges {
			if e.closedCurve || ei == cameFrom {
				continue
			}
			if e.a != cur && e.b != cur {
				continue
			}
			nxt := e.other(cur)
			if nxt == start && len(path) >= 2 {
				cycle := append(append([]nodeID{}, path...), start)
				cycleEdges := append(append([]int{}, pathEdges...), ei)
				recordCycle(g, cycle, cycleEdges, seen, minArea, &loops)
				continue
			}
			if onPath[nxt] || nxt < start {
				// nxt < start would have already been (or will be)
				// explored as its own start, avoiding duplicate work.
				continue
			}
			path = append(path, nxt)
			pathEdges = append(pathEdges, ei)
			onPath[nxt] = true
			visit(start, nxt, ei)
			onPath[nxt] = false
			path = path[:len(path)-1]
			pathEdges = pathEdges[:len(pathEdges)-1]
		}
	}

	for n := range g.nodes {
		start := nodeID(n)
		path = []nodeID{start}
		onPath[start] = true
		visit(start, start, -1)
		onPath[start] = false
	}
	return loops
}

func recordCycle(g *detectorGraph, cycleNodes []nodeID, cycleEdges []int, seen map[string]bool, minArea float64, loops *[]Loop) {
	key := sortedEdgeKey(cycleEdges)
	if seen[key] {
		return
	}
	seen[key] = true

	l := Loop{}
	for i, ei := range cycleEdges {
		ge := g.edges[ei]
		from := cycleNodes[i]
		l.EntityIDs = append(l.EntityIDs, ge.entityID)
		l.Forward = append(l.Forward, ge.a == from)
		l.Polygon = append(l.Polygon, g.nodes[from].pos)
	}
	area := geom2d.ShoelaceArea(l.Polygon)
	absArea := area
	if absArea < 0 {
		absArea = -absArea
	}
	if absArea <= minArea {
		return
	}
	l.SignedArea = area
	*loops = append(*loops, l)
}

func sortedEdgeKey(edges []int) string {
	cp := append([]int{}, edges...)
	sort.Ints(cp)
	out := make([]byte, 0, len(cp)*5)
	for _, e := range cp {
		out = append(out, []byte(sortKeyInt(e))...)
		out = append(out, ',')
	}
	return string(out)
}

func sortKeyInt(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// closedCurveLoops returns one Loop per isolated Circle/Ellipse entity
// (step 4: "isolated circles... are treated as single-edge
// loops"), sampled into a polygon for area/containment purposes.
func closedCurveLoops(sk *sketch.Sketch, edges []*sketch.Entity, cfg *Config) []Loop {
	var loops []Loop
	for _, e := range edges {
		if e.Type != sketch.TypeCircle && e.Type != sketch.TypeEllipse {
			continue
		}
		cp := sk.Entity(e.Center)
		if cp == nil {
			continue
		}
		var poly []geom2d.Vec2
		if e.Type == sketch.TypeCircle {
			poly = geom2d.SampleCircle(cp.Pos, e.Radius, cfg.CircleSegments)
		} else {
			poly = geom2d.SampleEllipse(cp.Pos, e.MajorRadius, e.MinorRadius, e.Rotation, cfg.FallbackSegmentsPerCurve)
		}
		area := geom2d.ShoelaceArea(poly)
		absArea := area
		if absArea < 0 {
			absArea = -absArea
		}
		if absArea <= cfg.MinSignedArea {
			continue
		}
		if area < 0 {
			area = -area
			reversePoly(poly)
		}
		loops = append(loops, Loop{
			EntityIDs: []sketch.EntityID{e.ID},
			Forward: []bool{true},
			Polygon: poly,
			SignedArea: area,
		})
	}
	return loops
}

func reversePoly(poly []geom2d.Vec2) {
	for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
		poly[i], poly[j] = poly[j], poly[i]
	}
}
