package loop

import "github.com/onecad/sketchcore/pkg/sketch"

// byproducts computes which eligible edges were not consumed by any
// face, grouping them into open-wire segments (grown by walking nodes of
// degree <= 2 until a branch or a used edge is hit) and unused closed
// curves that did not form a face of their own (step 6).
func byproducts(sk *sketch.Sketch, g *detectorGraph, used map[sketch.EntityID]bool) (openWires []Wire, unused []sketch.EntityID, isolated []sketch.EntityID) {
	remaining := map[int]bool{}
	for ei, e := range g.edges {
		if !used[e.entityID] {
			remaining[ei] = true
		}
	}

	visited := map[int]bool{}
	for startIdx := range remaining {
		if visited[startIdx] {
			continue
		}
		e := g.edges[startIdx]
		if e.closedCurve {
			visited[startIdx] = true
			unused = append(unused, e.entityID)
			continue
		}
		openWires = append(openWires, growWire(g, remaining, visited, startIdx))
	}

	for _, pt := range sk.Entities() {
		if pt.Type == sketch.TypePoint && len(pt.ConnectedEntities()) == 0 {
			isolated = append(isolated, pt.ID)
		}
	}
	return openWires, unused, isolated
}

// growWire walks outward from a starting edge through nodes of degree<=2
// (within the remaining unused-edge subgraph) until it hits a branch
// point or runs out of edges, assembling one ordered Wire.
func growWire(g *detectorGraph, remaining map[int]bool, visited map[int]bool, startIdx int) Wire {
	remDegree := func(n nodeID) int {
		d := 0
		for ei := range remaining {
			if visited[ei] {
				continue
			}
			e := g.edges[ei]
			if e.a == n || e.b == n {
				d++
			}
		}
		return d
	}
	findNext := func(n nodeID) int {
		for ei := range remaining {
			if visited[ei] {
				continue
			}
			ge := g.edges[ei]
			if ge.a == n || ge.b == n {
				return ei
			}
		}
		return -1
	}

	e := g.edges[startIdx]
	visited[startIdx] = true
	wire := Wire{EntityIDs: []sketch.EntityID{e.entityID}, Forward: []bool{true}}

	extend := func(from nodeID, prepend bool) {
		cur := from
		// Stop at a branch: grow only while exactly one unvisited
		// remaining edge touches cur (step 6, "grown by
		// walking through nodes of degree <=2 until a branch...").
		for remDegree(cur) == 1 {
			nextEdge := findNext(cur)
			if nextEdge < 0 {
				break
			}
			ge := g.edges[nextEdge]
			visited[nextEdge] = true
			fwd := ge.a == cur
			if prepend {
				wire.EntityIDs = append([]sketch.EntityID{ge.entityID}, wire.EntityIDs...)
				wire.Forward = append([]bool{!fwd}, wire.Forward...)
			} else {
				wire.EntityIDs = append(wire.EntityIDs, ge.entityID)
				wire.Forward = append(wire.Forward, fwd)
			}
			cur = ge.other(cur)
		}
	}
	extend(e.b, false)
	extend(e.a, true)
	return wire
}
