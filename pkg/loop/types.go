package loop

import (
	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

// Selection restricts detection to a subset of entities; a nil or empty
// Selection means every non-construction edge-like entity participates.
type Selection map[sketch.EntityID]bool

// Loop is one closed walk of edges, oriented and ready for rendering:
// even-depth loops run CCW (positive signed area), odd-depth loops
// (holes) run CW (step 5).
type Loop struct {
	// EntityIDs lists the edges in walk order.
	EntityIDs []sketch.EntityID

	// Forward records, per edge, whether it is traversed start-to-end
	// (true) or reversed (false) in this loop's walk order.
	Forward []bool

	// Polygon is a polyline approximation of the loop (arcs/ellipses
	// sampled) used for area, centroid, and containment queries.
	Polygon []geom2d.Vec2

	SignedArea float64
	Depth int
}

// Area returns the unsigned area enclosed by the loop.
func (l Loop) Area() float64 {
	if l.SignedArea < 0 {
		return -l.SignedArea
	}
	return l.SignedArea
}

// Face is a closed outer loop plus zero or more inner-loop holes.
type Face struct {
	Outer Loop
	Holes []Loop
}

// Area returns the outer loop's area minus the area of every hole.
func (f Face) Area() float64 {
	a := f.Outer.Area()
	for _, h := range f.Holes {
		a -= h.Area()
	}
	return a
}

// PointIDs returns every distinct point entity ID referenced by the
// face's outer loop and holes (line endpoints; arc/circle/ellipse
// centers), for TranslateSketchRegion-style region operations.
func (f Face) PointIDs(sk *sketch.Sketch) []sketch.EntityID {
	seen := map[sketch.EntityID]bool{}
	var out []sketch.EntityID
	add := func(id sketch.EntityID) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	collect := func(l Loop) {
		for _, eid := range l.EntityIDs {
			e := sk.Entity(eid)
			if e == nil {
				continue
			}
			switch e.Type {
			case sketch.TypeLine:
				add(e.Start)
				add(e.End)
			case sketch.TypeArc, sketch.TypeCircle, sketch.TypeEllipse:
				add(e.Center)
			}
		}
	}
	collect(f.Outer)
	for _, h := range f.Holes {
		collect(h)
	}
	return out
}

// QuadVertices returns the loop's four point IDs in walk order when the
// loop consists of exactly four Line entities (a rectangle-shaped outer
// loop, the case the drag tool uses for rectangle-preserving drag); ok
// is false for any other loop shape (fewer/more edges, or any edge that
// is not a Line).
func (l Loop) QuadVertices(sk *sketch.Sketch) (ids []sketch.EntityID, ok bool) {
	if len(l.EntityIDs) != 4 {
		return nil, false
	}
	out := make([]sketch.EntityID, 0, 4)
	for i, eid := range l.EntityIDs {
		e := sk.Entity(eid)
		if e == nil || e.Type != sketch.TypeLine {
			return nil, false
		}
		from := e.Start
		if !l.Forward[i] {
			from = e.End
		}
		out = append(out, from)
	}
	return out, true
}

// Wire is an ordered walk of connected edges; a closed Wire is a Loop.
type Wire struct {
	EntityIDs []sketch.EntityID
	Forward []bool
	Closed bool
}

// DetectionResult is the full output of Detect
type DetectionResult struct {
	Faces []Face
	OpenWires []Wire
	IsolatedPoints []sketch.EntityID
	UnusedEdges []sketch.EntityID

	Success bool
	Err error

	TotalLoopsFound int
	FacesWithHoles int
}

// nodeID identifies a deduplicated graph vertex (a coordinate shared by
// one or more entity endpoints).
type nodeID int

// node is one adjacency-graph vertex.
type node struct {
	pos geom2d.Vec2
	pointID sketch.EntityID // original Point entity at this coordinate, if any
}

// graphEdge is one adjacency-graph edge, contributed by a single
// edge-like entity between two nodes (or a self-loop for an isolated
// closed curve).
type graphEdge struct {
	a, b nodeID
	entityID sketch.EntityID
	// closedCurve is true for Circle/Ellipse entities, which form a loop
	// of one edge with no distinct endpoints.
	closedCurve bool
}

// detectorGraph is the adjacency graph built from a sketch's entities.
type detectorGraph struct {
	nodes []node
	edges []graphEdge
}
