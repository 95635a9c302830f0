package loop

import (
	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
	"github.com/onecad/sketchcore/pkg/sketcherr"
	"github.com/onecad/sketchcore/pkg/sklog"
)

// Detector runs loop/face extraction over a sketch. It holds no state
// across calls; every Detect call rebuilds its working graph from
// scratch rather than maintaining it incrementally.
type Detector struct {
	cfg *Config
}

// NewDetector returns a detector. A nil cfg uses DefaultConfig.
func NewDetector(cfg *Config) *Detector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Detector{cfg: cfg}
}

// Detect builds the adjacency graph over sk's non-construction edges
// (restricted to sel if non-empty), extracts faces, and reports
// byproduct wires/edges/points
func (d *Detector) Detect(sk *sketch.Sketch, sel Selection) DetectionResult {
	log := sklog.For("loop")
	edges := eligibleEdges(sk, sel)
	log.Debug("detect:start", "edgeCount", len(edges))

	var rawLoops []Loop
	var g *detectorGraph
	if d.cfg.PlanarizeIntersections {
		// Circle/Ellipse entities are decomposed into segment chains here,
		// so they already surface as ordinary half-edge faces below; they
		// must not also be added as standalone closedCurveLoops.
		g = planarizedGraph(sk, edges, d.cfg)
		rawLoops = extractHalfEdgeFaces(g, d.cfg.MinSignedArea)
	} else {
		g = buildGraph(sk, edges, d.cfg.CoincidenceTolerance)
		rawLoops = extractCyclesDFS(g, d.cfg.MinSignedArea)
		rawLoops = append(rawLoops, closedCurveLoops(sk, edges, d.cfg)...)
	}

	if d.cfg.Validate && !d.cfg.FindAllLoops {
		rawLoops = filterValidLoops(rawLoops)
	}

	if d.cfg.MaxLoops > 0 && len(rawLoops) > d.cfg.MaxLoops {
		log.Warn("detect:maxLoopsExceeded", "found", len(rawLoops), "max", d.cfg.MaxLoops)
		return DetectionResult{Success: false, Err: sketcherr.ErrDegenerate, TotalLoopsFound: len(rawLoops)}
	}

	oriented := rawLoops
	if d.cfg.ResolveHoles {
		oriented = nestLoops(rawLoops)
	} else {
		for i := range oriented {
			oriented[i].Depth = 0
		}
	}

	faces := facesFromNesting(oriented)

	used := map[sketch.EntityID]bool{}
	for _, f := range faces {
		for _, id := range f.Outer.EntityIDs {
			used[id] = true
		}
		for _, h := range f.Holes {
			for _, id := range h.EntityIDs {
				used[id] = true
			}
		}
	}

	openWires, unusedEdges, isolatedPoints := byproducts(sk, g, used)

	facesWithHoles := 0
	for _, f := range faces {
		if len(f.Holes) > 0 {
			facesWithHoles++
		}
	}

	log.Debug("detect:done", "faces", len(faces), "openWires", len(openWires), "unused", len(unusedEdges))
	return DetectionResult{
		Faces: faces,
		OpenWires: openWires,
		IsolatedPoints: isolatedPoints,
		UnusedEdges: unusedEdges,
		Success: true,
		TotalLoopsFound: len(rawLoops),
		FacesWithHoles: facesWithHoles,
	}
}

// facesFromNesting groups even-depth loops as outer loops and attaches
// odd-depth loops as holes of their immediate (even-depth) parent
// (step 5).
func facesFromNesting(loops []Loop) []Face {
	parentOf := make([]int, len(loops))
	for i := range parentOf {
		parentOf[i] = nearestContainingIndex(loops, i)
	}

	var faces []Face
	faceIndex := map[int]int{}
	for i, l := range loops {
		if l.Depth%2 != 0 {
			continue
		}
		faceIndex[i] = len(faces)
		faces = append(faces, Face{Outer: l})
	}
	for i, l := range loops {
		if l.Depth%2 == 0 {
			continue
		}
		p := parentOf[i]
		if p < 0 {
			continue
		}
		if fi, ok := faceIndex[p]; ok {
			faces[fi].Holes = append(faces[fi].Holes, l)
		}
	}
	return faces
}

// nearestContainingIndex returns the smallest-area loop (other than li
// itself) whose polygon contains li's centroid, or -1.
func nearestContainingIndex(loops []Loop, li int) int {
	best := -1
	bestArea := 0.0
	centroid := geom2d.Centroid(loops[li].Polygon)
	for j, l := range loops {
		if j == li || l.Area() <= loops[li].Area() {
			continue
		}
		if !boxContains(l.Polygon, loops[li].Polygon) {
			continue
		}
		if !geom2d.PointInPolygon(centroid, l.Polygon) {
			continue
		}
		if best < 0 || l.Area() < bestArea {
			best = j
			bestArea = l.Area()
		}
	}
	return best
}

// filterValidLoops drops self-intersecting outer-candidate loops and
// anything already filtered by the area epsilon upstream (// "Failure semantics").
func filterValidLoops(loops []Loop) []Loop {
	var out []Loop
	for _, l := range loops {
		if isSelfIntersecting(l.Polygon) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func isSelfIntersecting(poly []geom2d.Vec2) bool {
	n := len(poly)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := poly[i], poly[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i || (j+1)%n == i {
				continue
			}
			b1, b2 := poly[j], poly[(j+1)%n]
			if _, ok := geom2d.SegmentSegmentIntersect(a1, a2, b1, b2); ok {
				return true
			}
		}
	}
	return false
}

// FindLoopAtPoint returns the smallest face whose outer loop contains pt
// and whose holes do not
func (d *Detector) FindLoopAtPoint(sk *sketch.Sketch, pt geom2d.Vec2) *Face {
	result := d.Detect(sk, nil)
	var best *Face
	bestArea := 0.0
	for i := range result.Faces {
		f := &result.Faces[i]
		if !geom2d.PointInPolygon(pt, f.Outer.Polygon) {
			continue
		}
		inHole := false
		for _, h := range f.Holes {
			if geom2d.PointInPolygon(pt, h.Polygon) {
				inHole = true
				break
			}
		}
		if inHole {
			continue
		}
		if best == nil || f.Outer.Area() < bestArea {
			best = f
			bestArea = f.Outer.Area()
		}
	}
	return best
}

// OppositeVertex implements the rectangle-preserving drag rule from
// spec §4.C: if dragged is a vertex of some face's four-sided outer
// loop, the vertex diagonally opposite it in that loop is returned.
// ok is false when no such loop exists, in which case the caller falls
// back to its default fixed-point set (every other point).
func OppositeVertex(sk *sketch.Sketch, faces []Face, dragged sketch.EntityID) (opposite sketch.EntityID, ok bool) {
	for _, f := range faces {
		verts, isQuad := f.Outer.QuadVertices(sk)
		if !isQuad {
			continue
		}
		for i, v := range verts {
			if v == dragged {
				return verts[(i+2)%4], true
			}
		}
	}
	return "", false
}

// IsClosedLoop reports whether the given entities, walked end to end,
// form a closed wire.
func IsClosedLoop(sk *sketch.Sketch, ids []sketch.EntityID) bool {
	w := BuildWire(sk, ids)
	return w != nil && w.Closed
}

// BuildWire orders a set of entities into a connected edge walk if
// possible, reporting whether the walk closes on itself
func BuildWire(sk *sketch.Sketch, ids []sketch.EntityID) *Wire {
	if len(ids) == 0 {
		return nil
	}
	entities := make([]*sketch.Entity, 0, len(ids))
	for _, id := range ids {
		e := sk.Entity(id)
		if e == nil {
			return nil
		}
		entities = append(entities, e)
	}
	if len(entities) == 1 {
		a, b, ok := entityEndpoints(sk, entities[0])
		if !ok {
			// closed curve on its own is trivially a closed wire.
			return &Wire{EntityIDs: ids, Forward: []bool{true}, Closed: true}
		}
		_ = a
		_ = b
		return &Wire{EntityIDs: ids, Forward: []bool{true}, Closed: false}
	}

	type endpoints struct {
		a, b geom2d.Vec2
	}
	ends := make([]endpoints, len(entities))
	for i, e := range entities {
		a, b, ok := entityEndpoints(sk, e)
		if !ok {
			return nil
		}
		ends[i] = endpoints{a, b}
	}

	const tol = 1e-6
	used := make([]bool, len(entities))
	order := []int{0}
	fwd := []bool{true}
	used[0] = true
	cur := ends[0].b

	for len(order) < len(entities) {
		found := -1
		var isFwd bool
		for i, e := range ends {
			if used[i] {
				continue
			}
			if e.a.NearlyEqual(cur, tol) {
				found, isFwd = i, true
				break
			}
			if e.b.NearlyEqual(cur, tol) {
				found, isFwd = i, false
				break
			}
		}
		if found < 0 {
			return nil
		}
		used[found] = true
		order = append(order, found)
		fwd = append(fwd, isFwd)
		if isFwd {
			cur = ends[found].b
		} else {
			cur = ends[found].a
		}
	}

	w := &Wire{}
	for i, idx := range order {
		w.EntityIDs = append(w.EntityIDs, entities[idx].ID)
		w.Forward = append(w.Forward, fwd[i])
	}
	w.Closed = cur.NearlyEqual(ends[order[0]].a, tol)
	return w
}
