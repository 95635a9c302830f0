package solver

import (
	"sort"

	"github.com/onecad/sketchcore/pkg/sketch"
)

// paramRef is one free scalar unknown: a direct pointer into the live
// entity field it represents. Perturbing *ptr perturbs the sketch
// itself, so residual evaluation never needs a separate parameter-to-
// sketch write-back step.
type paramRef struct {
	ptr    *float64
	entity sketch.EntityID
	field  string
}

// system is the flat numerical view of one sketch: a parameter vector
// (every free coordinate/attribute) and the constraint list that
// contributes residuals against it. Rebuilt whenever the sketch reports
// SolverDirty.
type system struct {
	sk     *sketch.Sketch
	params []paramRef
	cols   map[string]int // "entityID:field" -> column index
	fixed  map[sketch.EntityID]bool
}

func paramKey(id sketch.EntityID, field string) string {
	return string(id) + ":" + field
}

// buildSystem enumerates the free parameter vector in the sketch's
// entity storage order (Sketch.Entities), skipping reference-locked entities (invariant 2: they cannot be
// mutated by any non-Fixed constraint) and any entity ID in fixed
// (the drag fixed-point set).
func buildSystem(sk *sketch.Sketch, fixed map[sketch.EntityID]bool) *system {
	sys := &system{sk: sk, cols: map[string]int{}, fixed: fixed}
	for _, e := range sk.Entities() {
		if e.ReferenceLocked || fixed[e.ID] {
			continue
		}
		switch e.Type {
		case sketch.TypePoint:
			sys.addParam(e.ID, "x", &e.Pos.X)
			sys.addParam(e.ID, "y", &e.Pos.Y)
		case sketch.TypeArc:
			sys.addParam(e.ID, "radius", &e.Radius)
			sys.addParam(e.ID, "startAngle", &e.StartAngle)
			sys.addParam(e.ID, "endAngle", &e.EndAngle)
		case sketch.TypeCircle:
			sys.addParam(e.ID, "radius", &e.Radius)
		case sketch.TypeEllipse:
			sys.addParam(e.ID, "major", &e.MajorRadius)
			sys.addParam(e.ID, "minor", &e.MinorRadius)
			sys.addParam(e.ID, "rotation", &e.Rotation)
		}
	}
	return sys
}

func (sys *system) addParam(id sketch.EntityID, field string, ptr *float64) {
	sys.cols[paramKey(id, field)] = len(sys.params)
	sys.params = append(sys.params, paramRef{ptr: ptr, entity: id, field: field})
}

func (sys *system) col(id sketch.EntityID, field string) (int, bool) {
	c, ok := sys.cols[paramKey(id, field)]
	return c, ok
}

// columnsFor returns every free parameter column belonging to entity id.
func (sys *system) columnsFor(id sketch.EntityID) []int {
	e := sys.sk.Entity(id)
	if e == nil {
		return nil
	}
	var fields []string
	switch e.Type {
	case sketch.TypePoint:
		fields = []string{"x", "y"}
	case sketch.TypeArc:
		fields = []string{"radius", "startAngle", "endAngle"}
	case sketch.TypeCircle:
		fields = []string{"radius"}
	case sketch.TypeEllipse:
		fields = []string{"major", "minor", "rotation"}
	default:
		return nil
	}
	var cols []int
	for _, f := range fields {
		if c, ok := sys.col(id, f); ok {
			cols = append(cols, c)
		}
	}
	return cols
}

// touchedColumns returns every free parameter column reachable from a
// constraint: its own referenced entities, plus the endpoints of any
// referenced line and the center point of any referenced curve.
func (sys *system) touchedColumns(c *sketch.Constraint) []int {
	seen := map[sketch.EntityID]bool{}
	for _, id := range c.Entities {
		e := sys.sk.Entity(id)
		if e == nil {
			continue
		}
		seen[id] = true
		switch e.Type {
		case sketch.TypeLine:
			seen[e.Start] = true
			seen[e.End] = true
		case sketch.TypeArc, sketch.TypeCircle, sketch.TypeEllipse:
			seen[e.Center] = true
		}
	}
	colSet := map[int]bool{}
	for id := range seen {
		for _, col := range sys.columnsFor(id) {
			colSet[col] = true
		}
	}
	cols := make([]int, 0, len(colSet))
	for c := range colSet {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	return cols
}

// snapshot captures every free parameter's current value, for rollback.
func (sys *system) snapshot() []float64 {
	out := make([]float64, len(sys.params))
	for i, p := range sys.params {
		out[i] = *p.ptr
	}
	return out
}

// restore writes a previously captured snapshot back into the sketch.
func (sys *system) restore(values []float64) {
	for i, p := range sys.params {
		*p.ptr = values[i]
	}
}
