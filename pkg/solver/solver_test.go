package solver

import (
	"math"
	"testing"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

func TestSolveTrivialEmptySketch(t *testing.T) {
	s := sketch.NewSketch()
	solver := New(s, nil)
	result := solver.Solve()
	if !result.Success {
		t.Fatalf("Solve on empty sketch = %+v, want success", result)
	}
}

func TestSolveEnforcesDistance(t *testing.T) {
	s := sketch.NewSketch()
	p1 := s.AddPoint(0, 0, false)
	p2 := s.AddPoint(3, 0, false)
	s.AddFixed(p1)
	s.AddDistance(p1, p2, 10)

	solver := New(s, nil)
	result := solver.Solve()
	if !result.Success {
		t.Fatalf("Solve failed: %+v", result)
	}
	got := s.PointPosition(p1).Distance(s.PointPosition(p2))
	if math.Abs(got-10) > 1e-3 {
		t.Fatalf("distance after solve = %v, want ~10", got)
	}
}

func TestSolveEnforcesHorizontalAndDistance(t *testing.T) {
	s := sketch.NewSketch()
	p1 := s.AddPoint(0, 0, false)
	p2 := s.AddPoint(3, 4, false)
	line := s.AddLine(p1, p2, false)
	s.AddFixed(p1)
	s.AddHorizontal(line)
	s.AddDistance(p1, p2, 5)

	solver := New(s, nil)
	result := solver.Solve()
	if !result.Success {
		t.Fatalf("Solve failed: %+v", result)
	}
	a := s.PointPosition(p1)
	b := s.PointPosition(p2)
	if math.Abs(b.Y-a.Y) > 1e-3 {
		t.Fatalf("line not horizontal after solve: %v vs %v", a, b)
	}
	if math.Abs(a.Distance(b)-5) > 1e-3 {
		t.Fatalf("distance after solve = %v, want ~5", a.Distance(b))
	}
}

func TestSolveWithDragReachesTarget(t *testing.T) {
	s := sketch.NewSketch()
	p1 := s.AddPoint(0, 0, false)
	solver := New(s, nil)

	result := solver.SolveWithDrag(p1, geom2d.Vec2{X: 5, Y: 5}, nil)
	if !result.Success {
		t.Fatalf("SolveWithDrag failed: %+v", result)
	}
	got := s.PointPosition(p1)
	if got.Distance(geom2d.Vec2{X: 5, Y: 5}) > 1e-3 {
		t.Fatalf("dragged point at %v, want near (5,5)", got)
	}
}

func TestSolveWithDragUnreachableRollsBack(t *testing.T) {
	s := sketch.NewSketch()
	p1 := s.AddPoint(0, 0, false)
	p2 := s.AddPoint(10, 0, false)
	s.AddFixed(p2)
	s.AddDistance(p1, p2, 10) // p1 is constrained to lie on a circle of radius 10 about p2

	before := s.PointPosition(p1)
	solver := New(s, nil)
	// Target is inside the radius-10 circle about p2 at an unreachable combination
	// paired with a second fixed point, forcing rollback.
	result := solver.SolveWithDrag(p1, geom2d.Vec2{X: 10, Y: 0}, []sketch.EntityID{p2})
	if result.Success {
		t.Skip("solver reached a compatible configuration; not a useful rollback case")
	}
	after := s.PointPosition(p1)
	if !after.NearlyEqual(before, 1e-9) {
		t.Fatalf("failed drag did not roll back: before=%v after=%v", before, after)
	}
}

func TestBeginEndPointDragRollsBackOnTickFailure(t *testing.T) {
	s := sketch.NewSketch()
	p1 := s.AddPoint(0, 0, false)
	p2 := s.AddPoint(10, 0, false)
	s.AddFixed(p2)
	s.AddDistance(p1, p2, 10)

	solver := New(s, nil)
	startPos := s.PointPosition(p1)

	solver.BeginPointDrag(p1)
	solver.SolveWithDrag(p1, geom2d.Vec2{X: 3, Y: 0}, []sketch.EntityID{p2}) // inside the circle: should fail and mark the session
	solver.EndPointDrag()

	endPos := s.PointPosition(p1)
	if !endPos.NearlyEqual(startPos, 1e-9) {
		t.Fatalf("EndPointDrag did not restore begin-of-session snapshot: start=%v end=%v", startPos, endPos)
	}
}

func TestBeginPointDragPinsOppositeCornerOnSquare(t *testing.T) {
	s := sketch.NewSketch()
	a := s.AddPoint(0, 0, false)
	b := s.AddPoint(10, 0, false)
	c := s.AddPoint(10, 10, false)
	d := s.AddPoint(0, 10, false)
	s.AddLine(a, b, false)
	s.AddLine(b, c, false)
	s.AddLine(c, d, false)
	s.AddLine(d, a, false)

	solver := New(s, nil)
	solver.BeginPointDrag(a)
	fixed := solver.DragFixedPointIDs()
	if len(fixed) != 1 || fixed[0] != c {
		t.Fatalf("DragFixedPointIDs() = %v, want [%v] (opposite corner)", fixed, c)
	}
	solver.EndPointDrag()
}

func TestBeginPointDragPinsAllOtherPointsWithoutQuadLoop(t *testing.T) {
	s := sketch.NewSketch()
	a := s.AddPoint(0, 0, false)
	b := s.AddPoint(10, 0, false)
	c := s.AddPoint(5, 10, false)

	solver := New(s, nil)
	solver.BeginPointDrag(a)
	fixed := solver.DragFixedPointIDs()
	if len(fixed) != 2 {
		t.Fatalf("DragFixedPointIDs() = %v, want all other points (%v, %v)", fixed, b, c)
	}
	solver.EndPointDrag()
}

func TestRevertSolutionRestoresPreSolveState(t *testing.T) {
	s := sketch.NewSketch()
	p1 := s.AddPoint(1, 1, false)
	s.AddFixed(p1)
	before := s.PointPosition(p1)

	solver := New(s, nil)
	solver.Solve()
	// Nudge manually to simulate post-solve drift, then revert.
	s.Entity(p1).Pos = geom2d.Vec2{X: 99, Y: 99}
	if err := solver.RevertSolution(); err != nil {
		t.Fatalf("RevertSolution: %v", err)
	}
	if got := s.PointPosition(p1); !got.NearlyEqual(before, 1e-9) {
		t.Fatalf("RevertSolution restored %v, want %v", got, before)
	}
}
