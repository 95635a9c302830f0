package sketch

import (
	"testing"

	"github.com/onecad/sketchcore/pkg/geom2d"
)

func TestAddLineRegistersBackPointers(t *testing.T) {
	s := NewSketch()
	p1 := s.AddPoint(0, 0, false)
	p2 := s.AddPoint(10, 0, false)
	line := s.AddLine(p1, p2, false)
	if line == "" {
		t.Fatal("AddLine failed")
	}
	if got := s.Entity(p1).ConnectedEntities(); len(got) != 1 || got[0] != line {
		t.Fatalf("p1 back-pointer = %v, want [%s]", got, line)
	}
	if got := s.Entity(p2).ConnectedEntities(); len(got) != 1 || got[0] != line {
		t.Fatalf("p2 back-pointer = %v, want [%s]", got, line)
	}
}

func TestAddLineMissingEndpointFails(t *testing.T) {
	s := NewSketch()
	p1 := s.AddPoint(0, 0, false)
	if id := s.AddLine(p1, "missing", false); id != "" {
		t.Fatalf("AddLine with missing endpoint = %q, want empty", id)
	}
	if len(s.Entities()) != 1 {
		t.Fatalf("state changed on failed AddLine: %d entities", len(s.Entities()))
	}
}

func TestRemoveEntityCascadesOrphanPoints(t *testing.T) {
	s := NewSketch()
	p1 := s.AddPoint(0, 0, false)
	p2 := s.AddPoint(10, 0, false)
	line := s.AddLine(p1, p2, false)

	if !s.RemoveEntity(line) {
		t.Fatal("RemoveEntity(line) failed")
	}
	if s.Entity(p1) != nil || s.Entity(p2) != nil {
		t.Fatal("orphaned endpoints were not cascade-removed")
	}
}

func TestRemoveEntityReferenceLockedFails(t *testing.T) {
	s := NewSketch()
	p1 := s.AddPoint(0, 0, false)
	p2 := s.AddPoint(10, 0, false)
	line := s.AddLine(p1, p2, false)
	s.SetReferenceLocked(line, true)

	if s.RemoveEntity(line) {
		t.Fatal("RemoveEntity succeeded on reference-locked line")
	}
	if s.AddHorizontal(line) != "" {
		t.Fatal("AddHorizontal succeeded on reference-locked line")
	}
	if len(s.Constraints()) != 0 {
		t.Fatal("constraints changed on failed AddHorizontal")
	}
}

func TestRemoveEntityLockedDependentBlocksPointRemoval(t *testing.T) {
	s := NewSketch()
	p1 := s.AddPoint(0, 0, false)
	p2 := s.AddPoint(10, 0, false)
	line := s.AddLine(p1, p2, false)
	s.SetReferenceLocked(line, true)

	if s.RemoveEntity(p1) {
		t.Fatal("RemoveEntity(p1) should fail: dependent line is locked")
	}
	if s.Entity(p1) == nil || s.Entity(line) == nil {
		t.Fatal("state changed on failed point removal")
	}
}

func TestSplitLineTooCloseToEndpointFails(t *testing.T) {
	s := NewSketch()
	p1 := s.AddPoint(0, 0, false)
	p2 := s.AddPoint(10, 0, false)
	line := s.AddLine(p1, p2, false)

	left, right := s.SplitLineAt(line, geom2d.Vec2{X: 0.05, Y: 0})
	if left != "" || right != "" {
		t.Fatalf("split too close to endpoint succeeded: %s/%s", left, right)
	}
	if s.Entity(line) == nil {
		t.Fatal("original line removed despite failed split")
	}
}

func TestSplitLineMidpoint(t *testing.T) {
	s := NewSketch()
	p1 := s.AddPoint(0, 0, false)
	p2 := s.AddPoint(10, 0, false)
	line := s.AddLine(p1, p2, false)

	left, right := s.SplitLineAt(line, geom2d.Vec2{X: 5, Y: 0})
	if left == "" || right == "" {
		t.Fatal("split at midpoint failed")
	}
	if s.Entity(line) != nil {
		t.Fatal("original line still present after split")
	}
	if len(s.Entities()) != 5 { // p1, p2, mid, left, right
		t.Fatalf("entity count after split = %d, want 5", len(s.Entities()))
	}
}

func TestEllipseOrderingEnforced(t *testing.T) {
	s := NewSketch()
	c := s.AddPoint(0, 0, false)
	ell := s.AddEllipse(c, 2, 5, 0, false)
	e := s.Entity(ell)
	if e.MajorRadius < e.MinorRadius {
		t.Fatalf("major=%v minor=%v, want major >= minor", e.MajorRadius, e.MinorRadius)
	}
	if e.MajorRadius != 5 || e.MinorRadius != 2 {
		t.Fatalf("radii not swapped: major=%v minor=%v", e.MajorRadius, e.MinorRadius)
	}
}

func TestDegreesOfFreedom(t *testing.T) {
	s := NewSketch()
	p1 := s.AddPoint(0, 0, false)
	p2 := s.AddPoint(10, 0, false)
	s.AddLine(p1, p2, false)
	if got := s.GetDegreesOfFreedom(); got != 4 {
		t.Fatalf("DOF = %d, want 4", got)
	}
	s.AddDistance(p1, p2, 10)
	if got := s.GetDegreesOfFreedom(); got != 3 {
		t.Fatalf("DOF after distance = %d, want 3", got)
	}
}

func TestEmptySketchSolverTrivialDOF(t *testing.T) {
	s := NewSketch()
	if got := s.GetDegreesOfFreedom(); got != 0 {
		t.Fatalf("DOF of empty sketch = %d, want 0", got)
	}
	if s.IsOverConstrained() {
		t.Fatal("empty sketch reported over-constrained")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s := NewSketch()
	p1 := s.AddPoint(0, 0, false)
	p2 := s.AddPoint(10, 0, false)
	p3 := s.AddPoint(10, 10, false)
	s.AddLine(p1, p2, false)
	s.AddLine(p2, p3, true)
	s.AddDistance(p1, p2, 10)
	s.AddHorizontal(s.Entities()[3].ID)

	data, err := s.ToJSON(nil)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	restored, hf, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if hf != nil {
		t.Fatal("unexpected host face")
	}
	if len(restored.Entities()) != len(s.Entities()) {
		t.Fatalf("entity count mismatch: %d vs %d", len(restored.Entities()), len(s.Entities()))
	}
	if len(restored.Constraints()) != len(s.Constraints()) {
		t.Fatalf("constraint count mismatch: %d vs %d", len(restored.Constraints()), len(s.Constraints()))
	}
}

func TestFromJSONMalformedReturnsNoSketch(t *testing.T) {
	s, hf, err := FromJSON([]byte(`{not json`))
	if err == nil || s != nil || hf != nil {
		t.Fatal("malformed JSON should return (nil, nil, error)")
	}
}
