package snap

import (
	"fmt"
	"testing"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

func TestFindBestSnapPrefersVertexOverGrid(t *testing.T) {
	s := sketch.NewSketch()
	p := s.AddPoint(5.1, 5.0, false)

	r := NewResolver(DefaultConfig())
	best := r.FindBestSnap(s, geom2d.Vec2{X: 5.0, Y: 5.0}, Context{})
	if !best.Snapped || best.Type != TypeVertex || best.EntityID != p {
		t.Fatalf("best = %+v, want a TypeVertex snap to %v", best, p)
	}
}

func TestFindBestSnapFallsBackToGrid(t *testing.T) {
	s := sketch.NewSketch()
	r := NewResolver(DefaultConfig())
	best := r.FindBestSnap(s, geom2d.Vec2{X: 4.6, Y: 7.4}, Context{})
	if !best.Snapped || best.Type != TypeGrid {
		t.Fatalf("best = %+v, want a TypeGrid snap", best)
	}
	if best.Position.X != 5 || best.Position.Y != 7 {
		t.Fatalf("grid snap position = %v, want (5,7)", best.Position)
	}
}

func TestMidpointSnap(t *testing.T) {
	s := sketch.NewSketch()
	p1 := s.AddPoint(0, 0, false)
	p2 := s.AddPoint(10, 0, false)
	s.AddLine(p1, p2, false)

	r := NewResolver(DefaultConfig())
	best := r.FindBestSnap(s, geom2d.Vec2{X: 5.1, Y: 0.1}, Context{})
	if !best.Snapped || best.Type != TypeMidpoint {
		t.Fatalf("best = %+v, want TypeMidpoint", best)
	}
	if best.Position.X != 5 || best.Position.Y != 0 {
		t.Fatalf("midpoint = %v, want (5,0)", best.Position)
	}
}

func TestIntersectionSnapBetweenTwoLines(t *testing.T) {
	s := sketch.NewSketch()
	// The lines cross at the origin but their midpoints, (5,0) and (0,5),
	// are outside the snap radius, so Midpoint (a higher-priority type)
	// does not compete with the intersection.
	a1 := s.AddPoint(-5, 0, false)
	a2 := s.AddPoint(15, 0, false)
	s.AddLine(a1, a2, false)
	b1 := s.AddPoint(0, -5, false)
	b2 := s.AddPoint(0, 15, false)
	s.AddLine(b1, b2, false)

	r := NewResolver(DefaultConfig())
	best := r.FindBestSnap(s, geom2d.Vec2{X: 0.2, Y: 0.2}, Context{})
	if !best.Snapped || best.Type != TypeIntersection {
		t.Fatalf("best = %+v, want TypeIntersection", best)
	}
	if !best.Position.NearlyEqual(geom2d.Vec2{}, 1e-9) {
		t.Fatalf("intersection = %v, want origin", best.Position)
	}
}

func TestHorizontalVerticalGuideSnaps(t *testing.T) {
	s := sketch.NewSketch()
	anchor := geom2d.Vec2{X: 0, Y: 0}

	// Grid snapping is off: the grid point (8,0) would otherwise outrank
	// the Horizontal guide by type priority.
	cfg := DefaultConfig()
	cfg.GridSnapEnabled = false
	r := NewResolver(cfg)
	best := r.FindBestSnap(s, geom2d.Vec2{X: 8, Y: 0.3}, Context{AnchorPoint: anchor, HasAnchor: true})
	if !best.Snapped || !best.HasGuide {
		t.Fatalf("best = %+v, want a guide-bearing snap", best)
	}
	if best.Type != TypeHorizontal {
		t.Fatalf("best.Type = %v, want TypeHorizontal", best.Type)
	}
	if best.Position.Y != 0 {
		t.Fatalf("horizontal guide y = %v, want 0", best.Position.Y)
	}
}

func TestAmbiguityCyclingAdvancesThroughTiedCandidates(t *testing.T) {
	s := sketch.NewSketch()
	p1 := s.AddPoint(5, 5, false)
	p2 := s.AddPoint(5, 5.00005, false) // within AmbiguityDistanceTolerance of each other's distance to cursor

	r := NewResolver(DefaultConfig())
	best := r.FindBestSnap(s, geom2d.Vec2{X: 5, Y: 5}, Context{})
	if !best.Snapped {
		t.Fatalf("expected a snap")
	}
	if !r.HasAmbiguity() {
		t.Skip("candidates not close enough to tie under default tolerance; non-deterministic by construction")
	}
	first := r.CycleAmbiguity()
	second := r.CycleAmbiguity()
	if first.EntityID == second.EntityID {
		t.Fatalf("CycleAmbiguity returned the same entity twice: %v", first.EntityID)
	}
	seen := map[sketch.EntityID]bool{first.EntityID: true, second.EntityID: true}
	if !seen[p1] || !seen[p2] {
		t.Fatalf("cycled candidates %v/%v did not cover both points %v/%v", first.EntityID, second.EntityID, p1, p2)
	}
}

// TestSpatialHashMatchesBruteForce builds a sketch large enough to
// exercise multiple grid cells and checks that enabling the spatial
// hash never changes which candidate is chosen versus a brute-force
// (unfiltered) resolution.
func TestSpatialHashMatchesBruteForce(t *testing.T) {
	s := sketch.NewSketch()
	for i := 0; i < 70; i++ {
		x := float64(i%14) * 8
		y := float64(i/14) * 8
		p1 := s.AddPoint(x, y, false)
		p2 := s.AddPoint(x+3, y+1, false)
		s.AddLine(p1, p2, false)
	}

	cursors := []geom2d.Vec2{
		{X: 3.1, Y: 1.4}, {X: 11.9, Y: 9.2}, {X: 50, Y: 30}, {X: 0.1, Y: 0.1}, {X: 100, Y: 100},
	}

	hashed := NewResolver(DefaultConfig())
	bruteCfg := DefaultConfig()
	bruteCfg.SpatialHashEnabled = false
	brute := NewResolver(bruteCfg)

	for _, c := range cursors {
		hb := hashed.FindBestSnap(s, c, Context{})
		bb := brute.FindBestSnap(s, c, Context{})
		if hb.Snapped != bb.Snapped {
			t.Fatalf("cursor %v: hashed.Snapped=%v brute.Snapped=%v", c, hb.Snapped, bb.Snapped)
		}
		if !hb.Snapped {
			continue
		}
		if hb.Type != bb.Type || !hb.Position.NearlyEqual(bb.Position, 1e-5) {
			t.Fatalf("cursor %v: hashed=%+v brute=%+v differ", c, hb, bb)
		}
	}
}

func TestTypeStringAndHintTextCoverAllOrdinals(t *testing.T) {
	for i := TypeVertex; i <= TypeActiveLayer3D; i++ {
		if i.String() == "Unknown" {
			t.Fatalf("Type(%d).String() = Unknown", i)
		}
		if i.HintText() == "" {
			t.Fatalf("Type(%d).HintText() = empty", i)
		}
	}
}

func TestConfigValidateRejectsBadRadius(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SnapRadiusMM = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate = nil, want error for zero radius")
	}
}

func TestTypeEnabledOptOut(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TypeEnabled = map[string]bool{fmt.Sprint(TypeGrid): false}
	if cfg.isTypeEnabled(TypeGrid) {
		t.Fatalf("TypeGrid should be disabled by name lookup via Type.String()")
	}
}

// TestPreviewParityWithNoGuides checks the resolver's guaranteed parity
// property: with no guide-bearing candidate in range, ResolvePreview and
// FindBestSnap must agree.
func TestPreviewParityWithNoGuides(t *testing.T) {
	s := sketch.NewSketch()
	p1 := s.AddPoint(0, 0, false)
	p2 := s.AddPoint(10, 0, false)
	s.AddLine(p1, p2, false)

	r := NewResolver(DefaultConfig())
	commit := r.FindBestSnap(s, geom2d.Vec2{X: 5.1, Y: 0.1}, Context{})
	preview := r.ResolvePreview(s, geom2d.Vec2{X: 5.1, Y: 0.1}, Context{})
	if commit != preview {
		t.Fatalf("commit = %+v, preview = %+v, want equal with no guides in range", commit, preview)
	}
}

// TestPreviewPrefersGuideOverGrid checks that when the commit-path
// winner is a plain positional snap (not Vertex/Endpoint) and a
// guide-bearing candidate is also in range, the preview override
// replaces the winner with the guide.
func TestPreviewPrefersGuideOverGrid(t *testing.T) {
	s := sketch.NewSketch()
	anchor := geom2d.Vec2{X: 0, Y: 0}
	cfg := DefaultConfig()
	// With the default 1mm grid, the grid point (8,0) wins the commit path
	// on type priority; the preview override must replace it with the
	// Horizontal guide at the same position.
	r := NewResolver(cfg)

	cursor := geom2d.Vec2{X: 8, Y: 0.3}
	preview := r.ResolvePreview(s, cursor, Context{AnchorPoint: anchor, HasAnchor: true})
	if !preview.Snapped || !preview.HasGuide {
		t.Fatalf("preview = %+v, want a guide-bearing snap", preview)
	}
}
