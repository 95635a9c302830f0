package snap

import (
	"crypto/sha256"
	"testing"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/rng"
	"github.com/onecad/sketchcore/pkg/sketch"
)

// buildFixtureSketch deterministically generates a sketch of lineCount
// lines (each with its two endpoint points, so 3*lineCount entities)
// scattered over a fixed extent, for the // spatial-hash-equivalence property ("on a 140-entity sketch and 120
// random cursors, winners match in type and within 1e-5 in position").
func buildFixtureSketch(r *rng.RNG, lineCount int) *sketch.Sketch {
	s := sketch.NewSketch()
	for i := 0; i < lineCount; i++ {
		x := r.Float64Range(0, 140)
		y := r.Float64Range(0, 140)
		dx := r.Float64Range(-6, 6)
		dy := r.Float64Range(-6, 6)
		p1 := s.AddPoint(x, y, false)
		p2 := s.AddPoint(x+dx, y+dy, false)
		s.AddLine(p1, p2, false)
	}
	return s
}

func TestSpatialHashEquivalence_140LineSketch_120RandomCursors(t *testing.T) {
	configHash := sha256.Sum256([]byte("entities=140"))
	sketchRNG := rng.NewRNG(20260731, "snap_spatial_hash", configHash[:])
	cursorRNG := rng.NewRNG(20260731, "snap_spatial_hash_cursors", configHash[:])

	s := buildFixtureSketch(sketchRNG, 140)

	hashed := NewResolver(DefaultConfig())
	bruteCfg := DefaultConfig()
	bruteCfg.SpatialHashEnabled = false
	brute := NewResolver(bruteCfg)

	for i := 0; i < 120; i++ {
		cursor := geom2d.Vec2{X: cursorRNG.Float64Range(0, 140), Y: cursorRNG.Float64Range(0, 140)}

		hb := hashed.FindBestSnap(s, cursor, Context{})
		bb := brute.FindBestSnap(s, cursor, Context{})

		if hb.Snapped != bb.Snapped {
			t.Fatalf("cursor %d %v: hashed.Snapped=%v brute.Snapped=%v", i, cursor, hb.Snapped, bb.Snapped)
		}
		if !hb.Snapped {
			continue
		}
		if hb.Type != bb.Type {
			t.Fatalf("cursor %d %v: hashed.Type=%v brute.Type=%v", i, cursor, hb.Type, bb.Type)
		}
		if !hb.Position.NearlyEqual(bb.Position, 1e-5) {
			t.Fatalf("cursor %d %v: hashed.Position=%v brute.Position=%v differ beyond 1e-5", i, cursor, hb.Position, bb.Position)
		}
	}
}
