package snap

import (
	"math"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

type cellKey struct{ x, y int }

// spatialHash buckets entities by the grid cell their bounding box
// touches, so a cursor query only has to consider entities near it
// rather than the whole sketch. Rebuilt lazily whenever the sketch's
// entity count changes.
type spatialHash struct {
	cellSize      float64
	buckets       map[cellKey][]sketch.EntityID
	lastEntityCount int
	built         bool
}

func newSpatialHash(cellSize float64) *spatialHash {
	return &spatialHash{cellSize: cellSize, buckets: map[cellKey][]sketch.EntityID{}, lastEntityCount: -1}
}

func (h *spatialHash) cellOf(p geom2d.Vec2) cellKey {
	return cellKey{int(math.Floor(p.X / h.cellSize)), int(math.Floor(p.Y / h.cellSize))}
}

func (h *spatialHash) rebuild(sk *sketch.Sketch) {
	h.buckets = map[cellKey][]sketch.EntityID{}
	entities := sk.Entities()
	for _, e := range entities {
		box := sk.Bounds(e)
		if box.IsEmpty() {
			continue
		}
		minCell := h.cellOf(box.Min)
		maxCell := h.cellOf(box.Max)
		for x := minCell.x; x <= maxCell.x; x++ {
			for y := minCell.y; y <= maxCell.y; y++ {
				k := cellKey{x, y}
				h.buckets[k] = append(h.buckets[k], e.ID)
			}
		}
	}
	h.lastEntityCount = len(entities)
	h.built = true
}

func (h *spatialHash) ensureFresh(sk *sketch.Sketch) {
	if !h.built || h.lastEntityCount != len(sk.Entities()) {
		h.rebuild(sk)
	}
}

// candidatesNear returns every entity ID in any cell overlapping a
// square of side 2*radius centered on cursor. The caller still does an
// exact distance test; this only prunes the search space.
func (h *spatialHash) candidatesNear(sk *sketch.Sketch, cursor geom2d.Vec2, radius float64) map[sketch.EntityID]bool {
	h.ensureFresh(sk)
	minCell := h.cellOf(geom2d.Vec2{X: cursor.X - radius, Y: cursor.Y - radius})
	maxCell := h.cellOf(geom2d.Vec2{X: cursor.X + radius, Y: cursor.Y + radius})
	out := map[sketch.EntityID]bool{}
	for x := minCell.x; x <= maxCell.x; x++ {
		for y := minCell.y; y <= maxCell.y; y++ {
			for _, id := range h.buckets[cellKey{x, y}] {
				out[id] = true
			}
		}
	}
	return out
}
