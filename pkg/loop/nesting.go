package loop

import (
	"sort"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

// nestLoops implements step 5: sort loops by descending
// area, find each loop's smallest-area containing parent, assign
// depth, and orient by parity (even depth CCW, odd depth CW).
func nestLoops(loops []Loop) []Loop {
	order := make([]int, len(loops))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return loops[order[i]].Area() > loops[order[j]].Area()
	})

	parent := make([]int, len(loops))
	for i := range parent {
		parent[i] = -1
	}
	depth := make([]int, len(loops))

	for rank, li := range order {
		best := -1
		bestArea := 0.0
		for _, lj := range order[:rank] {
			if !boxContains(loops[lj].Polygon, loops[li].Polygon) {
				continue
			}
			centroid := geom2d.Centroid(loops[li].Polygon)
			if !geom2d.PointInPolygon(centroid, loops[lj].Polygon) {
				continue
			}
			if best == -1 || loops[lj].Area() < bestArea {
				best = lj
				bestArea = loops[lj].Area()
			}
		}
		parent[li] = best
		if best >= 0 {
			depth[li] = depth[best] + 1
		}
	}

	out := make([]Loop, len(loops))
	for i, l := range loops {
		l.Depth = depth[i]
		wantCCW := depth[i]%2 == 0
		isCCW := l.SignedArea >= 0
		if wantCCW != isCCW {
			l = reverseLoop(l)
		}
		out[i] = l
	}
	return out
}

// boxContains is a cheap bounding-box prune before the exact
// point-in-polygon containment test.
func boxContains(outer, inner []geom2d.Vec2) bool {
	ob := geom2d.BoundsOf(outer)
	ib := geom2d.BoundsOf(inner)
	return ob.Min.X <= ib.Min.X && ob.Min.Y <= ib.Min.Y && ob.Max.X >= ib.Max.X && ob.Max.Y >= ib.Max.Y
}

// reverseLoop flips a loop's traversal direction: entity/forward order
// is reversed and each Forward flag inverted, and the polygon/signed
// area flip sign to match (step 5).
func reverseLoop(l Loop) Loop {
	n := len(l.EntityIDs)
	out := Loop{
		EntityIDs: make([]sketch.EntityID, n),
		Forward: make([]bool, n),
		Polygon: make([]geom2d.Vec2, n),
		SignedArea: -l.SignedArea,
		Depth: l.Depth,
	}
	for i := 0; i < n; i++ {
		out.EntityIDs[i] = l.EntityIDs[n-1-i]
		out.Forward[i] = !l.Forward[n-1-i]
		out.Polygon[i] = l.Polygon[n-1-i]
	}
	return out
}
