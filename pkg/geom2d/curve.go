package geom2d

import "math"

// PointSegmentDistance returns the distance from p to the segment a-b and
// the parameter t in [0,1] of the closest point along the segment.
func PointSegmentDistance(p, a, b Vec2) (dist, t float64) {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq < 1e-18 {
		return p.Distance(a), 0
	}
	t = p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := a.Add(ab.Scale(t))
	return p.Distance(closest), t
}

// ClosestPointOnSegment returns the closest point on segment a-b to p.
func ClosestPointOnSegment(p, a, b Vec2) Vec2 {
	_, t := PointSegmentDistance(p, a, b)
	return a.Add(b.Sub(a).Scale(t))
}

// PointCircleDistance returns |distance-to-center - radius|, the
// perpendicular distance from p to the circle of the given center/radius.
func PointCircleDistance(p, center Vec2, radius float64) float64 {
	return math.Abs(p.Distance(center) - radius)
}

// PointArcDistance returns the perpendicular distance from p to the arc of
// the given center/radius/start/end(radians), restricted to the angular
// extent; returns math.Inf(1) if the closest point on the full circle
// falls outside [start,end].
func PointArcDistance(p, center Vec2, radius, start, end float64) float64 {
	dir := p.Sub(center)
	if dir.LengthSq() < 1e-18 {
		// cursor on the center: any angle is equidistant from every point
		// on the arc at radius; report the radius itself.
		return radius
	}
	angle := dir.Angle()
	if !AngleInSweep(angle, start, end) {
		return math.Inf(1)
	}
	return math.Abs(dir.Length() - radius)
}

// SampleArc returns n+1 points evenly spaced (by angle) along the CCW
// sweep of the arc from start to end.
func SampleArc(center Vec2, radius, start, end float64, n int) []Vec2 {
	if n < 1 {
		n = 1
	}
	sweep := SweepCCW(start, end)
	pts := make([]Vec2, 0, n+1)
	for i := 0; i <= n; i++ {
		a := start + sweep*float64(i)/float64(n)
		pts = append(pts, center.Add(Vec2{math.Cos(a), math.Sin(a)}.Scale(radius)))
	}
	return pts
}

// SampleCircle returns n points evenly spaced around the full circle.
func SampleCircle(center Vec2, radius float64, n int) []Vec2 {
	if n < 3 {
		n = 3
	}
	pts := make([]Vec2, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = center.Add(Vec2{math.Cos(a), math.Sin(a)}.Scale(radius))
	}
	return pts
}

// SampleEllipse returns n points evenly spaced by parametric angle around
// the ellipse, accounting for its rotation.
func SampleEllipse(center Vec2, major, minor, rotation float64, n int) []Vec2 {
	if n < 3 {
		n = 3
	}
	pts := make([]Vec2, n)
	for i := 0; i < n; i++ {
		t := 2 * math.Pi * float64(i) / float64(n)
		local := Vec2{major * math.Cos(t), minor * math.Sin(t)}
		pts[i] = center.Add(local.Rotated(rotation))
	}
	return pts
}

// EllipseDistanceSamples is the number of parametric samples
// find_nearest uses for ellipse hit-testing
const EllipseDistanceSamples = 72

// PointEllipseDistance returns an approximate distance from p to the
// ellipse boundary via a 72-sample parametric search, refined by 20
// ternary-search steps within one sample step either side of the best
// sample.
func PointEllipseDistance(p, center Vec2, major, minor, rotation float64) float64 {
	best := math.Inf(1)
	bestT := 0.0
	for i := 0; i < EllipseDistanceSamples; i++ {
		t := 2 * math.Pi * float64(i) / float64(EllipseDistanceSamples)
		d := p.Distance(ellipsePoint(center, major, minor, rotation, t))
		if d < best {
			best = d
			bestT = t
		}
	}
	// refine with a local golden-section-ish bisection around bestT
	step := 2 * math.Pi / EllipseDistanceSamples
	lo, hi := bestT-step, bestT+step
	for i := 0; i < 20; i++ {
		mid1 := lo + (hi-lo)/3
		mid2 := hi - (hi-lo)/3
		d1 := p.Distance(ellipsePoint(center, major, minor, rotation, mid1))
		d2 := p.Distance(ellipsePoint(center, major, minor, rotation, mid2))
		if d1 < d2 {
			hi = mid2
		} else {
			lo = mid1
		}
	}
	mid := (lo + hi) / 2
	if d := p.Distance(ellipsePoint(center, major, minor, rotation, mid)); d < best {
		best = d
	}
	return best
}

func ellipsePoint(center Vec2, major, minor, rotation, t float64) Vec2 {
	local := Vec2{major * math.Cos(t), minor * math.Sin(t)}
	return center.Add(local.Rotated(rotation))
}

// ShoelaceArea returns the signed area of a closed polygon (positive CCW).
func ShoelaceArea(poly []Vec2) float64 {
	if len(poly) < 3 {
		return 0
	}
	sum := 0.0
	n := len(poly)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}
	return sum / 2
}

// Centroid returns the area-weighted centroid of a closed polygon.
func Centroid(poly []Vec2) Vec2 {
	area := ShoelaceArea(poly)
	if math.Abs(area) < 1e-18 || len(poly) < 3 {
		// degenerate: fall back to the vertex average
		var sum Vec2
		for _, p := range poly {
			sum = sum.Add(p)
		}
		if len(poly) == 0 {
			return Vec2{}
		}
		return sum.Scale(1 / float64(len(poly)))
	}
	var cx, cy float64
	n := len(poly)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
		cx += (poly[i].X + poly[j].X) * cross
		cy += (poly[i].Y + poly[j].Y) * cross
	}
	factor := 1 / (6 * area)
	return Vec2{cx * factor, cy * factor}
}

// PointInPolygon reports whether p lies inside the closed polygon poly
// using the ray-casting algorithm.
func PointInPolygon(p Vec2, poly []Vec2) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xInt := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < xInt {
				inside = !inside
			}
		}
	}
	return inside
}

// BoundsOf returns the axis-aligned bounding box of a point set.
func BoundsOf(pts []Vec2) Box {
	b := EmptyBox()
	for _, p := range pts {
		b = b.Expand(p)
	}
	return b
}
