package geom2d

import "math"

// Circumcircle returns the center and radius of the circle through three
// non-colinear points. ok is false when the points are colinear (the
// determinant's magnitude is below an absolute 1e-9), matching the arc
// tool's failure mode.
func Circumcircle(a, b, c Vec2) (center Vec2, radius float64, ok bool) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-9 {
		return Vec2{}, 0, false
	}
	aSq := a.X*a.X + a.Y*a.Y
	bSq := b.X*b.X + b.Y*b.Y
	cSq := c.X*c.X + c.Y*c.Y
	ux := (aSq*(b.Y-c.Y) + bSq*(c.Y-a.Y) + cSq*(a.Y-b.Y)) / d
	uy := (aSq*(c.X-b.X) + bSq*(a.X-c.X) + cSq*(b.X-a.X)) / d
	center = Vec2{ux, uy}
	return center, center.Distance(a), true
}

// LineLineIntersect returns the intersection of infinite lines through
// (a1,a2) and (b1,b2). ok is false when the lines are parallel.
func LineLineIntersect(a1, a2, b1, b2 Vec2) (pt Vec2, ok bool) {
	r := a2.Sub(a1)
	s := b2.Sub(b1)
	denom := r.Cross(s)
	if math.Abs(denom) < 1e-12 {
		return Vec2{}, false
	}
	t := b1.Sub(a1).Cross(s) / denom
	return a1.Add(r.Scale(t)), true
}

// SegmentSegmentIntersect returns the intersection point of segments
// a1-a2 and b1-b2 if it lies within both segments' extents.
func SegmentSegmentIntersect(a1, a2, b1, b2 Vec2) (pt Vec2, ok bool) {
	r := a2.Sub(a1)
	s := b2.Sub(b1)
	denom := r.Cross(s)
	if math.Abs(denom) < 1e-12 {
		return Vec2{}, false
	}
	qp := b1.Sub(a1)
	t := qp.Cross(s) / denom
	u := qp.Cross(r) / denom
	if t < -1e-9 || t > 1+1e-9 || u < -1e-9 || u > 1+1e-9 {
		return Vec2{}, false
	}
	return a1.Add(r.Scale(t)), true
}

// LineCircleIntersect returns up to two intersection points of the
// infinite line through a,b with the circle of given center/radius.
func LineCircleIntersect(a, b, center Vec2, radius float64) []Vec2 {
	d := b.Sub(a)
	f := a.Sub(center)
	aa := d.Dot(d)
	if aa < 1e-18 {
		return nil
	}
	bb := 2 * f.Dot(d)
	cc := f.Dot(f) - radius*radius
	disc := bb*bb - 4*aa*cc
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	t1 := (-bb - sq) / (2 * aa)
	t2 := (-bb + sq) / (2 * aa)
	if disc < 1e-18 {
		return []Vec2{a.Add(d.Scale(t1))}
	}
	return []Vec2{a.Add(d.Scale(t1)), a.Add(d.Scale(t2))}
}

// CircleCircleIntersect returns up to two intersection points of two
// circles.
func CircleCircleIntersect(c1 Vec2, r1 float64, c2 Vec2, r2 float64) []Vec2 {
	d := c1.Distance(c2)
	if d < 1e-12 || d > r1+r2+1e-9 || d < math.Abs(r1-r2)-1e-9 {
		return nil
	}
	aDist := (r1*r1 - r2*r2 + d*d) / (2 * d)
	hSq := r1*r1 - aDist*aDist
	if hSq < 0 {
		hSq = 0
	}
	h := math.Sqrt(hSq)
	dir := c2.Sub(c1).Scale(1 / d)
	mid := c1.Add(dir.Scale(aDist))
	perp := dir.Perp()
	if h < 1e-9 {
		return []Vec2{mid}
	}
	return []Vec2{mid.Add(perp.Scale(h)), mid.Sub(perp.Scale(h))}
}
