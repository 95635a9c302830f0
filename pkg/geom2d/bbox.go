package geom2d

import "math"

// Box is an axis-aligned 2D bounding box. An empty Box has Min > Max on
// at least one axis; use EmptyBox to construct one and Expand to grow it.
type Box struct {
	Min, Max Vec2
}

// EmptyBox returns a box that contains no points.
func EmptyBox() Box {
	return Box{
		Min: Vec2{math.Inf(1), math.Inf(1)},
		Max: Vec2{math.Inf(-1), math.Inf(-1)},
	}
}

// IsEmpty reports whether b contains no points.
func (b Box) IsEmpty() bool { return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y }

// Expand returns b grown to include p.
func (b Box) Expand(p Vec2) Box {
	if b.IsEmpty() {
		return Box{Min: p, Max: p}
	}
	return Box{
		Min: Vec2{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y)},
		Max: Vec2{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y)},
	}
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return Box{
		Min: Vec2{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y)},
		Max: Vec2{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y)},
	}
}

// Inflate returns b grown by margin on every side.
func (b Box) Inflate(margin float64) Box {
	if b.IsEmpty() {
		return b
	}
	return Box{
		Min: Vec2{b.Min.X - margin, b.Min.Y - margin},
		Max: Vec2{b.Max.X + margin, b.Max.Y + margin},
	}
}

// Contains reports whether p lies within b (inclusive).
func (b Box) Contains(p Vec2) bool {
	if b.IsEmpty() {
		return false
	}
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Intersects reports whether b and o overlap.
func (b Box) Intersects(o Box) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return false
	}
	return !(o.Max.X < b.Min.X || o.Min.X > b.Max.X || o.Max.Y < b.Min.Y || o.Min.Y > b.Max.Y)
}

// Width returns the box width, or 0 if empty.
func (b Box) Width() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Max.X - b.Min.X
}

// Height returns the box height, or 0 if empty.
func (b Box) Height() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Max.Y - b.Min.Y
}

// Center returns the box center, or the origin if empty.
func (b Box) Center() Vec2 {
	if b.IsEmpty() {
		return Vec2{}
	}
	return Vec2{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}
