// Package snap resolves cursor positions against a sketch's geometry:
// candidate generation per snap type, spatial-hash acceleration,
// priority-ordered resolution, and guide-preserving preview/commit
// parity.
package snap

import (
	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

// Type is a snap candidate's kind. Lower ordinal is higher priority.
type Type int

const (
	TypeVertex Type = iota
	TypeEndpoint
	TypeMidpoint
	TypeCenter
	TypeQuadrant
	TypeIntersection
	TypeOnCurve
	TypeGrid
	TypePerpendicular
	TypeTangent
	TypeHorizontal
	TypeVertical
	TypeSketchGuide
	TypeActiveLayer3D
)

func (t Type) String() string {
	names := [...]string{
		"Vertex", "Endpoint", "Midpoint", "Center", "Quadrant", "Intersection",
		"OnCurve", "Grid", "Perpendicular", "Tangent", "Horizontal", "Vertical",
		"SketchGuide", "ActiveLayer3D",
	}
	if int(t) < 0 || int(t) >= len(names) {
		return "Unknown"
	}
	return names[t]
}

// HintText returns the short rendering label for this snap type.
func (t Type) HintText() string {
	hints := [...]string{
		"PT", "END", "MID", "CEN", "QUAD", "INT", "ON", "GRID",
		"PERP", "TAN", "H", "V", "GUIDE", "3D",
	}
	if int(t) < 0 || int(t) >= len(hints) {
		return ""
	}
	return hints[t]
}

// isGuideBearing reports whether a snap type renders a dashed guide line
// when chosen
func (t Type) isGuideBearing() bool {
	switch t {
	case TypePerpendicular, TypeTangent, TypeHorizontal, TypeVertical, TypeSketchGuide:
		return true
	default:
		return false
	}
}

// Result is one candidate snap, totally ordered by (Type, Distance).
type Result struct {
	Snapped bool
	Type Type
	Position geom2d.Vec2
	EntityID sketch.EntityID
	SecondEntity sketch.EntityID
	PointID sketch.EntityID
	Distance float64
	GuideOrigin geom2d.Vec2
	HasGuide bool
	HintText string
}

// Less implements the priority ordering: lower type ordinal wins; ties
// broken by distance.
func (r Result) Less(o Result) bool {
	if r.Type != o.Type {
		return r.Type < o.Type
	}
	return r.Distance < o.Distance
}
