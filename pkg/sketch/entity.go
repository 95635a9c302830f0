// Package sketch owns a single sketch's entities and constraints: the
// tagged-enum entity/constraint model, referential-integrity invariants,
// reference-locked guards, orphan cleanup, split operations, and DOF
// accounting described by the sketch store component of the kernel. It
// has no knowledge of solving, snapping, or face extraction — those
// consume a *Sketch through its public accessors.
package sketch

import (
	"fmt"
	"math"

	"github.com/onecad/sketchcore/pkg/geom2d"
)

// EntityID identifies an entity for the lifetime of the sketch that owns
// it. IDs are dispensed in monotonically increasing creation order.
type EntityID string

// EntityType tags which variant of the entity sum type a value holds.
type EntityType int

const (
	TypePoint EntityType = iota
	TypeLine
	TypeArc
	TypeCircle
	TypeEllipse
)

// String returns the human-readable type name.
func (t EntityType) String() string {
	switch t {
	case TypePoint:
		return "Point"
	case TypeLine:
		return "Line"
	case TypeArc:
		return "Arc"
	case TypeCircle:
		return "Circle"
	case TypeEllipse:
		return "Ellipse"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// Entity is the tagged union over the five sketch geometry shapes
// ("deep entity hierarchy" redesigned as a sum type). Exactly
// one of the type-specific fields is meaningful, selected by Type; callers
// check Type before reading them.
type Entity struct {
	ID EntityID
	Type EntityType
	Construction bool
	ReferenceLocked bool

	// Point fields.
	Pos geom2d.Vec2

	// connectedEntities is the back-pointer set for points: every entity
	// ID that references this point as an endpoint or center. Invariant
	// 4: this must always equal the set of entities actually referencing
	// the point.
	connectedEntities map[EntityID]struct{}

	// Line fields.
	Start, End EntityID

	// Arc/Circle/Ellipse fields.
	Center EntityID
	Radius float64
	StartAngle, EndAngle float64 // Arc, radians
	MajorRadius, MinorRadius float64 // Ellipse
	Rotation float64 // Ellipse, radians
}

// DegreesOfFreedom returns the DOF this entity contributes :
// Point=2, Line=0 (its endpoints carry the freedom), Arc=3, Circle=1,
// Ellipse=3.
func (e *Entity) DegreesOfFreedom() int {
	switch e.Type {
	case TypePoint:
		return 2
	case TypeLine:
		return 0
	case TypeArc:
		return 3
	case TypeCircle:
		return 1
	case TypeEllipse:
		return 3
	default:
		return 0
	}
}

// ConnectedEntities returns the set of entity IDs referencing this point,
// in no particular order. Valid only when Type == TypePoint.
func (e *Entity) ConnectedEntities() []EntityID {
	ids := make([]EntityID, 0, len(e.connectedEntities))
	for id := range e.connectedEntities {
		ids = append(ids, id)
	}
	return ids
}

func (e *Entity) addConnection(id EntityID) {
	if e.connectedEntities == nil {
		e.connectedEntities = make(map[EntityID]struct{})
	}
	e.connectedEntities[id] = struct{}{}
}

func (e *Entity) removeConnection(id EntityID) {
	delete(e.connectedEntities, id)
}

func (e *Entity) isOrphanPoint() bool {
	return e.Type == TypePoint && len(e.connectedEntities) == 0
}

// enforceEllipseOrdering swaps major/minor and rotates by pi/2 when
// minor > major, per invariant 7.
func (e *Entity) enforceEllipseOrdering() {
	if e.Type != TypeEllipse {
		return
	}
	if e.MinorRadius > e.MajorRadius {
		e.MajorRadius, e.MinorRadius = e.MinorRadius, e.MajorRadius
		e.Rotation += math.Pi / 2
	}
}
