package sketch

import (
	"fmt"
	"math"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sklog"
)

// lineSplitRelTolerance and arcSplitAngleTolerance are the tolerances below
// which a split parameter is considered too close to an existing
// endpoint: 0.1% of line length for lines, 0.01 rad for arcs.
const (
	lineSplitRelTolerance = 0.001
	arcSplitAngleTolerance = 0.01
)

// Sketch owns all entities and constraints for one sketch. It enforces
// invariants 1-8 on every mutation and never leaves a failed
// operation in a partially-applied state.
type Sketch struct {
	Plane geom2d.Plane

	entities []*Entity
	entityIndex map[EntityID]int
	constraints []*Constraint
	constraintIndex map[ConstraintID]int

	nextEntityID int
	nextConstraintID int

	dofDirty bool
	dofCache int
	solverDirty bool
}

// NewSketch returns an empty sketch on the default XY plane.
func NewSketch() *Sketch {
	return &Sketch{
		Plane: geom2d.DefaultPlane(),
		entityIndex: make(map[EntityID]int),
		constraintIndex: make(map[ConstraintID]int),
		dofDirty: true,
		solverDirty: true,
	}
}

func (s *Sketch) newEntityID() EntityID {
	s.nextEntityID++
	return EntityID(fmt.Sprintf("e%d", s.nextEntityID))
}

func (s *Sketch) newConstraintID() ConstraintID {
	s.nextConstraintID++
	return ConstraintID(fmt.Sprintf("c%d", s.nextConstraintID))
}

func (s *Sketch) markDirty() {
	s.dofDirty = true
	s.solverDirty = true
}

// SolverDirty reports whether a mutation has happened since the solver
// last rebuilt its system ("laziness & rebuild").
func (s *Sketch) SolverDirty() bool { return s.solverDirty }

// ClearSolverDirty is called by the solver driver after it rebuilds its
// system from this sketch.
func (s *Sketch) ClearSolverDirty() { s.solverDirty = false }

// --- lookup -----------------------------------------------------------

// Entity returns the entity with the given ID, or nil if absent.
func (s *Sketch) Entity(id EntityID) *Entity {
	if i, ok := s.entityIndex[id]; ok {
		return s.entities[i]
	}
	return nil
}

// Entities returns every entity in storage order: creation order until a
// removal, which moves the last entity into the freed slot. The slice is
// owned by the caller; mutating it does not affect the store.
func (s *Sketch) Entities() []*Entity {
	out := make([]*Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Constraint returns the constraint with the given ID, or nil if absent.
func (s *Sketch) Constraint(id ConstraintID) *Constraint {
	if i, ok := s.constraintIndex[id]; ok {
		return s.constraints[i]
	}
	return nil
}

// Constraints returns every constraint in storage order: creation order
// until a removal, which moves the last constraint into the freed slot.
func (s *Sketch) Constraints() []*Constraint {
	out := make([]*Constraint, len(s.constraints))
	copy(out, s.constraints)
	return out
}

// PointPosition returns the current 2D position of a point, arc/circle/
// ellipse center entity. Returns the zero vector if id is not a point.
func (s *Sketch) PointPosition(id EntityID) geom2d.Vec2 {
	e := s.Entity(id)
	if e == nil || e.Type != TypePoint {
		return geom2d.Vec2{}
	}
	return e.Pos
}

// --- add_point / add_line / add_arc / add_circle / add_ellipse --------

// AddPoint adds a free point and returns its ID. Always succeeds.
func (s *Sketch) AddPoint(x, y float64, construction bool) EntityID {
	e := &Entity{
		ID: s.newEntityID(),
		Type: TypePoint,
		Construction: construction,
		Pos: geom2d.Vec2{X: x, Y: y},
	}
	s.insertEntity(e)
	s.markDirty()
	return e.ID
}

// AddLine adds a line between two existing points. Returns "" if either
// endpoint does not exist; state is unchanged on failure.
func (s *Sketch) AddLine(start, end EntityID, construction bool) EntityID {
	sp, ep := s.Entity(start), s.Entity(end)
	if sp == nil || ep == nil || sp.Type != TypePoint || ep.Type != TypePoint {
		return ""
	}
	e := &Entity{
		ID: s.newEntityID(),
		Type: TypeLine,
		Construction: construction,
		Start: start,
		End: end,
	}
	s.insertEntity(e)
	sp.addConnection(e.ID)
	ep.addConnection(e.ID)
	s.markDirty()
	return e.ID
}

// AddArc adds an arc about an existing center point. Returns "" if the
// center does not exist. Negative radius is clamped to 0.
func (s *Sketch) AddArc(center EntityID, radius, startAngle, endAngle float64, construction bool) EntityID {
	cp := s.Entity(center)
	if cp == nil || cp.Type != TypePoint {
		return ""
	}
	if radius < 0 {
		sklog.For("sketch").Warn("AddArc: negative radius clamped to 0", "radius", radius)
		radius = 0
	}
	e := &Entity{
		ID: s.newEntityID(),
		Type: TypeArc,
		Construction: construction,
		Center: center,
		Radius: radius,
		StartAngle: startAngle,
		EndAngle: endAngle,
	}
	s.insertEntity(e)
	cp.addConnection(e.ID)
	s.markDirty()
	return e.ID
}

// AddCircle adds a circle about an existing center point.
func (s *Sketch) AddCircle(center EntityID, radius float64, construction bool) EntityID {
	cp := s.Entity(center)
	if cp == nil || cp.Type != TypePoint {
		return ""
	}
	if radius < 0 {
		sklog.For("sketch").Warn("AddCircle: negative radius clamped to 0", "radius", radius)
		radius = 0
	}
	e := &Entity{
		ID: s.newEntityID(),
		Type: TypeCircle,
		Construction: construction,
		Center: center,
		Radius: radius,
	}
	s.insertEntity(e)
	cp.addConnection(e.ID)
	s.markDirty()
	return e.ID
}

// AddEllipse adds an ellipse about an existing center point. major/minor
// are reordered (and rotation adjusted by pi/2) if minor > major, per
// invariant 7.
func (s *Sketch) AddEllipse(center EntityID, major, minor, rotation float64, construction bool) EntityID {
	cp := s.Entity(center)
	if cp == nil || cp.Type != TypePoint {
		return ""
	}
	if major < 0 {
		major = 0
	}
	if minor < 0 {
		minor = 0
	}
	e := &Entity{
		ID: s.newEntityID(),
		Type: TypeEllipse,
		Construction: construction,
		Center: center,
		MajorRadius: major,
		MinorRadius: minor,
		Rotation: rotation,
	}
	e.enforceEllipseOrdering()
	s.insertEntity(e)
	cp.addConnection(e.ID)
	s.markDirty()
	return e.ID
}

func (s *Sketch) insertEntity(e *Entity) {
	s.entityIndex[e.ID] = len(s.entities)
	s.entities = append(s.entities, e)
}

// --- remove_entity ------------------------------------------------------

// RemoveEntity removes an entity and cascades per invariants 3 and 5.
// Fails (returns false, no state change) if the entity is absent,
// reference-locked, or if removing a point would require removing a
// reference-locked dependent.
func (s *Sketch) RemoveEntity(id EntityID) bool {
	e := s.Entity(id)
	if e == nil {
		return false
	}
	if e.ReferenceLocked {
		return false
	}
	if e.Type == TypePoint {
		for depID := range e.connectedEntities {
			if dep := s.Entity(depID); dep != nil && dep.ReferenceLocked {
				return false
			}
		}
	}
	s.removeEntityCascade(id)
	s.markDirty()
	return true
}

// removeEntityCascade performs the actual removal; all locking
// preconditions must already have been checked by the caller.
func (s *Sketch) removeEntityCascade(id EntityID) {
	e := s.Entity(id)
	if e == nil {
		return
	}

	if e.Type == TypePoint {
		// Invariant 5: dependents are removed first.
		deps := e.ConnectedEntities()
		for _, depID := range deps {
			s.removeEntityCascade(depID)
		}
	} else {
		// Fix back-pointers on referenced points, then clean up orphans.
		for _, refID := range s.referencedPoints(e) {
			if p := s.Entity(refID); p != nil {
				p.removeConnection(id)
			}
		}
	}

	s.removeConstraintsReferencing(id)
	s.deleteEntityRecord(id)

	if e.Type != TypePoint {
		for _, refID := range s.referencedPoints(e) {
			if p := s.Entity(refID); p != nil && p.isOrphanPoint() {
				s.removeEntityCascade(refID)
			}
		}
	}
}

// referencedPoints returns the point IDs a non-point entity references.
func (s *Sketch) referencedPoints(e *Entity) []EntityID {
	switch e.Type {
	case TypeLine:
		return []EntityID{e.Start, e.End}
	case TypeArc, TypeCircle, TypeEllipse:
		return []EntityID{e.Center}
	default:
		return nil
	}
}

func (s *Sketch) removeConstraintsReferencing(id EntityID) {
	var toRemove []ConstraintID
	for _, c := range s.constraints {
		if c.referencesEntity(id) {
			toRemove = append(toRemove, c.ID)
		}
	}
	for _, cid := range toRemove {
		s.deleteConstraintRecord(cid)
	}
}

func (s *Sketch) deleteEntityRecord(id EntityID) {
	i, ok := s.entityIndex[id]
	if !ok {
		return
	}
	last := len(s.entities) - 1
	s.entities[i] = s.entities[last]
	s.entities = s.entities[:last]
	delete(s.entityIndex, id)
	if i < len(s.entities) {
		s.entityIndex[s.entities[i].ID] = i
	}
}

func (s *Sketch) deleteConstraintRecord(id ConstraintID) {
	i, ok := s.constraintIndex[id]
	if !ok {
		return
	}
	last := len(s.constraints) - 1
	s.constraints[i] = s.constraints[last]
	s.constraints = s.constraints[:last]
	delete(s.constraintIndex, id)
	if i < len(s.constraints) {
		s.constraintIndex[s.constraints[i].ID] = i
	}
}

// --- DOF ----------------------------------------------------------------

// GetDegreesOfFreedom returns max(0, sum(entity DOF) - sum(constraint
// DOF)), cached until the next mutation.
func (s *Sketch) GetDegreesOfFreedom() int {
	if s.dofDirty {
		s.recomputeDOF()
	}
	return s.dofCache
}

// IsOverConstrained reports whether the raw (uncapped) DOF sum is
// negative.
func (s *Sketch) IsOverConstrained() bool {
	raw := s.rawDOF()
	return raw < 0
}

func (s *Sketch) rawDOF() int {
	total := 0
	for _, e := range s.entities {
		total += e.DegreesOfFreedom()
	}
	for _, c := range s.constraints {
		total -= c.DOFRemoved()
	}
	return total
}

func (s *Sketch) recomputeDOF() {
	raw := s.rawDOF()
	if raw < 0 {
		raw = 0
	}
	s.dofCache = raw
	s.dofDirty = false
}

// --- find_nearest / find_in_rect ----------------------------------------

// EntityFilter restricts FindNearest/FindInRect to a subset of types; nil
// or empty allows every type.
type EntityFilter map[EntityType]bool

// FindNearest returns the single closest entity of an allowed type within
// tol, or "" if none qualifies.
func (s *Sketch) FindNearest(pos geom2d.Vec2, tol float64, filter EntityFilter) EntityID {
	best := EntityID("")
	bestDist := math.Inf(1)
	for _, e := range s.entities {
		if len(filter) > 0 && !filter[e.Type] {
			continue
		}
		d, ok := s.distanceTo(e, pos)
		if !ok || d > tol {
			continue
		}
		if d < bestDist {
			bestDist = d
			best = e.ID
		}
	}
	return best
}

func (s *Sketch) distanceTo(e *Entity, pos geom2d.Vec2) (float64, bool) {
	switch e.Type {
	case TypePoint:
		return pos.Distance(e.Pos), true
	case TypeLine:
		sp, ep := s.Entity(e.Start), s.Entity(e.End)
		if sp == nil || ep == nil {
			return 0, false
		}
		d, _ := geom2d.PointSegmentDistance(pos, sp.Pos, ep.Pos)
		return d, true
	case TypeCircle:
		cp := s.Entity(e.Center)
		if cp == nil {
			return 0, false
		}
		return geom2d.PointCircleDistance(pos, cp.Pos, e.Radius), true
	case TypeArc:
		cp := s.Entity(e.Center)
		if cp == nil {
			return 0, false
		}
		d := geom2d.PointArcDistance(pos, cp.Pos, e.Radius, e.StartAngle, e.EndAngle)
		if math.IsInf(d, 1) {
			return 0, false
		}
		return d, true
	case TypeEllipse:
		cp := s.Entity(e.Center)
		if cp == nil {
			return 0, false
		}
		return geom2d.PointEllipseDistance(pos, cp.Pos, e.MajorRadius, e.MinorRadius, e.Rotation), true
	default:
		return 0, false
	}
}

// Bounds returns the 2D bounding box of an entity.
func (s *Sketch) Bounds(e *Entity) geom2d.Box {
	switch e.Type {
	case TypePoint:
		return geom2d.Box{Min: e.Pos, Max: e.Pos}
	case TypeLine:
		sp, ep := s.Entity(e.Start), s.Entity(e.End)
		if sp == nil || ep == nil {
			return geom2d.EmptyBox()
		}
		return geom2d.BoundsOf([]geom2d.Vec2{sp.Pos, ep.Pos})
	case TypeCircle:
		cp := s.Entity(e.Center)
		if cp == nil {
			return geom2d.EmptyBox()
		}
		return geom2d.Box{
			Min: geom2d.Vec2{X: cp.Pos.X - e.Radius, Y: cp.Pos.Y - e.Radius},
			Max: geom2d.Vec2{X: cp.Pos.X + e.Radius, Y: cp.Pos.Y + e.Radius},
		}
	case TypeArc:
		cp := s.Entity(e.Center)
		if cp == nil {
			return geom2d.EmptyBox()
		}
		return geom2d.BoundsOf(geom2d.SampleArc(cp.Pos, e.Radius, e.StartAngle, e.EndAngle, 32))
	case TypeEllipse:
		cp := s.Entity(e.Center)
		if cp == nil {
			return geom2d.EmptyBox()
		}
		return geom2d.BoundsOf(geom2d.SampleEllipse(cp.Pos, e.MajorRadius, e.MinorRadius, e.Rotation, 48))
	default:
		return geom2d.EmptyBox()
	}
}

// FindInRect returns every entity whose bounding box intersects [min,max].
func (s *Sketch) FindInRect(min, max geom2d.Vec2) []EntityID {
	rect := geom2d.Box{Min: min, Max: max}
	var out []EntityID
	for _, e := range s.entities {
		if s.Bounds(e).Intersects(rect) {
			out = append(out, e.ID)
		}
	}
	return out
}

// --- translate ------------------------------------------------------------

// TranslateSketch moves every non-locked point and every Fixed
// constraint's captured coordinate by (dx,dy); marks the solver dirty.
func (s *Sketch) TranslateSketch(dx, dy float64) {
	for _, e := range s.entities {
		if e.Type == TypePoint && !e.ReferenceLocked {
			e.Pos.X += dx
			e.Pos.Y += dy
		}
	}
	for _, c := range s.constraints {
		if c.Type == FixedPoint {
			c.FixedX += dx
			c.FixedY += dy
		}
	}
	s.markDirty()
}

// TranslateSketchRegion translates only the points in pointIDs (typically
// the point set belonging to one face, as reported by the loop/face
// extractor) by (dx,dy).
func (s *Sketch) TranslateSketchRegion(pointIDs []EntityID, dx, dy float64) {
	set := make(map[EntityID]bool, len(pointIDs))
	for _, id := range pointIDs {
		set[id] = true
	}
	for _, e := range s.entities {
		if e.Type == TypePoint && !e.ReferenceLocked && set[e.ID] {
			e.Pos.X += dx
			e.Pos.Y += dy
		}
	}
	for _, c := range s.constraints {
		if c.Type == FixedPoint && len(c.Entities) > 0 && set[c.Entities[0]] {
			c.FixedX += dx
			c.FixedY += dy
		}
	}
	s.markDirty()
}

// TranslatePlane shifts the sketch plane's origin by a sketch-space
// delta (dx,dy), expressed in the plane's own X/Y axes. Unlike the
// source this is derived from, any plane change marks the sketch
// dirty: the solver's cached system captures point positions in world
// space via the plane, so moving the plane invalidates it exactly like
// moving a point would.
func (s *Sketch) TranslatePlane(dx, dy float64) {
	s.Plane.Origin.X += s.Plane.XAxis.X*dx + s.Plane.YAxis.X*dy
	s.Plane.Origin.Y += s.Plane.XAxis.Y*dx + s.Plane.YAxis.Y*dy
	s.Plane.Origin.Z += s.Plane.XAxis.Z*dx + s.Plane.YAxis.Z*dy
	s.markDirty()
}

// --- reference-locked administration (projection subsystem only) --------

// SetReferenceLocked sets or clears an entity's reference-locked flag.
// It is exported and does not check who calls it; no sketch mutation in
// this package calls it, so the flag changes only through this method.
func (s *Sketch) SetReferenceLocked(id EntityID, locked bool) {
	if e := s.Entity(id); e != nil {
		e.ReferenceLocked = locked
	}
}
