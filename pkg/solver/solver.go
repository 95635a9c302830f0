package solver

import (
	"fmt"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/loop"
	"github.com/onecad/sketchcore/pkg/sketch"
	"github.com/onecad/sketchcore/pkg/sketcherr"
	"github.com/onecad/sketchcore/pkg/sklog"
)

// SolveResult reports the outcome of a solve.
type SolveResult struct {
	Success bool
	Iterations int
	Residual float64
	ConflictingConstraints []sketch.ConstraintID
	Err error
}

// Solver drives a sketch's constraint system with Levenberg-Marquardt
// iteration. It holds a cached numerical system that is rebuilt only
// when the sketch reports itself dirty ("laziness &
// rebuild").
type Solver struct {
	sk *sketch.Sketch
	cfg *Config

	cachedSys *system
	lastSnapshot []float64
	lastSnapshotOf *system

	dragging bool
	draggedPoint sketch.EntityID
	dragBeginState []entitySnapshot
	dragFixedPoints []sketch.EntityID
	dragTickFailed bool
}

// New returns a solver over sk. A nil cfg uses DefaultConfig.
func New(sk *sketch.Sketch, cfg *Config) *Solver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Solver{sk: sk, cfg: cfg}
}

func (s *Solver) systemFor(fixed map[sketch.EntityID]bool) *system {
	if fixed == nil {
		if s.cachedSys == nil || s.sk.SolverDirty() {
			sklog.For("solver").Debug("rebuilding cached system")
			s.cachedSys = buildSystem(s.sk, nil)
		}
		return s.cachedSys
	}
	return buildSystem(s.sk, fixed)
}

// Solve runs a static solve with no drag pull. Trivially succeeds when
// the sketch has no constraints.
func (s *Solver) Solve() SolveResult {
	constraints := s.sk.Constraints()
	if len(constraints) == 0 {
		s.sk.ClearSolverDirty()
		return SolveResult{Success: true}
	}

	sys := s.systemFor(nil)
	s.lastSnapshot = sys.snapshot()
	s.lastSnapshotOf = sys

	result := runLM(sys, constraints, s.cfg, nil)
	s.sk.ClearSolverDirty()

	out := SolveResult{
		Success: result.converged,
		Iterations: result.iterations,
		Residual: result.residualNorm,
		ConflictingConstraints: result.conflictingConstraints,
	}
	if !result.converged {
		if result.rankDeficient {
			out.Err = sketcherr.ErrRankDeficient
		} else {
			out.Err = sketcherr.ErrNonConvergence
		}
	}
	return out
}

// RevertSolution restores the parameter values captured at the start of
// the most recent Solve or SolveWithDrag call.
func (s *Solver) RevertSolution() error {
	if s.lastSnapshotOf == nil {
		return fmt.Errorf("sketchcore: no solve to revert")
	}
	s.lastSnapshotOf.restore(s.lastSnapshot)
	return nil
}

// SolveWithDrag pins every point in fixedPointIDs (except draggedPoint)
// at its current position, adds a soft pull of draggedPoint toward
// target, and solves. If the dragged point's final position differs
// from target by more than cfg.DragRejectionTolerance(), the sketch is rolled
// back to its pre-solve state and the solve is reported as failed.
func (s *Solver) SolveWithDrag(draggedPoint sketch.EntityID, target geom2d.Vec2, fixedPointIDs []sketch.EntityID) SolveResult {
	fixedSet := make(map[sketch.EntityID]bool, len(fixedPointIDs))
	for _, id := range fixedPointIDs {
		fixedSet[id] = true
	}
	delete(fixedSet, draggedPoint)

	pre := captureSketch(s.sk)
	sys := buildSystem(s.sk, fixedSet)
	pull := &dragPull{pointID: draggedPoint, target: [2]float64{target.X, target.Y}, weight: s.cfg.DragWeight}

	result := runLM(sys, s.sk.Constraints(), s.cfg, pull)
	s.sk.ClearSolverDirty()

	final := s.sk.PointPosition(draggedPoint)
	if final.Distance(target) > s.cfg.DragRejectionTolerance() {
		restoreSketch(s.sk, pre)
		if s.dragging {
			s.dragTickFailed = true
		}
		return SolveResult{
			Success: false,
			Err: fmt.Errorf("%w: Dragged point cannot reach target", sketcherr.ErrNonConvergence),
		}
	}

	return SolveResult{
		Success: result.converged,
		Iterations: result.iterations,
		Residual: result.residualNorm,
		ConflictingConstraints: result.conflictingConstraints,
	}
}

// BeginPointDrag snapshots every point position before an interactive
// drag session begins. It also computes the fixed-point set for the
// session: the opposite vertex when draggedPoint is a corner of some
// face's four-sided outer loop (rectangle-preserving drag), or every
// other point in the sketch otherwise.
func (s *Solver) BeginPointDrag(draggedPoint sketch.EntityID) {
	s.dragging = true
	s.draggedPoint = draggedPoint
	s.dragBeginState = captureSketch(s.sk)
	s.dragFixedPoints = computeDragFixedPoints(s.sk, draggedPoint)
	s.dragTickFailed = false
}

// DragFixedPointIDs returns the fixed-point set computed by
// BeginPointDrag for the active drag session, for callers that drive
// SolveWithDrag themselves on each pointer-move tick.
func (s *Solver) DragFixedPointIDs() []sketch.EntityID {
	return s.dragFixedPoints
}

// DragTick runs one drag-solve iteration toward target using the active
// session's dragged point and fixed-point set, as computed by
// BeginPointDrag.
func (s *Solver) DragTick(target geom2d.Vec2) SolveResult {
	return s.SolveWithDrag(s.draggedPoint, target, s.dragFixedPoints)
}

// EndPointDrag ends the drag session. If any tick during the session
// failed (the dragged point could not reach its target on that tick),
// the entire session is rolled back to the state captured by
// BeginPointDrag.
func (s *Solver) EndPointDrag() {
	if s.dragTickFailed {
		restoreSketch(s.sk, s.dragBeginState)
	}
	s.dragging = false
	s.draggedPoint = ""
	s.dragBeginState = nil
	s.dragFixedPoints = nil
	s.dragTickFailed = false
}

// computeDragFixedPoints implements spec §4.C's rectangle-preserving
// drag rule: when draggedPoint is a corner of a four-sided outer loop,
// only the diagonally opposite corner is held fixed so the rectangle's
// other two corners can move freely and preserve its right angles;
// otherwise every other point in the sketch is held fixed (the default).
func computeDragFixedPoints(sk *sketch.Sketch, draggedPoint sketch.EntityID) []sketch.EntityID {
	detection := loop.NewDetector(nil).Detect(sk, nil)
	if opposite, ok := loop.OppositeVertex(sk, detection.Faces, draggedPoint); ok {
		return []sketch.EntityID{opposite}
	}
	var out []sketch.EntityID
	for _, e := range sk.Entities() {
		if e.Type == sketch.TypePoint && e.ID != draggedPoint {
			out = append(out, e.ID)
		}
	}
	return out
}

// entitySnapshot captures every mutable numeric field of one entity, for
// whole-sketch rollback during drag.
type entitySnapshot struct {
	id sketch.EntityID
	pos geom2d.Vec2
	radius float64
	startAngle float64
	endAngle float64
	major float64
	minor float64
	rotation float64
}

func captureSketch(sk *sketch.Sketch) []entitySnapshot {
	entities := sk.Entities()
	out := make([]entitySnapshot, len(entities))
	for i, e := range entities {
		out[i] = entitySnapshot{
			id: e.ID,
			pos: e.Pos,
			radius: e.Radius,
			startAngle: e.StartAngle,
			endAngle: e.EndAngle,
			major: e.MajorRadius,
			minor: e.MinorRadius,
			rotation: e.Rotation,
		}
	}
	return out
}

func restoreSketch(sk *sketch.Sketch, snaps []entitySnapshot) {
	for _, snap := range snaps {
		e := sk.Entity(snap.id)
		if e == nil {
			continue
		}
		e.Pos = snap.pos
		e.Radius = snap.radius
		e.StartAngle = snap.startAngle
		e.EndAngle = snap.endAngle
		e.MajorRadius = snap.major
		e.MinorRadius = snap.minor
		e.Rotation = snap.rotation
	}
}
