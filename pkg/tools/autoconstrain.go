package tools

import (
	"math"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

// InferConstraints proposes constraints for a newly committed entity
// against itself and the sketch's other entities, scoring each by how close the
// observed geometry is to the constraint's ideal Callers
// auto-apply any candidate at or above cfg.AutoApplyThreshold; the rest
// are returned for a UI to offer as suggestions.
func InferConstraints(sk *sketch.Sketch, id sketch.EntityID, cfg *Config) []InferredConstraint {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	e := sk.Entity(id)
	if e == nil {
		return nil
	}

	var out []InferredConstraint
	switch e.Type {
	case sketch.TypeLine:
		out = append(out, inferLineOrientation(sk, e, cfg)...)
		out = append(out, inferLineRelations(sk, e, cfg)...)
	}
	out = append(out, inferCoincidence(sk, e, cfg)...)
	out = append(out, inferTangency(sk, e, cfg)...)
	return out
}

func angleConfidence(deltaDeg, toleranceDeg float64) (float64, bool) {
	if toleranceDeg <= 0 {
		return 0, false
	}
	d := math.Abs(deltaDeg)
	if d > toleranceDeg {
		return 0, false
	}
	return 1 - d/toleranceDeg, true
}

func lineAngleDeg(sk *sketch.Sketch, e *sketch.Entity) (float64, bool) {
	a, b, ok := entityEndpoints(sk, e)
	if !ok {
		return 0, false
	}
	d := b.Sub(a)
	if d.LengthSq() < 1e-18 {
		return 0, false
	}
	deg := math.Atan2(d.Y, d.X) * 180 / math.Pi
	return deg, true
}

func angleDistToAxis(deg, axisDeg float64) float64 {
	d := math.Mod(math.Abs(deg-axisDeg), 180)
	if d > 90 {
		d = 180 - d
	}
	return d
}

// inferLineOrientation proposes Horizontal or Vertical.
func inferLineOrientation(sk *sketch.Sketch, e *sketch.Entity, cfg *Config) []InferredConstraint {
	deg, ok := lineAngleDeg(sk, e)
	if !ok {
		return nil
	}
	var out []InferredConstraint
	if cfg.isTypeEnabled("Horizontal") {
		if conf, within := angleConfidence(angleDistToAxis(deg, 0), cfg.HorizontalToleranceDeg); within {
			out = append(out, InferredConstraint{Type: sketch.Horizontal, Entities: []sketch.EntityID{e.ID}, Confidence: conf})
		}
	}
	if cfg.isTypeEnabled("Vertical") {
		if conf, within := angleConfidence(angleDistToAxis(deg, 90), cfg.VerticalToleranceDeg); within {
			out = append(out, InferredConstraint{Type: sketch.Vertical, Entities: []sketch.EntityID{e.ID}, Confidence: conf})
		}
	}
	return out
}

// inferLineRelations proposes Parallel/Perpendicular against every other
// non-construction line in the sketch, whatever its distance from e.
func inferLineRelations(sk *sketch.Sketch, e *sketch.Entity, cfg *Config) []InferredConstraint {
	deg, ok := lineAngleDeg(sk, e)
	if !ok {
		return nil
	}
	var out []InferredConstraint
	for _, other := range sk.Entities() {
		if other.ID == e.ID || other.Type != sketch.TypeLine || other.Construction {
			continue
		}
		odeg, ok := lineAngleDeg(sk, other)
		if !ok {
			continue
		}
		if cfg.isTypeEnabled("Parallel") {
			if conf, within := angleConfidence(angleDistToAxis(deg, odeg), cfg.ParallelToleranceDeg); within {
				out = append(out, InferredConstraint{Type: sketch.Parallel, Entities: []sketch.EntityID{e.ID, other.ID}, Confidence: conf})
			}
		}
		if cfg.isTypeEnabled("Perpendicular") {
			perpDeg := math.Mod(odeg+90, 180)
			if conf, within := angleConfidence(angleDistToAxis(deg, perpDeg), cfg.PerpendicularToleranceDeg); within {
				out = append(out, InferredConstraint{Type: sketch.Perpendicular, Entities: []sketch.EntityID{e.ID, other.ID}, Confidence: conf})
			}
		}
	}
	return out
}

// inferCoincidence proposes Coincident between any endpoint of e and any
// other point within cfg.CoincidenceTolerance.
func inferCoincidence(sk *sketch.Sketch, e *sketch.Entity, cfg *Config) []InferredConstraint {
	if !cfg.isTypeEnabled("Coincident") {
		return nil
	}
	var endpoints []sketch.EntityID
	switch e.Type {
	case sketch.TypeLine:
		endpoints = []sketch.EntityID{e.Start, e.End}
	case sketch.TypeArc:
		// Arc endpoints are virtual (derived from center+angles), not
		// stored points, so there is nothing to coincide here directly.
	}
	if len(endpoints) == 0 {
		return nil
	}
	var out []InferredConstraint
	for _, pid := range endpoints {
		p := sk.Entity(pid)
		if p == nil {
			continue
		}
		for _, other := range sk.Entities() {
			if other.ID == pid || other.Type != sketch.TypePoint {
				continue
			}
			dist := p.Pos.Distance(other.Pos)
			if dist > cfg.CoincidenceTolerance {
				continue
			}
			conf := 1 - dist/cfg.CoincidenceTolerance
			out = append(out, InferredConstraint{Type: sketch.Coincident, Entities: []sketch.EntityID{pid, other.ID}, Confidence: conf})
		}
	}
	return out
}

// inferTangency proposes Tangent between e (if a Line or Arc) and any
// nearby Circle/Arc whose distance-to-line or distance-between-centers
// is within cfg.TangentToleranceMM of the exact tangency condition.
func inferTangency(sk *sketch.Sketch, e *sketch.Entity, cfg *Config) []InferredConstraint {
	if !cfg.isTypeEnabled("Tangent") {
		return nil
	}
	if e.Type != sketch.TypeLine && e.Type != sketch.TypeArc {
		return nil
	}
	var out []InferredConstraint
	for _, other := range sk.Entities() {
		if other.ID == e.ID || other.Construction {
			continue
		}
		if other.Type != sketch.TypeCircle && other.Type != sketch.TypeArc {
			continue
		}
		cp := sk.Entity(other.Center)
		if cp == nil {
			continue
		}
		var dist float64
		switch e.Type {
		case sketch.TypeLine:
			a, b, ok := entityEndpoints(sk, e)
			if !ok {
				continue
			}
			dist, _ = geom2d.PointSegmentDistance(cp.Pos, a, b)
		case sketch.TypeArc:
			ecp := sk.Entity(e.Center)
			if ecp == nil {
				continue
			}
			dist = math.Abs(ecp.Pos.Distance(cp.Pos) - (e.Radius + other.Radius))
			alt := math.Abs(ecp.Pos.Distance(cp.Pos) - math.Abs(e.Radius-other.Radius))
			if alt < dist {
				dist = alt
			}
		}
		gap := math.Abs(dist - other.Radius)
		if e.Type == sketch.TypeArc {
			gap = dist
		}
		if gap > cfg.TangentToleranceMM {
			continue
		}
		conf := 1 - gap/cfg.TangentToleranceMM
		out = append(out, InferredConstraint{Type: sketch.Tangent, Entities: []sketch.EntityID{e.ID, other.ID}, Confidence: conf})
	}
	return out
}
