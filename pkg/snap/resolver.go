package snap

import (
	"math"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

// Context carries the optional reference state a caller supplies so the
// resolver can produce guide-bearing snaps: the anchor point a new
// segment extends from (for Horizontal/Vertical/SketchGuide) and the
// entity a new curve should stay tangent or perpendicular to.
type Context struct {
	AnchorPoint geom2d.Vec2
	HasAnchor bool
	ReferenceLine sketch.EntityID
	HasReference bool
	Exclude map[sketch.EntityID]bool
}

// Resolver finds the highest-priority snap candidate near a cursor
// position, using a cached, lazily-rebuilt spatial hash to avoid
// rescanning the whole sketch on every query.
type Resolver struct {
	cfg *Config
	hash *spatialHash
	external ExternalGeometry

	ambiguity []Result
	ambiguityIndex int
}

// NewResolver builds a resolver. A nil cfg uses DefaultConfig.
func NewResolver(cfg *Config) *Resolver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Resolver{cfg: cfg, hash: newSpatialHash(cfg.SpatialHashCellMM)}
}

// SetExternalGeometry installs projected external geometry for
// ActiveLayer3D snaps.
func (r *Resolver) SetExternalGeometry(g ExternalGeometry) {
	r.external = g
}

func (r *Resolver) candidateFilter(sk *sketch.Sketch, cursor geom2d.Vec2, radius float64) map[sketch.EntityID]bool {
	if !r.cfg.SpatialHashEnabled {
		return nil
	}
	return r.hash.candidatesNear(sk, cursor, radius)
}

// FindAllSnaps returns every in-radius candidate across all enabled
// types, sorted by priority then distance.
func (r *Resolver) FindAllSnaps(sk *sketch.Sketch, cursor geom2d.Vec2, ctx Context) []Result {
	if !r.cfg.Enabled {
		return nil
	}
	radius := r.cfg.SnapRadiusMM
	exclude := ctx.Exclude
	if exclude == nil {
		exclude = map[sketch.EntityID]bool{}
	}
	filter := r.candidateFilter(sk, cursor, radius)

	var out []Result
	type finder struct {
		t Type
		f func()
	}
	finders := []finder{
		{TypeVertex, func() { r.findVertexSnaps(sk, cursor, exclude, filter, radius, &out) }},
		{TypeEndpoint, func() { r.findEndpointSnaps(sk, cursor, exclude, filter, radius, &out) }},
		{TypeMidpoint, func() { r.findMidpointSnaps(sk, cursor, exclude, filter, radius, &out) }},
		{TypeCenter, func() { r.findCenterSnaps(sk, cursor, exclude, filter, radius, &out) }},
		{TypeQuadrant, func() { r.findQuadrantSnaps(sk, cursor, exclude, filter, radius, &out) }},
		{TypeIntersection, func() { r.findIntersectionSnaps(sk, cursor, exclude, filter, radius, &out) }},
		{TypeOnCurve, func() { r.findOnCurveSnaps(sk, cursor, exclude, filter, radius, &out) }},
	}
	for _, fn := range finders {
		if r.cfg.isTypeEnabled(fn.t) {
			fn.f()
		}
	}
	if r.cfg.GridSnapEnabled && r.cfg.isTypeEnabled(TypeGrid) {
		r.findGridSnap(cursor, r.cfg.GridSizeMM, radius, &out)
	}
	r.findGuideSnaps(sk, cursor, ctx, radius, &out)
	if r.cfg.isTypeEnabled(TypeActiveLayer3D) {
		r.findExternalSnaps(cursor, radius, &out)
	}

	sortDeterministic(out)
	return out
}

// FindBestSnap returns the single highest-priority candidate, or a
// zero-value (Snapped=false) Result if nothing is in range. Ranking is by
// type ordinal then distance only, so a guide candidate wins only when no
// lower-ordinal candidate is in range; ResolvePreview applies the
// guide-first override on top of this ranking.
func (r *Resolver) FindBestSnap(sk *sketch.Sketch, cursor geom2d.Vec2, ctx Context) Result {
	all := r.FindAllSnaps(sk, cursor, ctx)
	best := r.resolveAmbiguity(all)
	if best.Snapped {
		return best
	}
	return Result{}
}

// resolveAmbiguity picks the first candidate and records every
// same-type candidate within AmbiguityDistanceTolerance of it as the
// cyclable ambiguity set.
func (r *Resolver) resolveAmbiguity(all []Result) Result {
	if len(all) == 0 {
		r.ambiguity = nil
		r.ambiguityIndex = 0
		return Result{}
	}
	best := all[0]
	cluster := []Result{best}
	for _, cand := range all[1:] {
		if cand.Type == best.Type && math.Abs(cand.Distance-best.Distance) <= r.cfg.AmbiguityDistanceTolerance {
			cluster = append(cluster, cand)
		}
	}
	r.ambiguity = cluster
	r.ambiguityIndex = 0
	return cluster[0]
}

// HasAmbiguity reports whether the last resolution produced more than
// one tied candidate.
func (r *Resolver) HasAmbiguity() bool { return len(r.ambiguity) > 1 }

// AmbiguityCandidateCount returns the size of the current ambiguity set.
func (r *Resolver) AmbiguityCandidateCount() int { return len(r.ambiguity) }

// CycleAmbiguity advances to the next tied candidate (wrapping) and
// returns it. Returns a zero Result if there is no ambiguity set.
func (r *Resolver) CycleAmbiguity() Result {
	if len(r.ambiguity) == 0 {
		return Result{}
	}
	r.ambiguityIndex = (r.ambiguityIndex + 1) % len(r.ambiguity)
	return r.ambiguity[r.ambiguityIndex]
}

// ClearAmbiguity discards the current ambiguity set, e.g. after a click
// commits a snap.
func (r *Resolver) ClearAmbiguity() {
	r.ambiguity = nil
	r.ambiguityIndex = 0
}

// findGuideSnaps produces Horizontal/Vertical alignment guides relative
// to ctx.AnchorPoint, and Perpendicular/Tangent guides relative to
// ctx.ReferenceLine, plus 15-degree SketchGuide extension lines from
// existing line segments (see findSketchGuideSnaps). Guide candidates render a dashed origin
// line (HasGuide/GuideOrigin) so preview and commit agree on the exact
// position chosen (preview/commit parity).
func (r *Resolver) findGuideSnaps(sk *sketch.Sketch, cursor geom2d.Vec2, ctx Context, radius float64, out *[]Result) {
	if ctx.HasAnchor {
		if r.cfg.isTypeEnabled(TypeHorizontal) {
			pos := geom2d.Vec2{X: cursor.X, Y: ctx.AnchorPoint.Y}
			if d := cursor.Distance(pos); d <= radius {
				*out = append(*out, Result{Snapped: true, Type: TypeHorizontal, Position: pos, Distance: d, GuideOrigin: ctx.AnchorPoint, HasGuide: true, HintText: TypeHorizontal.HintText()})
			}
		}
		if r.cfg.isTypeEnabled(TypeVertical) {
			pos := geom2d.Vec2{X: ctx.AnchorPoint.X, Y: cursor.Y}
			if d := cursor.Distance(pos); d <= radius {
				*out = append(*out, Result{Snapped: true, Type: TypeVertical, Position: pos, Distance: d, GuideOrigin: ctx.AnchorPoint, HasGuide: true, HintText: TypeVertical.HintText()})
			}
		}
	}

	if ctx.HasReference && r.cfg.isTypeEnabled(TypePerpendicular) {
		if ref := sk.Entity(ctx.ReferenceLine); ref != nil && ref.Type == sketch.TypeLine && ctx.HasAnchor {
			sp, ep := sk.Entity(ref.Start), sk.Entity(ref.End)
			if sp != nil && ep != nil {
				dir := ep.Pos.Sub(sp.Pos).Normalized().Perp()
				t := cursor.Sub(ctx.AnchorPoint).Dot(dir)
				pos := ctx.AnchorPoint.Add(dir.Scale(t))
				if d := cursor.Distance(pos); d <= radius {
					*out = append(*out, Result{Snapped: true, Type: TypePerpendicular, Position: pos, EntityID: ref.ID, Distance: d, GuideOrigin: ctx.AnchorPoint, HasGuide: true, HintText: TypePerpendicular.HintText()})
				}
			}
		}
	}

	if ctx.HasReference && r.cfg.isTypeEnabled(TypeTangent) {
		if ref := sk.Entity(ctx.ReferenceLine); ref != nil && (ref.Type == sketch.TypeCircle || ref.Type == sketch.TypeArc) && ctx.HasAnchor {
			center, radius2, ok := circleData(sk, ref)
			if ok {
				pos := tangentPointFromExternal(center, radius2, cursor)
				if d := cursor.Distance(pos); d <= radius {
					*out = append(*out, Result{Snapped: true, Type: TypeTangent, Position: pos, EntityID: ref.ID, Distance: d, GuideOrigin: ctx.AnchorPoint, HasGuide: true, HintText: TypeTangent.HintText()})
				}
			}
		}
	}

	if r.cfg.isTypeEnabled(TypeSketchGuide) {
		r.findSketchGuideSnaps(sk, cursor, ctx.Exclude, radius, out)
	}
}

// tangentPointFromExternal picks the closer of the two tangent points
// from an external point to a circle.
func tangentPointFromExternal(center geom2d.Vec2, radius float64, from geom2d.Vec2) geom2d.Vec2 {
	toCenter := center.Sub(from)
	d := toCenter.Length()
	if d <= radius {
		return center.Add(toCenter.NormalizedScale(radius))
	}
	theta := math.Acos(radius / d)
	base := toCenter.Angle()
	p1 := center.Add(geom2d.Vec2{X: math.Cos(base + math.Pi - theta), Y: math.Sin(base + math.Pi - theta)}.Scale(radius))
	p2 := center.Add(geom2d.Vec2{X: math.Cos(base + math.Pi + theta), Y: math.Sin(base + math.Pi + theta)}.Scale(radius))
	if from.Distance(p1) < from.Distance(p2) {
		return p1
	}
	return p2
}

// findSketchGuideSnaps extends each line segment whose direction lies
// within AngularToleranceDeg of a multiple of 15 degrees, forward from its
// end point along that 15-degree direction, offering a snap where the
// cursor lies near that extension. Other segments get no guide.
func (r *Resolver) findSketchGuideSnaps(sk *sketch.Sketch, cursor geom2d.Vec2, exclude map[sketch.EntityID]bool, radius float64, out *[]Result) {
	const step = 15 * math.Pi / 180
	for _, e := range sk.Entities() {
		if e.Type != sketch.TypeLine || exclude[e.ID] {
			continue
		}
		sp, ep := sk.Entity(e.Start), sk.Entity(e.End)
		if sp == nil || ep == nil {
			continue
		}
		dir := ep.Pos.Sub(sp.Pos)
		if dir.Length() < 1e-9 {
			continue
		}
		angle := dir.Angle()
		nearestStep := math.Round(angle/step) * step
		if math.Abs(normalizeDeltaAngle(angle-nearestStep)) > r.cfg.AngularToleranceDeg*math.Pi/180 {
			continue
		}
		extDir := geom2d.Vec2{X: math.Cos(nearestStep), Y: math.Sin(nearestStep)}
		t := cursor.Sub(ep.Pos).Dot(extDir)
		if t <= 0 {
			continue
		}
		pos := ep.Pos.Add(extDir.Scale(t))
		if d := cursor.Distance(pos); d <= radius {
			*out = append(*out, Result{Snapped: true, Type: TypeSketchGuide, Position: pos, EntityID: e.ID, Distance: d, GuideOrigin: ep.Pos, HasGuide: true, HintText: TypeSketchGuide.HintText()})
		}
	}
}

func normalizeDeltaAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// findExternalSnaps matches the cursor against projected 3D geometry on
// the active layer (ActiveLayer3D).
func (r *Resolver) findExternalSnaps(cursor geom2d.Vec2, radius float64, out *[]Result) {
	for _, p := range r.external.Points {
		if d := cursor.Distance(p); d <= radius {
			*out = append(*out, Result{Snapped: true, Type: TypeActiveLayer3D, Position: p, Distance: d, HintText: TypeActiveLayer3D.HintText()})
		}
	}
	for _, seg := range r.external.Lines {
		pos := geom2d.ClosestPointOnSegment(cursor, seg[0], seg[1])
		if d := cursor.Distance(pos); d <= radius {
			*out = append(*out, Result{Snapped: true, Type: TypeActiveLayer3D, Position: pos, Distance: d, HintText: TypeActiveLayer3D.HintText()})
		}
	}
}
