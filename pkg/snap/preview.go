package snap

import (
	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

// ResolvePreview implements the preview path's guide-first override
// ("Preview/commit parity"): starting from the commit-path
// winner, if that winner is not a Vertex or Endpoint, the override
// prefers an intersection of two guide-bearing candidates, or failing
// that the nearest single guide-bearing candidate, over the plain best
// snap. When no guide-bearing candidate is in range, the result is
// identical to FindBestSnap on the same inputs.
func (r *Resolver) ResolvePreview(sk *sketch.Sketch, cursor geom2d.Vec2, ctx Context) Result {
	all := r.FindAllSnaps(sk, cursor, ctx)
	best := r.resolveAmbiguity(all)
	if !best.Snapped {
		return Result{}
	}
	if best.Type == TypeVertex || best.Type == TypeEndpoint {
		return best
	}

	var guides []Result
	for _, c := range all {
		if c.Type.isGuideBearing() {
			guides = append(guides, c)
		}
	}
	if len(guides) == 0 {
		return best
	}

	if inter, ok := guideIntersection(guides); ok {
		return inter
	}

	nearest := guides[0]
	for _, g := range guides[1:] {
		if g.Distance < nearest.Distance {
			nearest = g
		}
	}
	return nearest
}

// guideIntersection looks for two distinct guide-bearing candidates
// close enough to treat as crossing at a shared point and, if found,
// synthesizes a result at their midpoint (the two guide lines coincide
// there to within tolerance since both were computed against the same
// cursor).
func guideIntersection(guides []Result) (Result, bool) {
	const tol = 1e-3
	for i := 0; i < len(guides); i++ {
		for j := i + 1; j < len(guides); j++ {
			a, b := guides[i], guides[j]
			if a.Type == b.Type {
				continue
			}
			if a.Position.Distance(b.Position) > tol {
				continue
			}
			mid := a.Position.Lerp(b.Position, 0.5)
			winner := a
			if b.Less(a) {
				winner = b
			}
			winner.Position = mid
			return winner, true
		}
	}
	return Result{}, false
}
