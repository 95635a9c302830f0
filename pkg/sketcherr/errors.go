// Package sketcherr defines the sentinel error values shared across the
// sketch kernel packages. Callers match them with errors.Is rather than
// string comparison; mutation APIs that would otherwise return a bare
// sentinel (empty ID, false, nil) wrap one of these for anything that
// crosses a package boundary and needs a reason attached.
package sketcherr

import "errors"

var (
	// ErrNotFound indicates a referenced entity or constraint ID does not
	// exist in the store.
	ErrNotFound = errors.New("sketchcore: referenced id not found")

	// ErrReferenceLocked indicates an operation targeted an entity flagged
	// reference-locked (a projected host-face boundary).
	ErrReferenceLocked = errors.New("sketchcore: entity is reference-locked")

	// ErrDegenerate indicates an operation would produce degenerate
	// geometry (zero-length line, zero-radius curve, colinear arc points).
	ErrDegenerate = errors.New("sketchcore: degenerate geometry")

	// ErrTooCloseToEndpoint indicates a split parameter landed within
	// tolerance of an existing endpoint.
	ErrTooCloseToEndpoint = errors.New("sketchcore: split parameter too close to an endpoint")

	// ErrParse indicates malformed JSON input during deserialization.
	ErrParse = errors.New("sketchcore: parse error")

	// ErrNonConvergence indicates the solver exhausted its iteration cap
	// without reaching the residual tolerance.
	ErrNonConvergence = errors.New("sketchcore: solver did not converge")

	// ErrRankDeficient indicates the solver detected conflicting or
	// redundant constraints.
	ErrRankDeficient = errors.New("sketchcore: constraint system is rank-deficient")

	// ErrCycle indicates a cycle was found where a DAG was required.
	ErrCycle = errors.New("sketchcore: cycle detected")
)
