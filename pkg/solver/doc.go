// Package solver builds a numerical system from a sketch's entities and
// constraints and drives it to a consistent configuration with
// Levenberg-Marquardt iteration. It also implements interactive point
// drag: a fixed-point set plus a soft pull toward a target, with
// rollback when the dragged point cannot reach it.
//
// The solve is a cached, config-driven iteration over a flat,
// deterministically ordered parameter set, with an explicit
// stability/convergence check per iteration.
package solver
