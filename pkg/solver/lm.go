package solver

import (
	"math"

	"github.com/onecad/sketchcore/pkg/sketch"
)

// lmResult is the outcome of one Levenberg-Marquardt run against a
// system, before any drag-specific post-processing.
type lmResult struct {
	converged            bool
	iterations           int
	residualNorm         float64
	rankDeficient        bool
	conflictingConstraints []sketch.ConstraintID
}

// dragPull is an additional soft residual pulling one point toward a
// target position; used by solve_with_drag.
type dragPull struct {
	pointID sketch.EntityID
	target  [2]float64
	weight  float64
}

// runLM assembles the residual vector and Jacobian from cs at the
// system's current (live) parameter values on every iteration, and
// performs damped Gauss-Newton steps until convergence, a singular
// normal system (rank deficiency), or the iteration cap.
func runLM(sys *system, cs []*sketch.Constraint, cfg *Config, pull *dragPull) lmResult {
	n := len(sys.params)
	if n == 0 {
		return lmResult{converged: true}
	}

	lambda := cfg.InitialLambda
	residual, jac := assemble(sys, cs, cfg, pull)
	norm := vectorNorm(residual)

	result := lmResult{}
	for iter := 0; iter < cfg.MaxIterations; iter++ {
		result.iterations = iter + 1
		if norm < cfg.ResidualTolerance {
			result.converged = true
			break
		}

		jtj := gramMatrix(jac, n)
		jtr := gramVector(jac, residual, n)
		for i := 0; i < n; i++ {
			jtj[i][i] += lambda * jtj[i][i]
		}

		delta, ok := solveLinearSystem(jtj, negate(jtr))
		if !ok {
			result.rankDeficient = true
			result.conflictingConstraints = conflictingConstraints(cs, jac, sys)
			break
		}

		snapshot := sys.snapshot()
		applyDelta(sys, delta)

		newResidual, newJac := assemble(sys, cs, cfg, pull)
		newNorm := vectorNorm(newResidual)

		if newNorm < norm {
			residual, jac, norm = newResidual, newJac, newNorm
			lambda *= cfg.LambdaDownFactor
		} else {
			sys.restore(snapshot)
			lambda *= cfg.LambdaUpFactor
		}
	}

	result.residualNorm = norm
	if norm < cfg.ResidualTolerance {
		result.converged = true
	}
	return result
}

// assemble builds the full residual vector and Jacobian for the current
// (live) parameter state.
func assemble(sys *system, cs []*sketch.Constraint, cfg *Config, pull *dragPull) ([]float64, [][]float64) {
	var residual []float64
	var jac [][]float64

	for _, c := range cs {
		rows := evalResidual(sys.sk, c)
		block := jacobianBlock(sys, c, cfg, len(rows))
		residual = append(residual, rows...)
		jac = append(jac, block...)
	}

	if pull != nil {
		if colX, okX := sys.col(pull.pointID, "x"); okX {
			if colY, okY := sys.col(pull.pointID, "y"); okY {
				p := sys.sk.PointPosition(pull.pointID)
				residual = append(residual, pull.weight*(p.X-pull.target[0]), pull.weight*(p.Y-pull.target[1]))
				rowX := make([]float64, len(sys.params))
				rowX[colX] = pull.weight
				rowY := make([]float64, len(sys.params))
				rowY[colY] = pull.weight
				jac = append(jac, rowX, rowY)
			}
		}
	}

	return residual, jac
}

// jacobianBlock returns rowCount rows (len(sys.params) wide each) for
// constraint c, using the analytical closed form when available and
// falling back to a central-difference estimate over c's touched
// columns otherwise.
func jacobianBlock(sys *system, c *sketch.Constraint, cfg *Config, rowCount int) [][]float64 {
	block := make([][]float64, rowCount)
	for i := range block {
		block[i] = make([]float64, len(sys.params))
	}

	if entries, ok := analyticalRow(sys, c); ok {
		for col, values := range entries {
			for row, v := range values {
				if row < rowCount {
					block[row][col] = v
				}
			}
		}
		return block
	}

	h := cfg.FiniteDifferenceStep
	for _, col := range sys.touchedColumns(c) {
		ptr := sys.params[col].ptr
		orig := *ptr

		*ptr = orig + h
		plus := evalResidual(sys.sk, c)

		*ptr = orig - h
		minus := evalResidual(sys.sk, c)

		*ptr = orig

		for row := 0; row < rowCount && row < len(plus) && row < len(minus); row++ {
			block[row][col] = (plus[row] - minus[row]) / (2 * h)
		}
	}
	return block
}

func vectorNorm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func negate(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = -x
	}
	return out
}

// gramMatrix returns J^T J for an m x n Jacobian.
func gramMatrix(jac [][]float64, n int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
	}
	for _, row := range jac {
		for i := 0; i < n; i++ {
			if row[i] == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				out[i][j] += row[i] * row[j]
			}
		}
	}
	return out
}

// gramVector returns J^T r.
func gramVector(jac [][]float64, residual []float64, n int) []float64 {
	out := make([]float64, n)
	for k, row := range jac {
		r := residual[k]
		if r == 0 {
			continue
		}
		for i := 0; i < n; i++ {
			out[i] += row[i] * r
		}
	}
	return out
}

func applyDelta(sys *system, delta []float64) {
	for i, p := range sys.params {
		*p.ptr += delta[i]
	}
}

// solveLinearSystem solves A x = b by Gauss-Jordan elimination with
// partial pivoting. Returns (nil, false) if A is numerically singular,
// signaling rank deficiency to the caller.
func solveLinearSystem(a [][]float64, b []float64) ([]float64, bool) {
	n := len(b)
	aug := make([][]float64, n)
	for i := range aug {
		aug[i] = make([]float64, n+1)
		copy(aug[i], a[i])
		aug[i][n] = b[i]
	}

	const pivotTol = 1e-12
	for col := 0; col < n; col++ {
		pivotRow := col
		maxAbs := math.Abs(aug[col][col])
		for r := col + 1; r < n; r++ {
			if v := math.Abs(aug[r][col]); v > maxAbs {
				maxAbs = v
				pivotRow = r
			}
		}
		if maxAbs < pivotTol {
			return nil, false
		}
		aug[col], aug[pivotRow] = aug[pivotRow], aug[col]

		pivot := aug[col][col]
		for j := col; j <= n; j++ {
			aug[col][j] /= pivot
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for j := col; j <= n; j++ {
				aug[r][j] -= factor * aug[col][j]
			}
		}
	}

	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = aug[i][n]
	}
	return x, true
}

// conflictingConstraints returns the IDs of every constraint whose
// Jacobian block is entirely zero at the point of rank deficiency: it
// contributes no gradient information, the classic signature of a
// redundant or contradictory constraint.
func conflictingConstraints(cs []*sketch.Constraint, jac [][]float64, sys *system) []sketch.ConstraintID {
	var out []sketch.ConstraintID
	row := 0
	for _, c := range cs {
		rows := residualCount(c.Type)
		allZero := true
	outer:
		for r := row; r < row+rows && r < len(jac); r++ {
			for _, v := range jac[r] {
				if v != 0 {
					allZero = false
					break outer
				}
			}
		}
		if allZero {
			out = append(out, c.ID)
		}
		row += rows
	}
	return out
}
