package solver

import (
	"fmt"
)

// Config holds the tunables for the Levenberg-Marquardt constraint solve.
// It supports YAML parsing and includes validation, following the
// dungeon-generation config's pattern of a flat, directly-mapped struct.
type Config struct {
	// MaxIterations caps LM iterations before the solve is declared
	// non-convergent.
	MaxIterations int `yaml:"maxIterations" json:"maxIterations"`

	// ResidualTolerance is the residual-norm threshold (mm) below which
	// the solve is considered converged.
	ResidualTolerance float64 `yaml:"residualTolerance" json:"residualTolerance"`

	// InitialLambda is the starting LM damping factor.
	InitialLambda float64 `yaml:"initialLambda" json:"initialLambda"`

	// LambdaUpFactor multiplies lambda after a rejected step.
	LambdaUpFactor float64 `yaml:"lambdaUpFactor" json:"lambdaUpFactor"`

	// LambdaDownFactor multiplies lambda after an accepted step.
	LambdaDownFactor float64 `yaml:"lambdaDownFactor" json:"lambdaDownFactor"`

	// FiniteDifferenceStep is the step used for central-difference
	// Jacobian columns that have no analytical derivative.
	FiniteDifferenceStep float64 `yaml:"finiteDifferenceStep" json:"finiteDifferenceStep"`

	// DragRejectionMultiple sets the drag-target rollback tolerance as a
	// multiple of ResidualTolerance rather than an independent constant:
	// the two thresholds would otherwise sit close enough that a solve
	// converging right at the boundary could trigger rollback
	// nondeterministically. See DragRejectionTolerance.
	DragRejectionMultiple float64 `yaml:"dragRejectionMultiple" json:"dragRejectionMultiple"`

	// DragWeight is the residual weight applied to the soft pull toward
	// a drag target; small enough not to dominate hard constraints.
	DragWeight float64 `yaml:"dragWeight" json:"dragWeight"`
}

// DefaultConfig returns the solver's default tunables.
func DefaultConfig() *Config {
	return &Config{
		MaxIterations:         50,
		ResidualTolerance:     1e-4,
		InitialLambda:         1e-3,
		LambdaUpFactor:        10,
		LambdaDownFactor:      0.1,
		FiniteDifferenceStep:  1e-6,
		DragRejectionMultiple: 2.0,
		DragWeight:            0.05,
	}
}

// DragRejectionTolerance is the maximum distance (mm) a dragged point's
// final position may differ from its requested target before the solver
// rolls the drag back and reports failure.
func (c *Config) DragRejectionTolerance() float64 {
	return c.ResidualTolerance * c.DragRejectionMultiple
}

// Validate checks the config's values.
func (c *Config) Validate() error {
	if c.MaxIterations <= 0 {
		return fmt.Errorf("maxIterations must be > 0, got %d", c.MaxIterations)
	}
	if c.ResidualTolerance <= 0 {
		return fmt.Errorf("residualTolerance must be > 0, got %f", c.ResidualTolerance)
	}
	if c.InitialLambda <= 0 {
		return fmt.Errorf("initialLambda must be > 0, got %f", c.InitialLambda)
	}
	if c.LambdaUpFactor <= 1 {
		return fmt.Errorf("lambdaUpFactor must be > 1, got %f", c.LambdaUpFactor)
	}
	if c.LambdaDownFactor <= 0 || c.LambdaDownFactor >= 1 {
		return fmt.Errorf("lambdaDownFactor must be in (0, 1), got %f", c.LambdaDownFactor)
	}
	if c.FiniteDifferenceStep <= 0 {
		return fmt.Errorf("finiteDifferenceStep must be > 0, got %f", c.FiniteDifferenceStep)
	}
	if c.DragRejectionMultiple <= 0 {
		return fmt.Errorf("dragRejectionMultiple must be > 0, got %f", c.DragRejectionMultiple)
	}
	if c.DragWeight <= 0 {
		return fmt.Errorf("dragWeight must be > 0, got %f", c.DragWeight)
	}
	return nil
}
