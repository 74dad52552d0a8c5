package types

import (
	"errors"
	"fmt"
)

// Failure taxonomy for the solver core. Nothing here is retryable: every
// failure is a configuration or modeling defect, not a transient condition.
var (
	// ErrInvalidConfiguration indicates non-physical or under-resolved
	// geometry or negative material constants, caught before stepping.
	ErrInvalidConfiguration = errors.New("hotbox: invalid configuration")

	// ErrInvalidParameter indicates a boundary coupling (beta or B) out of
	// range, caught before stepping.
	ErrInvalidParameter = errors.New("hotbox: invalid parameter")

	// ErrInstabilityRisk indicates gamma = alpha*dt/dx^2 exceeds the 1/6
	// bound for the explicit 7-point scheme. Raised before the first step.
	ErrInstabilityRisk = errors.New("hotbox: explicit scheme stability bound exceeded")

	// ErrNumericalDivergence indicates a field value became non-finite
	// mid-run. The run transitions to Failed.
	ErrNumericalDivergence = errors.New("hotbox: temperature field diverged")

	// ErrExternalFunction indicates a supplied temperature or source
	// function returned a non-finite value.
	ErrExternalFunction = errors.New("hotbox: external function returned non-finite value")
)

// DivergenceError reports the first non-finite node detected during a run.
type DivergenceError struct {
	Step    int
	Time    float64
	I, J, K int
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("%s at step %d (t=%.6g s), node (%d,%d,%d)",
		ErrNumericalDivergence.Error(), e.Step, e.Time, e.I, e.J, e.K)
}

func (e *DivergenceError) Unwrap() error { return ErrNumericalDivergence }
