package dsgp4

import "fmt"

// InvalidElementsError is returned when a raw element lies outside its
// physical domain. Detected at construction or initialization, never later.
type InvalidElementsError struct {
	Field string
	Value float64
}

func (e InvalidElementsError) Error() string {
	return fmt.Sprintf("invalid element %s=%g", e.Field, e.Value)
}

// DegenerateGeometryError is returned when the oblateness-corrected geometry
// is non-physical (non-positive semi-major axis, sub-surface perigee, or an
// eccentricity pushed outside [0,1) by the recovery step).
type DegenerateGeometryError struct {
	Check string
	Value float64
}

func (e DegenerateGeometryError) Error() string {
	return fmt.Sprintf("degenerate geometry: %s (%g)", e.Check, e.Value)
}

// KeplerError is returned when the eccentric anomaly iteration exceeds its
// bound without meeting tolerance.
type KeplerError struct {
	Tsince     float64
	Iterations int
	Residual   float64
}

func (e KeplerError) Error() string {
	return fmt.Sprintf("Kepler solve did not converge at t=%.3f min (%d iterations, residual %e)", e.Tsince, e.Iterations, e.Residual)
}

// DecayedError is a terminal condition for one call: the perturbed orbit has
// left the valid range and the object would have re-entered.
type DecayedError struct {
	Tsince   float64
	Quantity string // which check tripped: eccentricity, semi-latus rectum, radius
	Value    float64
}

func (e DecayedError) Error() string {
	return fmt.Sprintf("satellite decayed at t=%.3f min: %s=%g out of range", e.Tsince, e.Quantity, e.Value)
}

// DerivativeError reports that the state is valid but its requested Jacobian
// is not well defined (e.g. an exactly circular or equatorial singularity).
// Distinct from a value failure: callers may still use the state.
type DerivativeError struct {
	Tsince float64
	Reason string
}

func (e DerivativeError) Error() string {
	return fmt.Sprintf("derivative undefined at t=%.3f min: %s", e.Tsince, e.Reason)
}

// NotInitializedError is returned when propagation is attempted on a raw
// element set.
type NotInitializedError struct{}

func (e NotInitializedError) Error() string {
	return "element set has not been initialized"
}

// BatchItemError wraps a per-item failure with its position in the batch.
type BatchItemError struct {
	Index int
	Err   error
}

func (e BatchItemError) Error() string {
	return fmt.Sprintf("batch item %d: %s", e.Index, e.Err)
}

func (e BatchItemError) Unwrap() error { return e.Err }

// NewtonError reports non-convergence of the element inversion, carrying the
// best residual reached.
type NewtonError struct {
	Iterations int
	Residual   float64
}

func (e NewtonError) Error() string {
	return fmt.Sprintf("element inversion did not converge in %d iterations (residual %e)", e.Iterations, e.Residual)
}
