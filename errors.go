package kern

import "errors"

//////
// Errors.
//
// Every failure the package reports to a caller wraps exactly one of these
// sentinels, so callers match with errors.Is and never on message text.
// Context is attached at the failure site with fmt.Errorf("%w: ...", ErrX).
//////

var (
	// ErrConfiguration is returned at construction (or by a hyperparameter
	// setter) when the supplied options are inconsistent, e.g. ARD without
	// active dimensions, an active dimension/length-scale count mismatch, or
	// a non-positive value for a log-backed hyperparameter.
	ErrConfiguration = errors.New("kern: invalid configuration")

	// ErrTypeMismatch is returned by Evaluate when X and X_bar do not belong
	// to the same representation family (symbolic vs numeric), or when an
	// operand is of neither family.
	ErrTypeMismatch = errors.New("kern: type mismatch")

	// ErrDimensionMismatch is returned by Evaluate when the input-space
	// dimensionality of X and X_bar differ, or when it disagrees with the
	// configured length-scale vector or active dimensions.
	ErrDimensionMismatch = errors.New("kern: dimension mismatch")

	// ErrShape is returned by hyperparameter setters when the supplied vector
	// cannot be broadcast to the hyperparameter's (d,1) shape.
	ErrShape = errors.New("kern: invalid hyperparameter shape")

	// ErrNoLogView is returned when the log view of a hyperparameter that is
	// not positivity-constrained is written.
	ErrNoLogView = errors.New("kern: hyperparameter has no log view")
)
