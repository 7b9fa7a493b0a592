// Package kern provides covariance kernels for Gaussian-process models. A
// kernel turns one or two sets of input points into a covariance matrix
// parameterized by named hyperparameters, and evaluates the same way on
// concrete numeric matrices and on symbolic expression graphs.
//
// # Features
//
// The package includes the following key features:
//
//   - Three kernels: Constant, SquaredExponential (SE) and Exponential (E)
//   - Dual-mode evaluation: numeric inputs (gonum mat.Matrix) produce a
//     *mat.Dense, symbolic inputs (*sym.Matrix) produce a *sym.Matrix
//   - Hyperparameters with a log view, a fixed flag, bounds and priors
//   - Active dimensions and ARD (one length scale per active dimension)
//   - Optimizer-facing views of the free hyperparameters in the log domain
//   - Declarative YAML configuration
//
// # Installation
//
// To install the package, use:
//
//	go get github.com/thalesfsp/kern
//
// # Inputs and outputs
//
// Inputs are (d x n) matrices: one column per point, one row per input-space
// dimension. Evaluate(x, nil) returns the (n x n) self-covariance of x,
// which is always symmetric. Evaluate(x, xBar) returns the (n x n_bar) cross
// covariance. Both operands must belong to the same representation family
// and have the same number of rows.
//
//	k, _ := NewSquaredExponential()
//	x := mat.NewDense(1, 5, []float64{1, 2, 3, 4, 5})
//	cov, _ := Numeric(k, x, nil)
//	// cov.At(0, 1) == exp(-0.5)
//
// # Kernels
//
// 1. Constant ("Const"):
//
//   - k(x, x') = bias^2
//
//   - Hyperparameter: Const.bias
//
//     k, _ := NewConstant(WithBias(2))
//
// 2. Squared exponential ("SE"):
//
//   - k(x, x') = sv^2 * exp(-0.5 * sum_k (x_k - x'_k)^2 / l_k^2)
//
//   - Hyperparameters: SE.length_scales, SE.signal_variance
//
//     k, _ := NewSquaredExponential(WithActiveDims(0, 2), WithARD(true))
//
// 3. Exponential ("E"):
//
//   - k(x, x') = sv^2 * exp(-r), r the length-scaled Euclidean distance
//
//   - Hyperparameters: E.length_scales, E.signal_variance
//
//     k, _ := NewExponential(WithLengthScales(0.5))
//
// # Active dimensions and ARD
//
// WithActiveDims restricts a kernel to a subset of input rows; the other rows
// never reach the result, nor its symbolic dependency graph. WithARD gives
// every active dimension its own length scale and requires WithActiveDims.
// A length-scale vector given without active dimensions must match the input
// dimensionality at call time.
//
// # Hyperparameters
//
// Positivity-constrained hyperparameters expose a log view:
//
//	ls := k.LengthScales()
//	_ = ls.SetLog(0)     // value becomes 1
//	theta := k.FreeLogParameters()
//	_ = k.SetFreeLogParameters(theta)
//
// Non-positive and non-finite values are rejected with ErrConfiguration.
// Priors are any value with a LogProb(float64) float64 method, such as
// gonum's distuv.LogNormal.
//
// # Configuration
//
// Config describes a kernel declaratively and can be loaded from YAML:
//
//	kind: squared_exponential
//	active_dims: [0, 2]
//	ard: true
//	fixed: [signal_variance]
//
//	cfg, _ := LoadConfigFile("kernel.yaml")
//	k, _ := New(cfg, WithLogger(logger))
//
// # Errors
//
// Every error wraps one of ErrConfiguration, ErrTypeMismatch,
// ErrDimensionMismatch, ErrShape or ErrNoLogView; match with errors.Is.
//
// # Thread Safety
//
// Kernels are safe for concurrent use:
//   - Evaluate only reads kernel state
//   - Hyperparameters use an RWMutex, so a concurrent write never tears a read
//   - Hyperparameter structure (names, shapes, active dims) never changes
//     after construction
package kern
