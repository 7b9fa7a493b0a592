package kern

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//////
// Const, vars, types.
//////

// Kernel kinds accepted by Config.Kind.
const (
	KindConstant           = "constant"
	KindSquaredExponential = "squared_exponential"
	KindExponential        = "exponential"
)

// Config is the declarative form of a kernel construction.
//
// Usage example (YAML):
//
//	kind: squared_exponential
//	active_dims: [0, 2]
//	ard: true
//	length_scales: [0.5, 2.0]
//	signal_variance: 1.5
//	fixed: [signal_variance]
type Config struct {
	// Kind selects the variant.
	Kind string `yaml:"kind"`

	// ActiveDims is empty when every dimension is active.
	ActiveDims []int `yaml:"active_dims,omitempty"`

	ARD bool `yaml:"ard,omitempty"`

	// Initial values. Nil pointers and empty slices keep the default of ones.
	LengthScales   []float64 `yaml:"length_scales,omitempty"`
	SignalVariance *float64  `yaml:"signal_variance,omitempty"`
	Bias           *float64  `yaml:"bias,omitempty"`

	// Fixed lists hyperparameter fields (bare or namespaced) to fix.
	Fixed []string `yaml:"fixed,omitempty"`
}

//////
// Exported functionalities.
//////

// DefaultConfig returns a default configuration: a squared exponential kernel
// over every dimension with unit hyperparameters.
func DefaultConfig() Config {
	return Config{
		Kind: KindSquaredExponential,
	}
}

// LoadConfig decodes a YAML configuration from r, starting from
// DefaultConfig. Unknown keys are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("%w: decoding kernel config: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

// LoadConfigFile is LoadConfig on the file at path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("opening kernel config: %w", err)
	}
	defer f.Close()

	return LoadConfig(f)
}

// Options converts the configuration into construction options.
func (c Config) Options() []Option {
	opts := []Option{}

	if len(c.ActiveDims) > 0 {
		opts = append(opts, WithActiveDims(c.ActiveDims...))
	}

	if c.ARD {
		opts = append(opts, WithARD(true))
	}

	if len(c.LengthScales) > 0 {
		opts = append(opts, WithLengthScales(c.LengthScales...))
	}

	if c.SignalVariance != nil {
		opts = append(opts, WithSignalVariance(*c.SignalVariance))
	}

	if c.Bias != nil {
		opts = append(opts, WithBias(*c.Bias))
	}

	if len(c.Fixed) > 0 {
		opts = append(opts, WithFixed(c.Fixed...))
	}

	return opts
}

// New builds the kernel described by cfg. Extra options (a logger, priors,
// bounds) are applied after the ones derived from cfg.
//
// Usage example:
//
//	cfg, err := LoadConfigFile("kernel.yaml")
//	if err != nil {
//	    return err
//	}
//
//	k, err := New(cfg, WithLogger(logger))
func New(cfg Config, opts ...Option) (Kernel, error) {
	all := append(cfg.Options(), opts...)

	var (
		k   Kernel
		err error
	)

	switch cfg.Kind {
	case KindConstant:
		k, err = asKernel[*Constant](NewConstant(all...))
	case KindSquaredExponential:
		k, err = asKernel[*SquaredExponential](NewSquaredExponential(all...))
	case KindExponential:
		k, err = asKernel[*Exponential](NewExponential(all...))
	default:
		err = fmt.Errorf("%w: unknown kernel kind %q", ErrConfiguration, cfg.Kind)
	}

	if err != nil {
		return nil, err
	}

	return k, nil
}

// asKernel drops the concrete type, never wrapping a nil pointer.
func asKernel[K Kernel](k K, err error) (Kernel, error) {
	if err != nil {
		return nil, err
	}

	return k, nil
}
