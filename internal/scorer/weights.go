package scorer

import (
	"errors"
	"fmt"
	"math"
)

// Signal names, in evaluation order.
const (
	SignalName    = "name"
	SignalMethods = "methods"
	SignalLines   = "lines"
	SignalFlags   = "flags"
	SignalKind    = "kind"
)

// Epsilon is the tolerance under which two totals are considered equal.
const Epsilon = 1e-9

// Weights are the per-signal multipliers of the weighted sum.
type Weights struct {
	Name    float64 `yaml:"name" toml:"name"`
	Methods float64 `yaml:"methods" toml:"methods"`
	Lines   float64 `yaml:"lines" toml:"lines"`
	Flags   float64 `yaml:"flags" toml:"flags"`
	Kind    float64 `yaml:"kind" toml:"kind"`
}

func DefaultWeights() Weights {
	return Weights{
		Name:    0.40,
		Methods: 0.25,
		Lines:   0.20,
		Flags:   0.10,
		Kind:    0.05,
	}
}

// For returns the weight of the named signal, 0 for unknown names.
func (w Weights) For(signal string) float64 {
	switch signal {
	case SignalName:
		return w.Name
	case SignalMethods:
		return w.Methods
	case SignalLines:
		return w.Lines
	case SignalFlags:
		return w.Flags
	case SignalKind:
		return w.Kind
	default:
		return 0
	}
}

func (w Weights) Sum() float64 {
	return w.Name + w.Methods + w.Lines + w.Flags + w.Kind
}

func (w Weights) Validate() error {
	for _, name := range []string{SignalName, SignalMethods, SignalLines, SignalFlags, SignalKind} {
		v := w.For(name)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight %q must be finite, got %v", name, v)
		}
		if v < 0 {
			return fmt.Errorf("weight %q must not be negative, got %v", name, v)
		}
	}
	if w.Sum() <= 0 {
		return errors.New("at least one weight must be positive")
	}
	return nil
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
