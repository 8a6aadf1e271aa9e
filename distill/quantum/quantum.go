// Package quantum provides a small circuit-construction API and the
// backend contract for executing circuits. Backends are opaque: callers
// hand over a circuit and a shot count and get back a histogram of
// measurement bitstrings, nothing else.
package quantum

import (
	"fmt"

	"github.com/yezhuoyang/quantum-distillation-homework/distill/counts"
)

// A Runner executes a circuit for a number of shots and returns the
// histogram of measurement outcomes. A Runner either returns a complete
// histogram or fails outright; there are no partial results and callers
// must not retry, since failures are deterministic for fixed inputs.
type Runner interface {
	Run(c *Circuit, shots int) (counts.Histogram, error)
}

// A NoiseModel describes the toy error channels applied by a simulated
// backend. The zero value is noiseless.
type NoiseModel struct {
	// GateError is the depolarizing probability applied after each
	// single-qubit gate named in NoisyGates. Must lie in [0,1].
	GateError float64

	// TwoQubitError is the depolarizing probability applied after each
	// two-qubit gate named in NoisyGates. Two-qubit gates are typically
	// noisier than single-qubit ones, so this is configured separately.
	// Must lie in [0,1].
	TwoQubitError float64

	// ReadoutError is the probability of flipping each classical bit of
	// a measurement outcome, independently. Must lie in [0,1].
	ReadoutError float64

	// NoisyGates enumerates the gate names the depolarizing channels
	// attach to, e.g. {"t", "h", "cx"}. Unrecognized names are a
	// configuration error.
	NoisyGates []string
}

// Validate reports whether the noise model is well-formed. Invalid
// configuration is fatal: it is rejected before any shot is sampled.
func (n NoiseModel) Validate() error {
	for _, p := range []struct {
		name string
		val  float64
	}{
		{"gate error", n.GateError},
		{"two-qubit error", n.TwoQubitError},
		{"readout error", n.ReadoutError},
	} {
		if p.val < 0 || p.val > 1 {
			return fmt.Errorf("%s probability %v outside [0,1]", p.name, p.val)
		}
	}
	for _, g := range n.NoisyGates {
		if !knownGate(g) {
			return fmt.Errorf("unrecognized noisy gate %q", g)
		}
	}
	return nil
}

func (n NoiseModel) noisy(gate string) bool {
	for _, g := range n.NoisyGates {
		if g == gate {
			return true
		}
	}
	return false
}

// Quiet reports whether the model applies no noise at all, which lets a
// simulator evolve the state once and sample all shots from it.
func (n NoiseModel) Quiet() bool {
	if n.ReadoutError > 0 {
		return false
	}
	if len(n.NoisyGates) == 0 {
		return true
	}
	return n.GateError == 0 && n.TwoQubitError == 0
}
