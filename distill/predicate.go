package distill

import (
	"fmt"

	"github.com/yezhuoyang/quantum-distillation-homework/distill/counts"
)

type predicateMode int

const (
	// matchMode accepts outcomes where every designated bit agrees.
	matchMode predicateMode = iota
	// zeroMode accepts outcomes where every designated bit is 0.
	zeroMode
	// allMode accepts every outcome of the expected width.
	allMode
)

// A Predicate deterministically classifies a measurement outcome as
// accepted or rejected. Predicates are pure: the same outcome always
// classifies the same way. A predicate is constructed against a fixed
// bitstring width; outcomes of any other width are a data error, never
// silently coerced.
type Predicate struct {
	width  int
	qubits []int
	mode   predicateMode
}

// MatchBits returns a predicate over width-bit outcomes that accepts
// when the measurement bits of qubits a and b agree.
func MatchBits(width, a, b int) Predicate {
	return Predicate{width: width, qubits: []int{a, b}, mode: matchMode}
}

// ZeroBits returns a predicate over width-bit outcomes that accepts
// when every listed qubit measured 0. This is the usual "no error
// detected" syndrome check.
func ZeroBits(width int, qubits ...int) Predicate {
	qs := make([]int, len(qubits))
	copy(qs, qubits)
	return Predicate{width: width, qubits: qs, mode: zeroMode}
}

// AcceptAll returns a predicate over width-bit outcomes that accepts
// everything. It is the right choice for histograms that already
// represent post-selected data; width checking still applies.
func AcceptAll(width int) Predicate {
	return Predicate{width: width, mode: allMode}
}

// Width returns the outcome width the predicate was constructed for.
func (p Predicate) Width() int { return p.width }

// Validate reports whether the predicate's designated qubits fit its
// width.
func (p Predicate) Validate() error {
	if p.width <= 0 {
		return fmt.Errorf("predicate width must be positive, got %d", p.width)
	}
	if len(p.qubits) == 0 && p.mode != allMode {
		return fmt.Errorf("predicate designates no qubits")
	}
	for _, q := range p.qubits {
		if q < 0 || q >= p.width {
			return fmt.Errorf("predicate designates qubit %d on a %d-bit outcome", q, p.width)
		}
	}
	return nil
}

// Accept classifies one measurement outcome. Outcomes whose width does
// not match the predicate's are reported as counts.ErrWidthMismatch.
func (p Predicate) Accept(outcome string) (bool, error) {
	if len(outcome) != p.width {
		return false, fmt.Errorf("%w: outcome %q has width %d, predicate expects %d",
			counts.ErrWidthMismatch, outcome, len(outcome), p.width)
	}
	switch p.mode {
	case allMode:
		return true, nil
	case matchMode:
		first := p.bit(outcome, p.qubits[0])
		for _, q := range p.qubits[1:] {
			if p.bit(outcome, q) != first {
				return false, nil
			}
		}
		return true, nil
	default:
		for _, q := range p.qubits {
			if p.bit(outcome, q) != '0' {
				return false, nil
			}
		}
		return true, nil
	}
}

// bit returns the measurement character of qubit q within outcome. The
// leftmost character corresponds to the highest-indexed qubit.
func (p Predicate) bit(outcome string, q int) byte {
	return outcome[p.width-1-q]
}
