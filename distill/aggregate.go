package distill

import (
	"fmt"
	"strings"

	"github.com/yezhuoyang/quantum-distillation-homework/distill/counts"
)

// A Selection is the result of splitting a shot histogram under a
// post-selection predicate. Accepted and Rejected partition the input:
// their totals always sum to Shots.
type Selection struct {
	Accepted counts.Histogram
	Rejected counts.Histogram

	// Shots is the total count of the input histogram.
	Shots int

	// SuccessRate is Accepted.Total()/Shots. Zero when nothing passed.
	SuccessRate float64
}

// Distribution returns the accepted histogram normalized over its own
// total, or ErrNoAccepted when post-selection discarded every shot.
func (s Selection) Distribution() (counts.Distribution, error) {
	if s.Accepted.Total() == 0 {
		return nil, ErrNoAccepted
	}
	return s.Accepted.Normalize()
}

// Aggregate splits h into accepted and rejected sub-histograms under
// pred and computes the success rate. It is a pure function of its
// inputs. A histogram with no shots, or containing an outcome whose
// width disagrees with the predicate, is an error.
func Aggregate(h counts.Histogram, pred Predicate) (Selection, error) {
	total := h.Total()
	if total == 0 {
		return Selection{}, counts.ErrEmpty
	}
	sel := Selection{
		Accepted: make(counts.Histogram),
		Rejected: make(counts.Histogram),
		Shots:    total,
	}
	for _, outcome := range h.Keys() {
		ok, err := pred.Accept(outcome)
		if err != nil {
			return Selection{}, err
		}
		if ok {
			sel.Accepted.Add(outcome, h[outcome])
		} else {
			sel.Rejected.Add(outcome, h[outcome])
		}
	}
	sel.SuccessRate = float64(sel.Accepted.Total()) / float64(total)
	return sel, nil
}

// Project reduces each outcome of h to the measurement bits of the
// listed qubits, in listed order, merging counts that collapse onto the
// same key. Width is the bitstring width of h; outcomes of any other
// width are a data error.
func Project(h counts.Histogram, width int, qubits []int) (counts.Histogram, error) {
	if len(qubits) == 0 {
		return nil, fmt.Errorf("no qubits to project onto")
	}
	for _, q := range qubits {
		if q < 0 || q >= width {
			return nil, fmt.Errorf("projecting qubit %d from a %d-bit outcome", q, width)
		}
	}
	out := make(counts.Histogram, len(h))
	for outcome, n := range h {
		if len(outcome) != width {
			return nil, fmt.Errorf("%w: outcome %q has width %d, want %d",
				counts.ErrWidthMismatch, outcome, len(outcome), width)
		}
		var b strings.Builder
		for _, q := range qubits {
			b.WriteByte(outcome[width-1-q])
		}
		out.Add(b.String(), n)
	}
	return out, nil
}
