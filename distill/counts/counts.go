// Package counts provides shot-count histograms and the normalized
// probability distributions derived from them.
package counts

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrEmpty is returned when an operation requires at least one
	// recorded shot and the histogram has none.
	ErrEmpty = errors.New("histogram has no counts")

	// ErrWidthMismatch is returned when a bitstring does not have the
	// width expected by the operation consuming it. Malformed outcomes
	// are surfaced, never coerced.
	ErrWidthMismatch = errors.New("bitstring width mismatch")
)

// A Histogram maps measurement bitstrings to non-negative occurrence
// counts. Bitstrings follow the convention of the upstream backends: the
// leftmost character corresponds to the highest-indexed qubit.
type Histogram map[string]int

// Add records n additional occurrences of outcome.
func (h Histogram) Add(outcome string, n int) {
	h[outcome] += n
}

// Total returns the number of shots recorded in h.
func (h Histogram) Total() int {
	t := 0
	for _, c := range h {
		t += c
	}
	return t
}

// Clone returns an independent copy of h.
func (h Histogram) Clone() Histogram {
	c := make(Histogram, len(h))
	for k, v := range h {
		c[k] = v
	}
	return c
}

// Keys returns the bitstrings of h in lexicographic order, for
// deterministic iteration and reporting.
func (h Histogram) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Width returns the common bitstring width of h, or ErrWidthMismatch if
// the keys disagree on width. An empty histogram has width 0.
func (h Histogram) Width() (int, error) {
	w := -1
	for _, k := range h.Keys() {
		if w < 0 {
			w = len(k)
			continue
		}
		if len(k) != w {
			return 0, fmt.Errorf("%w: key %q has width %d, want %d", ErrWidthMismatch, k, len(k), w)
		}
	}
	if w < 0 {
		return 0, nil
	}
	return w, nil
}

// Prob returns the fraction of shots recorded against outcome, or 0 for
// an empty histogram.
func (h Histogram) Prob(outcome string) float64 {
	t := h.Total()
	if t == 0 {
		return 0
	}
	return float64(h[outcome]) / float64(t)
}

// Normalize converts h into a probability distribution over its
// bitstrings. It returns ErrEmpty rather than silently dividing by zero
// when h records no shots.
func (h Histogram) Normalize() (Distribution, error) {
	t := h.Total()
	if t == 0 {
		return nil, ErrEmpty
	}
	d := make(Distribution, len(h))
	for k, v := range h {
		d[k] = float64(v) / float64(t)
	}
	return d, nil
}

// A Distribution maps bitstrings to probabilities summing to 1.
type Distribution map[string]float64

// Keys returns the bitstrings of d in lexicographic order.
func (d Distribution) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Sum returns the total probability mass of d. A well-formed
// distribution sums to 1 up to floating-point error.
func (d Distribution) Sum() float64 {
	probs := make([]float64, 0, len(d))
	for _, p := range d {
		probs = append(probs, p)
	}
	return floats.Sum(probs)
}
