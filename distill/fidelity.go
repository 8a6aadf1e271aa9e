package distill

import (
	"math"

	"github.com/yezhuoyang/quantum-distillation-homework/distill/counts"
)

// SupportMass estimates fidelity as the probability mass the output
// distribution places on the support of the ideal target. For a Bell
// target over {00, 11} this is simply P(00)+P(11).
func SupportMass(output, ideal counts.Distribution) float64 {
	f := 0.0
	for k, p := range ideal {
		if p > 0 {
			f += output[k]
		}
	}
	return f
}

// ClassicalFidelity computes the Bhattacharyya fidelity between the
// output and ideal distributions: (sum_k sqrt(p_k q_k))^2. It equals 1
// exactly when the distributions agree.
func ClassicalFidelity(output, ideal counts.Distribution) float64 {
	s := 0.0
	for k, q := range ideal {
		s += math.Sqrt(output[k] * q)
	}
	return s * s
}
