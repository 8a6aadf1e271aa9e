package distill

import (
	"math"
	"math/cmplx"

	"github.com/yezhuoyang/quantum-distillation-homework/distill/counts"
	"github.com/yezhuoyang/quantum-distillation-homework/distill/quantum"
)

// A Protocol ties together the pieces the pipeline varies per
// experiment: the fixed circuit, the post-selection predicate over the
// ancilla/syndrome bits, the data qubits whose accepted distribution is
// reported, the ideal reference distribution, and the fidelity formula
// scoring one against the other. The ideal reference is a constant,
// never computed from data.
type Protocol struct {
	Name       string
	Build      func() *quantum.Circuit
	Predicate  Predicate
	DataQubits []int
	Ideal      counts.Distribution
	Fidelity   func(output, ideal counts.Distribution) float64
}

// BBPSSW returns the two-pair Bell-state distillation protocol.
//
// Qubits 0,1 belong to Alice and 2,3 to Bob; pairs (0,2) and (1,3) are
// entangled, each side applies a local CNOT, and the whole register is
// measured. A shot is kept when the two check bits (qubits 2 and 3)
// agree, and the kept pair (qubits 0 and 1) is scored against the ideal
// Bell distribution, which puts equal mass on 00 and 11. For the
// noiseless circuit exactly half the shots pass the check.
func BBPSSW() Protocol {
	return Protocol{
		Name: "bbpssw",
		Build: func() *quantum.Circuit {
			return quantum.NewCircuit(4).
				H(0).CX(0, 2). // first pair
				H(1).CX(1, 3). // second pair
				CX(0, 1).CX(2, 3).
				MeasureAll()
		},
		Predicate:  MatchBits(4, 2, 3),
		DataQubits: []int{0, 1},
		Ideal:      counts.Distribution{"00": 0.5, "11": 0.5},
		Fidelity:   SupportMass,
	}
}

// MagicState3to1 returns the simplified 3-to-1 magic-state distillation
// protocol: three noisy T states correlated through a repetition-style
// encoding, with both syndrome qubits measured in the X basis. A shot
// is kept when both syndromes read 0; the surviving data qubit is
// scored against the Z-basis distribution of T|+>, which is uniform.
func MagicState3to1() Protocol {
	return Protocol{
		Name: "magic3",
		Build: func() *quantum.Circuit {
			c := quantum.NewCircuit(3)
			for i := 0; i < 3; i++ {
				c.H(i)
			}
			for i := 0; i < 3; i++ {
				c.T(i)
			}
			c.CX(0, 1).CX(0, 2)
			c.H(1).H(2)
			return c.MeasureAll()
		},
		Predicate:  ZeroBits(3, 1, 2),
		DataQubits: []int{0},
		Ideal:      counts.Distribution{"0": 0.5, "1": 0.5},
		Fidelity:   ClassicalFidelity,
	}
}

// tPlusHadamardIdeal is the distribution of T|+> measured in the
// computational basis after a Hadamard: cos^2(pi/8) on 0, sin^2(pi/8)
// on 1.
func tPlusHadamardIdeal() counts.Distribution {
	c := math.Cos(math.Pi / 8)
	s := math.Sin(math.Pi / 8)
	return counts.Distribution{"0": c * c, "1": s * s}
}

// MagicState15to1 returns the 15-qubit approximation of the [[15,1,3]]
// distillation protocol with the star/pair encoding: qubit 0 fans out
// to qubits 1-7, which pair onto 8-14, plus three extra stabilizer
// links. After the transversal T layer the encoding is reversed, the 14
// syndrome qubits are measured in the X basis, and a shot is kept only
// when every syndrome reads 0.
func MagicState15to1() Protocol {
	return Protocol{
		Name: "magic15",
		Build: func() *quantum.Circuit {
			c := quantum.NewCircuit(15)
			for i := 0; i < 15; i++ {
				c.H(i).T(i)
			}
			for i := 1; i <= 7; i++ {
				c.CX(0, i)
			}
			for i := 1; i <= 7; i++ {
				c.CX(i, i+7)
			}
			c.CX(8, 9).CX(10, 11).CX(12, 13)
			for i := 0; i < 15; i++ {
				c.T(i)
			}
			c.CX(12, 13).CX(10, 11).CX(8, 9)
			for i := 7; i >= 1; i-- {
				c.CX(i, i+7)
			}
			for i := 7; i >= 1; i-- {
				c.CX(0, i)
			}
			for i := 1; i < 15; i++ {
				c.H(i)
			}
			c.H(0)
			return c.MeasureAll()
		},
		Predicate:  ZeroBits(15, syndromeQubits(15)...),
		DataQubits: []int{0},
		Ideal:      tPlusHadamardIdeal(),
		Fidelity:   ClassicalFidelity,
	}
}

// MagicState15to1Optimized returns the layered-ring variant of the
// 15-qubit approximation. It claims to implement the same protocol as
// MagicState15to1 but uses a shallower encoding (28 CNOTs rather than
// 34) and, in the original experiment, was driven with doubled
// two-qubit noise; the two variants report inconsistent success rates,
// a discrepancy that is deliberately left visible.
func MagicState15to1Optimized() Protocol {
	return Protocol{
		Name: "magic15opt",
		Build: func() *quantum.Circuit {
			c := quantum.NewCircuit(15)
			for i := 0; i < 15; i++ {
				c.H(i).T(i)
			}
			for i := 1; i <= 4; i++ {
				c.CX(0, i)
			}
			for i := 1; i <= 4; i++ {
				c.CX(i, i+4)
			}
			for i := 5; i <= 8; i++ {
				c.CX(i, i+4)
			}
			c.CX(9, 13).CX(10, 14)
			for i := 0; i < 15; i++ {
				c.T(i)
			}
			c.CX(10, 14).CX(9, 13)
			for i := 8; i >= 5; i-- {
				c.CX(i, i+4)
			}
			for i := 4; i >= 1; i-- {
				c.CX(i, i+4)
			}
			for i := 4; i >= 1; i-- {
				c.CX(0, i)
			}
			for i := 1; i < 15; i++ {
				c.H(i)
			}
			c.H(0)
			return c.MeasureAll()
		},
		Predicate:  ZeroBits(15, syndromeQubits(15)...),
		DataQubits: []int{0},
		Ideal:      tPlusHadamardIdeal(),
		Fidelity:   ClassicalFidelity,
	}
}

func syndromeQubits(width int) []int {
	qs := make([]int, 0, width-1)
	for i := 1; i < width; i++ {
		qs = append(qs, i)
	}
	return qs
}

// BellCircuit prepares the Bell state |Phi+> = (|00>+|11>)/sqrt(2),
// unmeasured, for tomographic verification.
func BellCircuit() *quantum.Circuit {
	return quantum.NewCircuit(2).H(0).CX(0, 1)
}

// TPlusCircuit prepares the single-qubit magic state T|+>, unmeasured.
func TPlusCircuit() *quantum.Circuit {
	return quantum.NewCircuit(1).H(0).T(0)
}

// T0Circuit prepares the T-type magic state
// |T0> = cos(beta)|0> + e^(i pi/4) sin(beta)|1>, beta = arccos(1/sqrt(3))/2.
func T0Circuit() *quantum.Circuit {
	beta := 0.5 * math.Acos(1/math.Sqrt(3))
	return quantum.NewCircuit(1).RY(0, 2*beta).Phase(0, math.Pi/4)
}

// BellPhiPlus returns the ideal |Phi+> statevector. Basis index i
// assigns bit (i>>q)&1 to qubit q.
func BellPhiPlus() []complex128 {
	r := complex(1/math.Sqrt2, 0)
	return []complex128{r, 0, 0, r}
}

// TPlusState returns the ideal T|+> statevector.
func TPlusState() []complex128 {
	r := 1 / math.Sqrt2
	return []complex128{complex(r, 0), complex(r, 0) * cmplx.Exp(complex(0, math.Pi/4))}
}

// T0State returns the ideal |T0> statevector.
func T0State() []complex128 {
	beta := 0.5 * math.Acos(1/math.Sqrt(3))
	return []complex128{
		complex(math.Cos(beta), 0),
		complex(math.Sin(beta), 0) * cmplx.Exp(complex(0, math.Pi/4)),
	}
}
