package quantum

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"go.uber.org/zap"

	"github.com/yezhuoyang/quantum-distillation-homework/distill/counts"
)

// A SimulatorOpts packages together the arguments necessary to construct
// a Simulator. Rand must be non-nil; hidden process-wide randomness makes
// runs unreproducible.
type SimulatorOpts struct {
	// Rand provides the source of randomness for noise injection and
	// measurement sampling. Must be non-nil.
	Rand *rand.Rand

	// Noise configures the toy error channels. The zero value is
	// noiseless.
	Noise NoiseModel

	// Logger receives debug diagnostics. Defaults to a nop logger.
	Logger *zap.Logger
}

// A Simulator is a statevector backend implementing Runner. Noise is
// modeled by Monte Carlo Pauli injection: each shot evolves its own copy
// of the state, inserting a uniformly random Pauli after each noisy gate
// with the configured probability.
type Simulator struct {
	rand  *rand.Rand
	noise NoiseModel
	log   *zap.Logger
}

// NewSimulator returns a new Simulator, or an error if the options are
// nonsensical.
func NewSimulator(opts SimulatorOpts) (*Simulator, error) {
	if opts.Rand == nil {
		return nil, errors.New("must provide Rand")
	}
	if err := opts.Noise.Validate(); err != nil {
		return nil, fmt.Errorf("invalid noise model: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulator{rand: opts.Rand, noise: opts.Noise, log: log}, nil
}

// Run implements the Runner interface.
func (s *Simulator) Run(c *Circuit, shots int) (counts.Histogram, error) {
	if c == nil {
		return nil, errors.New("must provide a circuit")
	}
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("malformed circuit: %w", err)
	}
	if !c.Measured() {
		return nil, errors.New("circuit has no measurement")
	}
	if shots <= 0 {
		return nil, fmt.Errorf("shots must be positive, got %d", shots)
	}

	s.log.Debug("running circuit",
		zap.Int("qubits", c.Qubits()),
		zap.Int("gates", len(c.Gates())),
		zap.Int("shots", shots))

	hist := make(counts.Histogram)
	if s.noise.Quiet() {
		// One evolution serves every shot.
		st := newState(c.Qubits())
		for _, g := range c.Gates() {
			st.apply(g)
		}
		for i := 0; i < shots; i++ {
			hist.Add(st.sample(s.rand), 1)
		}
		return hist, nil
	}

	for i := 0; i < shots; i++ {
		st := newState(c.Qubits())
		for _, g := range c.Gates() {
			st.apply(g)
			s.injectNoise(st, g)
		}
		outcome := st.sample(s.rand)
		hist.Add(s.flipReadout(outcome), 1)
	}
	return hist, nil
}

func (s *Simulator) injectNoise(st *state, g Gate) {
	if !s.noise.noisy(g.Name) {
		return
	}
	if g.Name == GateCX {
		if s.rand.Float64() >= s.noise.TwoQubitError {
			return
		}
		// Uniform over the 15 non-identity two-qubit Paulis.
		k := s.rand.Intn(15) + 1
		if p := k % 4; p != 0 {
			st.pauli(g.Control, p)
		}
		if p := k / 4; p != 0 {
			st.pauli(g.Target, p)
		}
		return
	}
	if s.rand.Float64() < s.noise.GateError {
		st.pauli(g.Target, s.rand.Intn(3)+1)
	}
}

func (s *Simulator) flipReadout(outcome string) string {
	if s.noise.ReadoutError == 0 {
		return outcome
	}
	b := []byte(outcome)
	for i := range b {
		if s.rand.Float64() < s.noise.ReadoutError {
			b[i] ^= 1 // '0' and '1' differ in the low bit
		}
	}
	return string(b)
}

// state is a dense statevector over n qubits. Basis index i assigns bit
// (i>>q)&1 to qubit q.
type state struct {
	amps   []complex128
	qubits int
}

func newState(n int) *state {
	amps := make([]complex128, 1<<n)
	amps[0] = 1
	return &state{amps: amps, qubits: n}
}

func (st *state) apply(g Gate) {
	switch g.Name {
	case GateH:
		st.applyH(g.Target)
	case GateX:
		st.pauli(g.Target, 1)
	case GateY:
		st.pauli(g.Target, 2)
	case GateZ:
		st.pauli(g.Target, 3)
	case GateS:
		st.phase(g.Target, 1i)
	case GateSdg:
		st.phase(g.Target, -1i)
	case GateT:
		st.phase(g.Target, cmplx.Exp(complex(0, math.Pi/4)))
	case GateTdg:
		st.phase(g.Target, cmplx.Exp(complex(0, -math.Pi/4)))
	case GateRY:
		st.applyRY(g.Target, g.Theta)
	case GateP:
		st.phase(g.Target, cmplx.Exp(complex(0, g.Theta)))
	case GateCX:
		st.applyCX(g.Control, g.Target)
	}
}

// pauli applies X (p=1), Y (p=2) or Z (p=3) to qubit q.
func (st *state) pauli(q, p int) {
	bit := 1 << q
	switch p {
	case 1:
		for i := range st.amps {
			if i&bit == 0 {
				j := i | bit
				st.amps[i], st.amps[j] = st.amps[j], st.amps[i]
			}
		}
	case 2:
		for i := range st.amps {
			if i&bit == 0 {
				j := i | bit
				st.amps[i], st.amps[j] = 1i*st.amps[j], -1i*st.amps[i]
			}
		}
	case 3:
		for i := range st.amps {
			if i&bit != 0 {
				st.amps[i] = -st.amps[i]
			}
		}
	}
}

func (st *state) phase(q int, factor complex128) {
	bit := 1 << q
	for i := range st.amps {
		if i&bit != 0 {
			st.amps[i] *= factor
		}
	}
}

func (st *state) applyH(q int) {
	h := complex(1/math.Sqrt2, 0)
	bit := 1 << q
	for i := range st.amps {
		if i&bit == 0 {
			j := i | bit
			a, b := st.amps[i], st.amps[j]
			st.amps[i], st.amps[j] = h*(a+b), h*(a-b)
		}
	}
}

func (st *state) applyRY(q int, theta float64) {
	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)
	bit := 1 << q
	for i := range st.amps {
		if i&bit == 0 {
			j := i | bit
			a, b := st.amps[i], st.amps[j]
			st.amps[i], st.amps[j] = c*a-sn*b, sn*a+c*b
		}
	}
}

func (st *state) applyCX(control, target int) {
	cBit, tBit := 1<<control, 1<<target
	for i := range st.amps {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			st.amps[i], st.amps[j] = st.amps[j], st.amps[i]
		}
	}
}

// sample draws one computational-basis outcome and formats it with the
// highest-indexed qubit leftmost.
func (st *state) sample(r *rand.Rand) string {
	u := r.Float64()
	acc := 0.0
	idx := 0
	for i, a := range st.amps {
		acc += real(a)*real(a) + imag(a)*imag(a)
		idx = i
		if u < acc {
			break
		}
	}
	b := make([]byte, st.qubits)
	for q := 0; q < st.qubits; q++ {
		b[st.qubits-1-q] = '0' + byte((idx>>q)&1)
	}
	return string(b)
}
