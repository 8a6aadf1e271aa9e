package quantum

import "fmt"

// Gate names understood by the circuit builder and the simulator.
const (
	GateH   = "h"
	GateX   = "x"
	GateY   = "y"
	GateZ   = "z"
	GateS   = "s"
	GateSdg = "sdg"
	GateT   = "t"
	GateTdg = "tdg"
	GateRY  = "ry"
	GateP   = "p"
	GateCX  = "cx"
)

func knownGate(name string) bool {
	switch name {
	case GateH, GateX, GateY, GateZ, GateS, GateSdg, GateT, GateTdg, GateRY, GateP, GateCX:
		return true
	}
	return false
}

// A Gate is one operation placed on a circuit. Control is -1 for
// single-qubit gates. Theta is meaningful only for parameterized gates.
type Gate struct {
	Name    string
	Target  int
	Control int
	Theta   float64
}

// A Circuit is an ordered list of gates on a fixed register, terminated
// by a full register measurement. Construction errors (e.g. a qubit
// index outside the register) are latched and reported when the circuit
// is executed, so builder call sites stay uncluttered.
type Circuit struct {
	qubits   int
	gates    []Gate
	measured bool
	err      error
}

// NewCircuit returns an empty circuit over n qubits.
func NewCircuit(n int) *Circuit {
	c := &Circuit{qubits: n}
	if n <= 0 {
		c.err = fmt.Errorf("circuit must have at least one qubit, got %d", n)
	}
	return c
}

// Qubits returns the register size.
func (c *Circuit) Qubits() int { return c.qubits }

// Gates returns the recorded gate sequence.
func (c *Circuit) Gates() []Gate { return c.gates }

// Measured reports whether MeasureAll has been applied.
func (c *Circuit) Measured() bool { return c.measured }

// Err returns the first construction error, if any.
func (c *Circuit) Err() error { return c.err }

func (c *Circuit) add(g Gate) *Circuit {
	if c.err != nil {
		return c
	}
	if c.measured {
		c.err = fmt.Errorf("gate %q added after measurement", g.Name)
		return c
	}
	if g.Target < 0 || g.Target >= c.qubits {
		c.err = fmt.Errorf("gate %q targets qubit %d on a %d-qubit register", g.Name, g.Target, c.qubits)
		return c
	}
	if g.Name == GateCX {
		if g.Control < 0 || g.Control >= c.qubits {
			c.err = fmt.Errorf("gate %q controls on qubit %d on a %d-qubit register", g.Name, g.Control, c.qubits)
			return c
		}
		if g.Control == g.Target {
			c.err = fmt.Errorf("gate %q control and target are both qubit %d", g.Name, g.Target)
			return c
		}
	}
	c.gates = append(c.gates, g)
	return c
}

// H applies a Hadamard gate to qubit q.
func (c *Circuit) H(q int) *Circuit { return c.add(Gate{Name: GateH, Target: q, Control: -1}) }

// X applies a Pauli-X gate to qubit q.
func (c *Circuit) X(q int) *Circuit { return c.add(Gate{Name: GateX, Target: q, Control: -1}) }

// Y applies a Pauli-Y gate to qubit q.
func (c *Circuit) Y(q int) *Circuit { return c.add(Gate{Name: GateY, Target: q, Control: -1}) }

// Z applies a Pauli-Z gate to qubit q.
func (c *Circuit) Z(q int) *Circuit { return c.add(Gate{Name: GateZ, Target: q, Control: -1}) }

// S applies a phase gate to qubit q.
func (c *Circuit) S(q int) *Circuit { return c.add(Gate{Name: GateS, Target: q, Control: -1}) }

// Sdg applies the inverse phase gate to qubit q.
func (c *Circuit) Sdg(q int) *Circuit { return c.add(Gate{Name: GateSdg, Target: q, Control: -1}) }

// T applies a T gate to qubit q.
func (c *Circuit) T(q int) *Circuit { return c.add(Gate{Name: GateT, Target: q, Control: -1}) }

// Tdg applies the inverse T gate to qubit q.
func (c *Circuit) Tdg(q int) *Circuit { return c.add(Gate{Name: GateTdg, Target: q, Control: -1}) }

// RY applies a rotation about the Y axis by theta to qubit q.
func (c *Circuit) RY(q int, theta float64) *Circuit {
	return c.add(Gate{Name: GateRY, Target: q, Control: -1, Theta: theta})
}

// Phase applies a phase rotation by theta to qubit q.
func (c *Circuit) Phase(q int, theta float64) *Circuit {
	return c.add(Gate{Name: GateP, Target: q, Control: -1, Theta: theta})
}

// CX applies a controlled-X gate with the given control and target.
func (c *Circuit) CX(control, target int) *Circuit {
	return c.add(Gate{Name: GateCX, Target: target, Control: control})
}

// MeasureAll terminates the circuit with a computational-basis
// measurement of the full register.
func (c *Circuit) MeasureAll() *Circuit {
	if c.err == nil {
		c.measured = true
	}
	return c
}

// CountGates returns the number of gates named name in the circuit.
func (c *Circuit) CountGates(name string) int {
	n := 0
	for _, g := range c.gates {
		if g.Name == name {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of c, suitable for appending
// basis-rotation gates without disturbing the original.
func (c *Circuit) Clone() *Circuit {
	gates := make([]Gate, len(c.gates))
	copy(gates, c.gates)
	return &Circuit{qubits: c.qubits, gates: gates, measured: c.measured, err: c.err}
}
