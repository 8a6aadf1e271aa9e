package quantum

import (
	"math"
	"math/rand"
	"testing"
)

func newTestSim(t *testing.T, noise NoiseModel, seed int64) *Simulator {
	t.Helper()
	sim, err := NewSimulator(SimulatorOpts{
		Rand:  rand.New(rand.NewSource(seed)),
		Noise: noise,
	})
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	return sim
}

func TestSimulatorOptsValidation(t *testing.T) {
	tcs := []struct {
		name string
		opts SimulatorOpts
	}{
		{
			name: "nil rand",
			opts: SimulatorOpts{},
		}, {
			name: "gate error out of range",
			opts: SimulatorOpts{
				Rand:  rand.New(rand.NewSource(1)),
				Noise: NoiseModel{GateError: 1.5, NoisyGates: []string{"t"}},
			},
		}, {
			name: "negative readout error",
			opts: SimulatorOpts{
				Rand:  rand.New(rand.NewSource(1)),
				Noise: NoiseModel{ReadoutError: -0.1},
			},
		}, {
			name: "unknown noisy gate",
			opts: SimulatorOpts{
				Rand:  rand.New(rand.NewSource(1)),
				Noise: NoiseModel{GateError: 0.1, NoisyGates: []string{"ccx"}},
			},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewSimulator(tc.opts); err == nil {
				t.Error("NewSimulator succeeded, want configuration error")
			}
		})
	}
}

func TestRunValidation(t *testing.T) {
	sim := newTestSim(t, NoiseModel{}, 1)
	if _, err := sim.Run(nil, 100); err == nil {
		t.Error("Run(nil) succeeded, want error")
	}
	if _, err := sim.Run(NewCircuit(1).H(0), 100); err == nil {
		t.Error("Run on unmeasured circuit succeeded, want error")
	}
	if _, err := sim.Run(NewCircuit(1).H(5).MeasureAll(), 100); err == nil {
		t.Error("Run on malformed circuit succeeded, want error")
	}
	if _, err := sim.Run(NewCircuit(1).H(0).MeasureAll(), 0); err == nil {
		t.Error("Run with zero shots succeeded, want error")
	}
}

func TestHadamardSplitsEvenly(t *testing.T) {
	sim := newTestSim(t, NoiseModel{}, 42)
	const shots = 10000
	hist, err := sim.Run(NewCircuit(1).H(0).MeasureAll(), shots)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := hist.Total(); got != shots {
		t.Fatalf("total == %d, want %d", got, shots)
	}
	p0 := hist.Prob("0")
	// Binomial error is ~0.005 at this shot count.
	if math.Abs(p0-0.5) > 0.03 {
		t.Errorf("P(0) == %v, want 0.5 within sampling error", p0)
	}
}

func TestBellPairCorrelated(t *testing.T) {
	sim := newTestSim(t, NoiseModel{}, 42)
	hist, err := sim.Run(NewCircuit(2).H(0).CX(0, 1).MeasureAll(), 5000)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if hist["01"] != 0 || hist["10"] != 0 {
		t.Errorf("anti-correlated outcomes from a noiseless Bell pair: %v", hist)
	}
	if math.Abs(hist.Prob("00")-0.5) > 0.05 {
		t.Errorf("P(00) == %v, want 0.5 within sampling error", hist.Prob("00"))
	}
}

func TestOutcomeBitOrder(t *testing.T) {
	// X on qubit 0 of a 3-qubit register must set the rightmost
	// character only.
	sim := newTestSim(t, NoiseModel{}, 1)
	hist, err := sim.Run(NewCircuit(3).X(0).MeasureAll(), 10)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if hist["001"] != 10 {
		t.Errorf("outcomes == %v, want all shots on 001", hist)
	}
}

func TestReadoutErrorFlipsEverything(t *testing.T) {
	sim := newTestSim(t, NoiseModel{ReadoutError: 1}, 1)
	hist, err := sim.Run(NewCircuit(2).MeasureAll(), 10)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if hist["11"] != 10 {
		t.Errorf("outcomes == %v, want all shots flipped to 11", hist)
	}
}

func TestDepolarizingNoiseDisturbs(t *testing.T) {
	// With certain depolarization after every T gate, a T on |0>
	// must sometimes flip the qubit (X and Y branches do).
	sim := newTestSim(t, NoiseModel{GateError: 1, NoisyGates: []string{"t"}}, 7)
	hist, err := sim.Run(NewCircuit(1).T(0).MeasureAll(), 3000)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	p1 := hist.Prob("1")
	// Two of the three injected Paulis flip |0>; expect ~2/3.
	if math.Abs(p1-2.0/3.0) > 0.05 {
		t.Errorf("P(1) == %v, want ~0.667", p1)
	}
}

func TestQuietFastPathMatchesShotTotal(t *testing.T) {
	sim := newTestSim(t, NoiseModel{NoisyGates: []string{"t", "h"}}, 3)
	const shots = 1234
	hist, err := sim.Run(NewCircuit(2).H(0).CX(0, 1).MeasureAll(), shots)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := hist.Total(); got != shots {
		t.Errorf("total == %d, want %d", got, shots)
	}
}
