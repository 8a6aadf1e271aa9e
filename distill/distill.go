// Package distill provides the shared statistical pipeline behind
// entanglement- and magic-state-distillation experiments: build a fixed
// circuit, sample shots on a backend, post-select outcomes under a
// protocol predicate, and score the surviving distribution against the
// protocol's ideal target.
package distill

import (
	"errors"
	"fmt"

	"github.com/yezhuoyang/quantum-distillation-homework/distill/counts"
	"github.com/yezhuoyang/quantum-distillation-homework/distill/quantum"
)

// ErrNoAccepted is returned when post-selection discards every shot, in
// which case no output distribution can be estimated.
var ErrNoAccepted = errors.New("no accepted shots: cannot estimate distribution")

// A PipelineOpts packages together the arguments necessary to construct
// a new Pipeline.
type PipelineOpts struct {
	// Runner executes circuits. Must be non-nil.
	Runner quantum.Runner

	// Shots is the number of samples per run. Must be positive.
	Shots int
}

// A Pipeline runs distillation protocols end to end: one blocking
// backend call, post-selection, and fidelity estimation. Pipelines hold
// no mutable state across runs; running the same protocol on the same
// histogram twice yields identical results.
type Pipeline struct {
	runner quantum.Runner
	shots  int
}

// NewPipeline returns a new Pipeline, configured in accordance with
// opts, or an error if the options are nonsensical.
func NewPipeline(opts PipelineOpts) (*Pipeline, error) {
	if opts.Runner == nil {
		return nil, errors.New("must provide Runner")
	}
	if opts.Shots <= 0 {
		return nil, fmt.Errorf("shots must be positive, got %d", opts.Shots)
	}
	return &Pipeline{runner: opts.Runner, shots: opts.Shots}, nil
}

// A Result summarizes one protocol run.
type Result struct {
	// Protocol names the protocol that produced this result.
	Protocol string

	// Selection holds the accepted/rejected split and the success rate.
	Selection Selection

	// Output is the accepted distribution projected onto the protocol's
	// data qubits. Nil when NoAccepted is set.
	Output counts.Distribution

	// Fidelity scores Output against the protocol's ideal target.
	// Meaningless when NoAccepted is set.
	Fidelity float64

	// Flagged is set when statistical noise pushed Fidelity outside
	// [0,1]. The raw value is reported rather than clipped.
	Flagged bool

	// NoAccepted is set when post-selection discarded every shot. This
	// is a distinguished result state, not a failure.
	NoAccepted bool
}

// Run executes one protocol: it builds the circuit, samples shots on
// the backend, post-selects, and estimates fidelity. Configuration
// problems (malformed circuit, predicate width disagreeing with the
// register) and backend failures are fatal; an empty acceptance is not.
func (p *Pipeline) Run(proto Protocol) (Result, error) {
	circ := proto.Build()
	if err := circ.Err(); err != nil {
		return Result{}, fmt.Errorf("building %s circuit: %w", proto.Name, err)
	}
	if w := proto.Predicate.Width(); w != circ.Qubits() {
		return Result{}, fmt.Errorf("%s predicate expects %d bits but circuit measures %d qubits",
			proto.Name, w, circ.Qubits())
	}
	if err := proto.Predicate.Validate(); err != nil {
		return Result{}, fmt.Errorf("%s predicate: %w", proto.Name, err)
	}

	hist, err := p.runner.Run(circ, p.shots)
	if err != nil {
		return Result{}, fmt.Errorf("running %s circuit: %w", proto.Name, err)
	}

	sel, err := Aggregate(hist, proto.Predicate)
	if err != nil {
		return Result{}, fmt.Errorf("aggregating %s shots: %w", proto.Name, err)
	}

	res := Result{Protocol: proto.Name, Selection: sel}
	if sel.Accepted.Total() == 0 {
		res.NoAccepted = true
		return res, nil
	}

	projected, err := Project(sel.Accepted, proto.Predicate.Width(), proto.DataQubits)
	if err != nil {
		return Result{}, fmt.Errorf("projecting %s output: %w", proto.Name, err)
	}
	out, err := projected.Normalize()
	if err != nil {
		return Result{}, fmt.Errorf("normalizing %s output: %w", proto.Name, err)
	}
	res.Output = out
	res.Fidelity = proto.Fidelity(out, proto.Ideal)
	res.Flagged = res.Fidelity < 0 || res.Fidelity > 1
	return res, nil
}
