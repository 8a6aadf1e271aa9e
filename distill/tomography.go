package distill

import (
	"errors"
	"fmt"
	"math/cmplx"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/yezhuoyang/quantum-distillation-homework/distill/counts"
	"github.com/yezhuoyang/quantum-distillation-homework/distill/quantum"
)

// A Basis is a single-qubit measurement basis.
type Basis byte

const (
	BasisX Basis = 'X'
	BasisY Basis = 'Y'
	BasisZ Basis = 'Z'
)

// A Setting assigns one measurement basis per qubit; Setting[q] is the
// basis for qubit q.
type Setting []Basis

// String renders the setting with qubit 0 leftmost, e.g. "XZ" measures
// qubit 0 in X and qubit 1 in Z.
func (s Setting) String() string {
	var b strings.Builder
	for _, basis := range s {
		b.WriteByte(byte(basis))
	}
	return b.String()
}

// Settings enumerates all 3^n basis settings for an n-qubit state, the
// full set required by linear-inversion tomography.
func Settings(n int) []Setting {
	if n <= 0 {
		return nil
	}
	bases := []Basis{BasisX, BasisY, BasisZ}
	settings := []Setting{{}}
	for q := 0; q < n; q++ {
		next := make([]Setting, 0, len(settings)*3)
		for _, s := range settings {
			for _, b := range bases {
				ext := make(Setting, len(s), len(s)+1)
				copy(ext, s)
				next = append(next, append(ext, b))
			}
		}
		settings = next
	}
	return settings
}

// A TomographyOpts packages together the arguments necessary to
// construct a Tomographer.
type TomographyOpts struct {
	// Runner executes the rotated measurement circuits. Must be non-nil.
	Runner quantum.Runner

	// Shots is the number of samples per basis setting. Must be
	// positive.
	Shots int
}

// A Tomographer reconstructs a density-matrix estimate of a prepared
// state by measuring it in every Pauli basis combination.
type Tomographer struct {
	runner quantum.Runner
	shots  int
}

// NewTomographer returns a new Tomographer, or an error if the options
// are nonsensical.
func NewTomographer(opts TomographyOpts) (*Tomographer, error) {
	if opts.Runner == nil {
		return nil, errors.New("must provide Runner")
	}
	if opts.Shots <= 0 {
		return nil, fmt.Errorf("shots must be positive, got %d", opts.Shots)
	}
	return &Tomographer{runner: opts.Runner, shots: opts.Shots}, nil
}

// Measure samples every basis setting of the prepared (unmeasured)
// circuit and returns one histogram per setting, keyed by
// Setting.String(). Each setting is an independent backend run.
func (t *Tomographer) Measure(prep *quantum.Circuit) (map[string]counts.Histogram, error) {
	if prep == nil {
		return nil, errors.New("must provide a preparation circuit")
	}
	if err := prep.Err(); err != nil {
		return nil, fmt.Errorf("malformed preparation circuit: %w", err)
	}
	if prep.Measured() {
		return nil, errors.New("preparation circuit must not already be measured")
	}
	results := make(map[string]counts.Histogram)
	for _, setting := range Settings(prep.Qubits()) {
		c := prep.Clone()
		for q, basis := range setting {
			switch basis {
			case BasisX:
				c.H(q)
			case BasisY:
				c.Sdg(q).H(q)
			}
		}
		c.MeasureAll()
		hist, err := t.runner.Run(c, t.shots)
		if err != nil {
			return nil, fmt.Errorf("measuring setting %s: %w", setting, err)
		}
		results[setting.String()] = hist
	}
	return results, nil
}

// Fidelity measures the prepared circuit in every basis, reconstructs
// the density estimate by linear inversion, and returns the overlap
// with the ideal pure state. Sampling noise can push the value outside
// [0,1]; it is returned as computed so callers can flag it.
func (t *Tomographer) Fidelity(prep *quantum.Circuit, ideal []complex128) (float64, error) {
	results, err := t.Measure(prep)
	if err != nil {
		return 0, err
	}
	rho, err := ReconstructDensity(prep.Qubits(), results)
	if err != nil {
		return 0, err
	}
	return StateFidelity(rho, ideal)
}

// pauliMats indexes the single-qubit Pauli matrices by letter.
var pauliMats = map[byte][2][2]complex128{
	'I': {{1, 0}, {0, 1}},
	'X': {{0, 1}, {1, 0}},
	'Y': {{0, -1i}, {1i, 0}},
	'Z': {{1, 0}, {0, -1}},
}

// PauliExpectation estimates <P> for the Pauli string pauli (one letter
// per qubit, qubit 0 first) from the counts of a measurement setting
// that diagonalizes it. Each non-identity position contributes +1 for a
// 0 bit and -1 for a 1 bit, multiplied across positions and weighted by
// count/total.
func PauliExpectation(h counts.Histogram, pauli string) (float64, error) {
	total := h.Total()
	if total == 0 {
		return 0, counts.ErrEmpty
	}
	n := len(pauli)
	sum := 0.0
	for outcome, c := range h {
		if len(outcome) != n {
			return 0, fmt.Errorf("%w: outcome %q against Pauli string %q",
				counts.ErrWidthMismatch, outcome, pauli)
		}
		sign := 1.0
		for q := 0; q < n; q++ {
			if pauli[q] == 'I' {
				continue
			}
			if outcome[n-1-q] == '1' {
				sign = -sign
			}
		}
		sum += sign * float64(c)
	}
	return sum / float64(total), nil
}

// ReconstructDensity performs linear-inversion tomography: it expresses
// the density matrix as rho = sum_P <P> P / 2^n over all 4^n Pauli
// strings, estimating each expectation from the setting that measures
// its non-identity slots (identity slots marginalize out). The results
// map must contain every setting produced by Settings(n).
func ReconstructDensity(n int, results map[string]counts.Histogram) (*mat.CDense, error) {
	if n <= 0 {
		return nil, fmt.Errorf("qubit count must be positive, got %d", n)
	}
	dim := 1 << n
	rho := mat.NewCDense(dim, dim, nil)
	for _, pauli := range pauliStrings(n) {
		setting := settingFor(pauli)
		h, ok := results[setting]
		if !ok {
			return nil, fmt.Errorf("missing measurement setting %s", setting)
		}
		exp, err := PauliExpectation(h, pauli)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", setting, err)
		}
		weight := complex(exp/float64(dim), 0)
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				rho.Set(i, j, rho.At(i, j)+weight*pauliEntry(pauli, i, j))
			}
		}
	}
	return rho, nil
}

// pauliStrings enumerates all 4^n Pauli strings over {I,X,Y,Z}.
func pauliStrings(n int) []string {
	letters := []byte{'I', 'X', 'Y', 'Z'}
	total := 1
	for i := 0; i < n; i++ {
		total *= 4
	}
	strs := make([]string, 0, total)
	buf := make([]byte, n)
	for k := 0; k < total; k++ {
		v := k
		for q := 0; q < n; q++ {
			buf[q] = letters[v%4]
			v /= 4
		}
		strs = append(strs, string(buf))
	}
	return strs
}

// settingFor picks the measurement setting diagonalizing the Pauli
// string; identity slots reuse the Z-basis data.
func settingFor(pauli string) string {
	b := []byte(pauli)
	for i := range b {
		if b[i] == 'I' {
			b[i] = 'Z'
		}
	}
	return string(b)
}

// pauliEntry returns the (i,j) entry of the tensor product of the
// string's single-qubit Paulis, under the convention that basis index i
// assigns bit (i>>q)&1 to qubit q.
func pauliEntry(pauli string, i, j int) complex128 {
	e := complex128(1)
	for q := 0; q < len(pauli); q++ {
		m := pauliMats[pauli[q]]
		e *= m[(i>>q)&1][(j>>q)&1]
		if e == 0 {
			return 0
		}
	}
	return e
}

// StateFidelity computes <psi|rho|psi> for a pure target state. The
// result is real up to floating-point error; the real part is returned.
func StateFidelity(rho *mat.CDense, psi []complex128) (float64, error) {
	r, c := rho.Dims()
	if r != c {
		return 0, fmt.Errorf("density matrix is %dx%d, want square", r, c)
	}
	if len(psi) != r {
		return 0, fmt.Errorf("state has dimension %d but density matrix is %dx%d", len(psi), r, c)
	}
	f := complex128(0)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			f += cmplx.Conj(psi[i]) * rho.At(i, j) * psi[j]
		}
	}
	return real(f), nil
}

// BellZZFidelity is the quick fidelity estimate used before full
// reconstruction: the mass the ZZ-setting counts place on 00 and 11.
func BellZZFidelity(results map[string]counts.Histogram) (float64, error) {
	h, ok := results["ZZ"]
	if !ok {
		return 0, errors.New("missing ZZ measurement setting")
	}
	if h.Total() == 0 {
		return 0, counts.ErrEmpty
	}
	return h.Prob("00") + h.Prob("11"), nil
}
