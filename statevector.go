package qphase

import (
	"math"
	"math/cmplx"
	"sort"
)

type matrix2 [2][2]complex128

var invSqrt2 = complex(1/math.Sqrt2, 0)

func phase(theta float64) complex128 {
	return cmplx.Exp(complex(0, theta))
}

// unitaryFor returns the 2x2 matrix of a single-qubit primitive.
func unitaryFor(kind GateKind, theta float64) (matrix2, bool) {
	switch kind {
	case GateH:
		// H = 1/√2 * [1  1]
		//           [1 -1]
		return matrix2{{invSqrt2, invSqrt2}, {invSqrt2, -invSqrt2}}, true
	case GateX:
		return matrix2{{0, 1}, {1, 0}}, true
	case GateY:
		return matrix2{{0, -1i}, {1i, 0}}, true
	case GateZ:
		return matrix2{{1, 0}, {0, -1}}, true
	case GateS:
		return matrix2{{1, 0}, {0, 1i}}, true
	case GateSdg:
		return matrix2{{1, 0}, {0, -1i}}, true
	case GateT:
		return matrix2{{1, 0}, {0, phase(math.Pi / 4)}}, true
	case GateTdg:
		return matrix2{{1, 0}, {0, phase(-math.Pi / 4)}}, true
	case GateP:
		return matrix2{{1, 0}, {0, phase(theta)}}, true
	}

	return matrix2{}, false
}

/*
StateVector holds the 2^n amplitudes of an n-qubit register. Qubit i is bit i
of the basis index, so basis state 0b110 has qubits 1 and 2 set.
*/
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

// NewStateVector returns |0...0⟩ over n qubits.
func NewStateVector(n int) *StateVector {
	amps := make([]complex128, 1<<n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: n}
}

func (sv *StateVector) Clone() *StateVector {
	amps := make([]complex128, len(sv.Amplitudes))
	copy(amps, sv.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: sv.NumQubits}
}

// Apply runs a unitary instruction. Measurements are ignored here; see Collapse.
func (sv *StateVector) Apply(in Instruction) {
	mask := in.mask()

	if in.Kind == GateSwap {
		sv.swap(in.Targets[0], in.Targets[1], mask)
		return
	}

	if m, ok := unitaryFor(in.Kind, in.Theta); ok {
		sv.apply1(m, in.Targets[0], mask)
	}
}

func (sv *StateVector) apply1(m matrix2, target, mask int) {
	bit := 1 << target

	for i := range sv.Amplitudes {
		if i&bit != 0 || i&mask != mask {
			continue
		}

		j := i | bit
		a0, a1 := sv.Amplitudes[i], sv.Amplitudes[j]
		sv.Amplitudes[i] = m[0][0]*a0 + m[0][1]*a1
		sv.Amplitudes[j] = m[1][0]*a0 + m[1][1]*a1
	}
}

func (sv *StateVector) swap(a, b, mask int) {
	bitA, bitB := 1<<a, 1<<b

	for i := range sv.Amplitudes {
		if i&bitA == 0 || i&bitB != 0 || i&mask != mask {
			continue
		}

		j := (i &^ bitA) | bitB
		sv.Amplitudes[i], sv.Amplitudes[j] = sv.Amplitudes[j], sv.Amplitudes[i]
	}
}

// Probabilities returns |amplitude|² for every basis state.
func (sv *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(sv.Amplitudes))
	for i, amp := range sv.Amplitudes {
		mag := cmplx.Abs(amp)
		probs[i] = mag * mag
	}
	return probs
}

// Collapse measures qubit q using r drawn uniformly from [0, 1) and
// renormalises the surviving branch. It returns the observed bit.
func (sv *StateVector) Collapse(q int, r float64) int {
	bit := 1 << q

	p1 := 0.0
	for i, amp := range sv.Amplitudes {
		if i&bit != 0 {
			mag := cmplx.Abs(amp)
			p1 += mag * mag
		}
	}

	outcome, keep := 0, 1-p1
	if r < p1 {
		outcome, keep = 1, p1
	}

	norm := complex(1/math.Sqrt(keep), 0)
	for i := range sv.Amplitudes {
		if (i&bit != 0) == (outcome == 1) {
			sv.Amplitudes[i] *= norm
		} else {
			sv.Amplitudes[i] = 0
		}
	}

	return outcome
}

/*
sampler draws basis states from a fixed probability distribution using a
cumulative table.
*/
type sampler struct {
	cumulative []float64
}

func newSampler(probs []float64) *sampler {
	cum := make([]float64, len(probs))
	total := 0.0
	for i, p := range probs {
		total += p
		cum[i] = total
	}
	return &sampler{cumulative: cum}
}

// draw maps r in [0, 1) onto a basis state.
func (s *sampler) draw(r float64) int {
	total := s.cumulative[len(s.cumulative)-1]
	target := r * total

	idx := sort.Search(len(s.cumulative), func(i int) bool {
		return s.cumulative[i] > target
	})

	if idx == len(s.cumulative) {
		// Rounding at the top end; fall back to the last state with weight.
		for idx = len(s.cumulative) - 1; idx > 0; idx-- {
			if s.cumulative[idx] > s.cumulative[idx-1] {
				break
			}
		}
	}

	return idx
}
