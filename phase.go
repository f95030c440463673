package qphase

import (
	"fmt"

	"github.com/theapemachine/errnie"
)

/*
PhaseEstimation assembles the phase estimation circuit for unitary with the
given eigenstate preparation and number of ancilla qubits.

Ancillae occupy qubits 0..ancillae-1 and the unitary's register follows them.
Ancilla i controls 2^i sequential copies of the unitary, the inverse QFT block
is applied over the ancillae, and ancilla i is measured into classical bit i.
Reading the measured integer as a fraction of 2^ancillae estimates the
eigenphase. Whether eigenstate really is an eigenstate is not checked.
*/
func PhaseEstimation(unitary, eigenstate *Circuit, ancillae int) (*Circuit, error) {
	if ancillae < 1 {
		return nil, fmt.Errorf("phase estimation with %d ancillae: %w", ancillae, ErrInvalidQubitCount)
	}

	if unitary == nil || unitary.NumQubits < 1 {
		return nil, fmt.Errorf("phase estimation unitary: %w", ErrInvalidQubitCount)
	}

	if eigenstate == nil || eigenstate.NumQubits != unitary.NumQubits {
		width := 0
		if eigenstate != nil {
			width = eigenstate.NumQubits
		}
		return nil, fmt.Errorf(
			"eigenstate has %d qubits, unitary has %d: %w",
			width, unitary.NumQubits, ErrDimensionMismatch,
		)
	}

	if eigenstate.NumClbits != 0 || eigenstate.HasMeasurements() {
		return nil, fmt.Errorf("eigenstate preparation %q: %w", eigenstate.Name, ErrNotUnitary)
	}

	width := unitary.NumQubits

	qpe, err := NewCircuit(ancillae+width, ancillae)
	if err != nil {
		return nil, err
	}
	qpe.Name = "qpe"

	for q := 0; q < ancillae; q++ {
		if err := qpe.H(q); err != nil {
			return nil, err
		}
	}

	targets := make([]int, width)
	for i := range targets {
		targets[i] = ancillae + i
	}

	if err := qpe.Compose(eigenstate, targets, nil); err != nil {
		return nil, err
	}

	controlled, err := unitary.Control(1)
	if err != nil {
		return nil, err
	}

	for i := 0; i < ancillae; i++ {
		wires := append([]int{i}, targets...)

		for rep := 0; rep < 1<<i; rep++ {
			if err := qpe.AppendGate(controlled, wires); err != nil {
				return nil, err
			}
		}
	}

	iqft, err := InverseQFT(ancillae)
	if err != nil {
		return nil, err
	}

	counting := make([]int, ancillae)
	for q := range counting {
		counting[q] = q
	}

	if err := qpe.Append(iqft, counting, nil); err != nil {
		return nil, err
	}

	for q := 0; q < ancillae; q++ {
		if err := qpe.Measure(q, q); err != nil {
			return nil, err
		}
	}

	errnie.Debug(
		"PhaseEstimation - ancillae %d, unitary qubits %d, operations %d",
		ancillae, width, len(qpe.Ops),
	)

	return qpe, nil
}
