package qphase

import (
	"fmt"
	"math"
)

type qftOptions struct {
	swaps bool
}

// QFTOption tunes the Fourier transform builders.
type QFTOption func(*qftOptions)

// WithoutSwaps drops the bit-reversal swap network.
func WithoutSwaps() QFTOption {
	return func(o *qftOptions) {
		o.swaps = false
	}
}

/*
InverseQFT builds the inverse quantum Fourier transform over n qubits. The
swap network reversing qubit order comes first, then every qubit i collects
controlled phases of -π/2^(i-j) from each earlier qubit j before its Hadamard.
No measurement is appended.
*/
func InverseQFT(n int, opts ...QFTOption) (*Circuit, error) {
	if n < 1 {
		return nil, fmt.Errorf("inverse qft over %d qubits: %w", n, ErrInvalidQubitCount)
	}

	o := qftOptions{swaps: true}
	for _, opt := range opts {
		opt(&o)
	}

	qc, err := NewCircuit(n, 0)
	if err != nil {
		return nil, err
	}
	qc.Name = "iqft"

	if o.swaps {
		for i := 0; i < n/2; i++ {
			if err := qc.Swap(i, n-1-i); err != nil {
				return nil, err
			}
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			if err := qc.CP(-math.Pi/math.Pow(2, float64(i-j)), j, i); err != nil {
				return nil, err
			}
		}

		if err := qc.H(i); err != nil {
			return nil, err
		}
	}

	return qc, nil
}

// QFT builds the forward transform as the adjoint of InverseQFT.
func QFT(n int, opts ...QFTOption) (*Circuit, error) {
	iqft, err := InverseQFT(n, opts...)
	if err != nil {
		return nil, err
	}

	qc, err := iqft.Inverse()
	if err != nil {
		return nil, err
	}
	qc.Name = "qft"

	return qc, nil
}
