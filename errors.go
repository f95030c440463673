package qphase

import "errors"

var (
	// ErrInvalidQubitCount is returned when a register would have fewer than one qubit.
	ErrInvalidQubitCount = errors.New("qubit count must be at least 1")

	// ErrDimensionMismatch is returned when the eigenstate preparation and the
	// unitary act on a different number of qubits.
	ErrDimensionMismatch = errors.New("eigenstate width does not match unitary width")

	// ErrIndexOutOfRange is returned when an operation references a qubit or
	// classical bit outside the declared registers.
	ErrIndexOutOfRange = errors.New("register index out of range")

	// ErrNotUnitary is returned when a circuit holding measurements is used
	// where a unitary is required (control, inverse, eigenstate preparation).
	ErrNotUnitary = errors.New("circuit contains non-unitary operations")

	ErrInvalidShots      = errors.New("shots must be at least 1")
	ErrTooManyQubits     = errors.New("circuit exceeds simulator qubit limit")
	ErrUnknownPreset     = errors.New("unknown preset")
	ErrUnsupportedExport = errors.New("operation cannot be expressed in OpenQASM 2.0")
	ErrEmptyCounts       = errors.New("no measurement outcomes")

	// ErrBackendUnavailable is returned by a Runner whose breaker is open.
	ErrBackendUnavailable = errors.New("backend unavailable")
)
