package qphase

import (
	"fmt"
	"slices"
)

// GateKind names an operation a Circuit can hold.
type GateKind string

const (
	GateH          GateKind = "h"
	GateX          GateKind = "x"
	GateY          GateKind = "y"
	GateZ          GateKind = "z"
	GateS          GateKind = "s"
	GateSdg        GateKind = "sdg"
	GateT          GateKind = "t"
	GateTdg        GateKind = "tdg"
	GateP          GateKind = "p"
	GateCP         GateKind = "cp"
	GateCX         GateKind = "cx"
	GateCZ         GateKind = "cz"
	GateSwap       GateKind = "swap"
	GateMeasure    GateKind = "measure"
	GateControlled GateKind = "controlled"
	GateBlock      GateKind = "block"
)

/*
Operation is a single entry of a Circuit. Primitive gates only use Qubits and
Params. GateControlled and GateBlock carry a private copy of the circuit they
were built from in Sub. For GateControlled the first Controls entries of
Qubits are the control qubits and the remainder map Sub's qubits in order.
*/
type Operation struct {
	Kind     GateKind
	Qubits   []int
	Clbits   []int
	Params   []float64
	Controls int
	Sub      *Circuit
}

/*
Circuit is an ordered list of operations over a fixed number of qubits and
classical bits. Operations are only added through the methods below, which
validate every index against the declared registers.
*/
type Circuit struct {
	Name      string
	NumQubits int
	NumClbits int
	Ops       []Operation
}

// NewCircuit allocates an empty circuit.
func NewCircuit(numQubits, numClbits int) (*Circuit, error) {
	if numQubits < 1 {
		return nil, fmt.Errorf("new circuit with %d qubits: %w", numQubits, ErrInvalidQubitCount)
	}

	if numClbits < 0 {
		return nil, fmt.Errorf("new circuit with %d classical bits: %w", numClbits, ErrIndexOutOfRange)
	}

	return &Circuit{
		NumQubits: numQubits,
		NumClbits: numClbits,
		Ops:       make([]Operation, 0),
	}, nil
}

func (c *Circuit) H(q int) error   { return c.single(GateH, q) }
func (c *Circuit) X(q int) error   { return c.single(GateX, q) }
func (c *Circuit) Y(q int) error   { return c.single(GateY, q) }
func (c *Circuit) Z(q int) error   { return c.single(GateZ, q) }
func (c *Circuit) S(q int) error   { return c.single(GateS, q) }
func (c *Circuit) Sdg(q int) error { return c.single(GateSdg, q) }
func (c *Circuit) T(q int) error   { return c.single(GateT, q) }
func (c *Circuit) Tdg(q int) error { return c.single(GateTdg, q) }

// P applies a phase of theta radians to the |1⟩ component of q.
func (c *Circuit) P(theta float64, q int) error {
	return c.add(Operation{Kind: GateP, Qubits: []int{q}, Params: []float64{theta}})
}

// CP applies a phase of theta radians when both control and target are |1⟩.
func (c *Circuit) CP(theta float64, control, target int) error {
	return c.add(Operation{Kind: GateCP, Qubits: []int{control, target}, Params: []float64{theta}})
}

func (c *Circuit) CX(control, target int) error {
	return c.add(Operation{Kind: GateCX, Qubits: []int{control, target}})
}

func (c *Circuit) CZ(control, target int) error {
	return c.add(Operation{Kind: GateCZ, Qubits: []int{control, target}})
}

func (c *Circuit) Swap(a, b int) error {
	return c.add(Operation{Kind: GateSwap, Qubits: []int{a, b}})
}

// Measure records qubit q into classical bit clbit.
func (c *Circuit) Measure(q, clbit int) error {
	return c.add(Operation{Kind: GateMeasure, Qubits: []int{q}, Clbits: []int{clbit}})
}

func (c *Circuit) single(kind GateKind, q int) error {
	return c.add(Operation{Kind: kind, Qubits: []int{q}})
}

func (c *Circuit) add(op Operation) error {
	if err := c.validate(op.Qubits, op.Clbits); err != nil {
		return fmt.Errorf("%s: %w", op.Kind, err)
	}

	c.Ops = append(c.Ops, op)
	return nil
}

func (c *Circuit) validate(qubits, clbits []int) error {
	for i, q := range qubits {
		if q < 0 || q >= c.NumQubits {
			return fmt.Errorf("qubit %d of %d: %w", q, c.NumQubits, ErrIndexOutOfRange)
		}

		if slices.Contains(qubits[:i], q) {
			return fmt.Errorf("qubit %d used twice: %w", q, ErrIndexOutOfRange)
		}
	}

	for _, b := range clbits {
		if b < 0 || b >= c.NumClbits {
			return fmt.Errorf("classical bit %d of %d: %w", b, c.NumClbits, ErrIndexOutOfRange)
		}
	}

	return nil
}

/*
Gate is a reusable operation built from a circuit, optionally with extra
control qubits. It is obtained from Circuit.Control and placed with
Circuit.AppendGate as many times as needed.
*/
type Gate struct {
	Controls int
	Body     *Circuit
}

// NumQubits is the number of qubits the gate occupies when appended.
func (g *Gate) NumQubits() int {
	return g.Controls + g.Body.NumQubits
}

// Control returns a copy of c as a gate with n additional control qubits.
func (c *Circuit) Control(n int) (*Gate, error) {
	if n < 1 {
		return nil, fmt.Errorf("control with %d qubits: %w", n, ErrInvalidQubitCount)
	}

	if c.HasMeasurements() {
		return nil, fmt.Errorf("control %q: %w", c.Name, ErrNotUnitary)
	}

	return &Gate{Controls: n, Body: c.Clone()}, nil
}

// AppendGate places g on qubits, controls first.
func (c *Circuit) AppendGate(g *Gate, qubits []int) error {
	if g == nil || g.Body == nil || g.Controls < 1 {
		return fmt.Errorf("append gate without controls: %w", ErrNotUnitary)
	}

	if g.Body.NumClbits != 0 || g.Body.HasMeasurements() {
		return fmt.Errorf("append gate %q: %w", g.Body.Name, ErrNotUnitary)
	}

	if len(qubits) != g.NumQubits() {
		return fmt.Errorf(
			"gate spans %d qubits, got %d: %w", g.NumQubits(), len(qubits), ErrDimensionMismatch,
		)
	}

	return c.add(Operation{
		Kind:     GateControlled,
		Qubits:   slices.Clone(qubits),
		Controls: g.Controls,
		Sub:      g.Body.Clone(),
	})
}

// Append places a copy of sub as a single block operation.
func (c *Circuit) Append(sub *Circuit, qubits, clbits []int) error {
	if err := sub.fits(qubits, clbits); err != nil {
		return err
	}

	return c.add(Operation{
		Kind:   GateBlock,
		Qubits: slices.Clone(qubits),
		Clbits: slices.Clone(clbits),
		Sub:    sub.Clone(),
	})
}

// Compose copies the operations of sub into c, remapped onto qubits and clbits.
func (c *Circuit) Compose(sub *Circuit, qubits, clbits []int) error {
	if err := sub.fits(qubits, clbits); err != nil {
		return err
	}

	if err := c.validate(qubits, clbits); err != nil {
		return fmt.Errorf("compose %q: %w", sub.Name, err)
	}

	for _, op := range sub.Ops {
		mapped := op.clone()
		for i, q := range op.Qubits {
			mapped.Qubits[i] = qubits[q]
		}
		for i, b := range op.Clbits {
			mapped.Clbits[i] = clbits[b]
		}
		c.Ops = append(c.Ops, mapped)
	}

	return nil
}

func (c *Circuit) fits(qubits, clbits []int) error {
	if len(qubits) != c.NumQubits || len(clbits) != c.NumClbits {
		return fmt.Errorf(
			"%q needs %d qubits and %d clbits, got %d and %d: %w",
			c.Name, c.NumQubits, c.NumClbits, len(qubits), len(clbits), ErrDimensionMismatch,
		)
	}

	return nil
}

// Inverse returns the adjoint of c.
func (c *Circuit) Inverse() (*Circuit, error) {
	if c.HasMeasurements() {
		return nil, fmt.Errorf("inverse of %q: %w", c.Name, ErrNotUnitary)
	}

	inv := &Circuit{
		Name:      c.Name + "_dg",
		NumQubits: c.NumQubits,
		NumClbits: c.NumClbits,
		Ops:       make([]Operation, 0, len(c.Ops)),
	}

	for i := len(c.Ops) - 1; i >= 0; i-- {
		op := c.Ops[i].clone()

		switch op.Kind {
		case GateS:
			op.Kind = GateSdg
		case GateSdg:
			op.Kind = GateS
		case GateT:
			op.Kind = GateTdg
		case GateTdg:
			op.Kind = GateT
		case GateP, GateCP:
			op.Params[0] = -op.Params[0]
		case GateControlled, GateBlock:
			sub, err := op.Sub.Inverse()
			if err != nil {
				return nil, err
			}
			op.Sub = sub
		}

		inv.Ops = append(inv.Ops, op)
	}

	return inv, nil
}

// HasMeasurements reports whether c or any nested block measures a qubit.
func (c *Circuit) HasMeasurements() bool {
	for _, op := range c.Ops {
		if op.Kind == GateMeasure {
			return true
		}
		if op.Sub != nil && op.Sub.HasMeasurements() {
			return true
		}
	}

	return false
}

// Count returns how many top-level operations have the given kind.
func (c *Circuit) Count(kind GateKind) int {
	n := 0
	for _, op := range c.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// CountOps tallies the top-level operations by kind.
func (c *Circuit) CountOps() map[GateKind]int {
	out := make(map[GateKind]int)
	for _, op := range c.Ops {
		out[op.Kind]++
	}
	return out
}

/*
Decompose returns a copy of c with every block operation replaced by the
operations it holds, recursively. Controlled operations are kept as they are.
*/
func (c *Circuit) Decompose() *Circuit {
	out := &Circuit{
		Name:      c.Name,
		NumQubits: c.NumQubits,
		NumClbits: c.NumClbits,
		Ops:       make([]Operation, 0, len(c.Ops)),
	}

	for _, op := range c.Ops {
		if op.Kind != GateBlock {
			out.Ops = append(out.Ops, op.clone())
			continue
		}

		for _, inner := range op.Sub.Decompose().Ops {
			mapped := inner.clone()
			for i, q := range inner.Qubits {
				mapped.Qubits[i] = op.Qubits[q]
			}
			for i, b := range inner.Clbits {
				mapped.Clbits[i] = op.Clbits[b]
			}
			out.Ops = append(out.Ops, mapped)
		}
	}

	return out
}

// Clone returns a deep copy of c.
func (c *Circuit) Clone() *Circuit {
	out := &Circuit{
		Name:      c.Name,
		NumQubits: c.NumQubits,
		NumClbits: c.NumClbits,
		Ops:       make([]Operation, len(c.Ops)),
	}

	for i, op := range c.Ops {
		out.Ops[i] = op.clone()
	}

	return out
}

func (op Operation) clone() Operation {
	out := op
	out.Qubits = slices.Clone(op.Qubits)
	out.Clbits = slices.Clone(op.Clbits)
	out.Params = slices.Clone(op.Params)
	if op.Sub != nil {
		out.Sub = op.Sub.Clone()
	}
	return out
}
