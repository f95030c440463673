package qphase

import (
	"fmt"
	"slices"
)

// Instruction is a primitive produced by Transpile. Kind is a single-qubit
// gate, GateSwap or GateMeasure; Controls lists the qubits that must all be
// |1⟩ for the gate to act.
type Instruction struct {
	Kind     GateKind
	Targets  []int
	Controls []int
	Theta    float64
	Clbit    int
}

// mask returns the control qubits as a basis-index bit mask.
func (in Instruction) mask() int {
	m := 0
	for _, q := range in.Controls {
		m |= 1 << q
	}
	return m
}

/*
Program is a circuit flattened into primitives. TerminalMeasurement is true
when no instruction touches a qubit after it has been measured, which lets the
simulator evolve the state once and sample from it.
*/
type Program struct {
	NumQubits           int
	NumClbits           int
	Instructions        []Instruction
	TerminalMeasurement bool
}

// Transpile flattens blocks and controlled operations of c into a Program.
func Transpile(c *Circuit) (*Program, error) {
	prog := &Program{
		NumQubits:    c.NumQubits,
		NumClbits:    c.NumClbits,
		Instructions: make([]Instruction, 0, len(c.Ops)),
	}

	qubits := make([]int, c.NumQubits)
	for i := range qubits {
		qubits[i] = i
	}

	clbits := make([]int, c.NumClbits)
	for i := range clbits {
		clbits[i] = i
	}

	if err := prog.emit(c, qubits, clbits, nil); err != nil {
		return nil, err
	}

	prog.TerminalMeasurement = prog.terminal()

	return prog, nil
}

func (p *Program) emit(c *Circuit, qubits, clbits, controls []int) error {
	for _, op := range c.Ops {
		q := func(i int) int { return qubits[op.Qubits[i]] }

		switch op.Kind {
		case GateH, GateX, GateY, GateZ, GateS, GateSdg, GateT, GateTdg:
			p.push(op.Kind, []int{q(0)}, controls, 0)
		case GateP:
			p.push(GateP, []int{q(0)}, controls, op.Params[0])
		case GateCP:
			p.push(GateP, []int{q(1)}, append(slices.Clone(controls), q(0)), op.Params[0])
		case GateCX:
			p.push(GateX, []int{q(1)}, append(slices.Clone(controls), q(0)), 0)
		case GateCZ:
			p.push(GateZ, []int{q(1)}, append(slices.Clone(controls), q(0)), 0)
		case GateSwap:
			p.push(GateSwap, []int{q(0), q(1)}, controls, 0)
		case GateMeasure:
			if len(controls) > 0 {
				return fmt.Errorf("controlled measurement: %w", ErrNotUnitary)
			}
			p.Instructions = append(p.Instructions, Instruction{
				Kind:    GateMeasure,
				Targets: []int{q(0)},
				Clbit:   clbits[op.Clbits[0]],
			})
		case GateControlled:
			inner := slices.Clone(controls)
			for i := 0; i < op.Controls; i++ {
				inner = append(inner, q(i))
			}

			mapped := make([]int, 0, len(op.Qubits)-op.Controls)
			for i := op.Controls; i < len(op.Qubits); i++ {
				mapped = append(mapped, q(i))
			}

			if err := p.emit(op.Sub, mapped, nil, inner); err != nil {
				return err
			}
		case GateBlock:
			mapped := make([]int, len(op.Qubits))
			for i := range op.Qubits {
				mapped[i] = q(i)
			}

			mappedClbits := make([]int, len(op.Clbits))
			for i, b := range op.Clbits {
				mappedClbits[i] = clbits[b]
			}

			if err := p.emit(op.Sub, mapped, mappedClbits, controls); err != nil {
				return err
			}
		default:
			return fmt.Errorf("transpile %q: unknown operation %s", c.Name, op.Kind)
		}
	}

	return nil
}

func (p *Program) push(kind GateKind, targets, controls []int, theta float64) {
	p.Instructions = append(p.Instructions, Instruction{
		Kind:     kind,
		Targets:  targets,
		Controls: slices.Clone(controls),
		Theta:    theta,
	})
}

func (p *Program) terminal() bool {
	measured := make(map[int]bool)

	for _, in := range p.Instructions {
		if in.Kind == GateMeasure {
			if measured[in.Targets[0]] {
				return false
			}
			measured[in.Targets[0]] = true
			continue
		}

		for _, q := range in.Targets {
			if measured[q] {
				return false
			}
		}

		for _, q := range in.Controls {
			if measured[q] {
				return false
			}
		}
	}

	return true
}
