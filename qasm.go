package qphase

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

/*
QASM exports c as OpenQASM 2.0 against qelib1.inc. Blocks and controlled
operations are flattened first, so the output only uses library gates.
*/
func QASM(c *Circuit) (string, error) {
	prog, err := Transpile(c)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.NumQubits)
	if c.NumClbits > 0 {
		fmt.Fprintf(&sb, "creg c[%d];\n", c.NumClbits)
	}
	sb.WriteString("\n")

	for _, in := range prog.Instructions {
		line, err := qasmLine(in)
		if err != nil {
			return "", err
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func qasmLine(in Instruction) (string, error) {
	q := func(i int) string { return fmt.Sprintf("q[%d]", i) }

	if in.Kind == GateMeasure {
		return fmt.Sprintf("measure %s -> c[%d];", q(in.Targets[0]), in.Clbit), nil
	}

	operands := make([]string, 0, len(in.Controls)+len(in.Targets))
	for _, ctl := range in.Controls {
		operands = append(operands, q(ctl))
	}
	for _, t := range in.Targets {
		operands = append(operands, q(t))
	}
	args := strings.Join(operands, ",")

	name, theta, ok := qasmName(in)
	if !ok {
		return "", fmt.Errorf(
			"%s with %d controls: %w", in.Kind, len(in.Controls), ErrUnsupportedExport,
		)
	}

	if theta != nil {
		return fmt.Sprintf("%s(%s) %s;", name, strconv.FormatFloat(*theta, 'g', -1, 64), args), nil
	}

	return fmt.Sprintf("%s %s;", name, args), nil
}

// qasmName maps a primitive onto a qelib1 gate, returning its angle when the
// gate takes one.
func qasmName(in Instruction) (string, *float64, bool) {
	angle := func(theta float64) *float64 { return &theta }

	// S, T and their adjoints are phase gates with fixed angles.
	phaseOf := map[GateKind]float64{
		GateS: math.Pi / 2, GateSdg: -math.Pi / 2, GateT: math.Pi / 4, GateTdg: -math.Pi / 4,
	}

	switch len(in.Controls) {
	case 0:
		if in.Kind == GateP {
			return "u1", angle(in.Theta), true
		}
		return string(in.Kind), nil, true
	case 1:
		switch in.Kind {
		case GateH:
			return "ch", nil, true
		case GateX:
			return "cx", nil, true
		case GateY:
			return "cy", nil, true
		case GateZ:
			return "cz", nil, true
		case GateSwap:
			return "cswap", nil, true
		case GateP:
			return "cu1", angle(in.Theta), true
		}
		if theta, ok := phaseOf[in.Kind]; ok {
			return "cu1", angle(theta), true
		}
	case 2:
		if in.Kind == GateX {
			return "ccx", nil, true
		}
	}

	return "", nil, false
}
