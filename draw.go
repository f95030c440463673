package qphase

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

type cellKind int

const (
	cellWire cellKind = iota
	cellLabel
	cellCross
)

type cell struct {
	kind  cellKind
	label string
}

/*
Draw renders c as a text diagram: one row per qubit followed by one row per
classical bit, and one column per top-level operation.
*/
func Draw(c *Circuit) string {
	rows := c.NumQubits + c.NumClbits
	columns := make([][]cell, 0, len(c.Ops))

	for _, op := range c.Ops {
		columns = append(columns, c.column(op, rows))
	}

	names := make([]string, rows)
	nameWidth := 0
	for r := range names {
		if r < c.NumQubits {
			names[r] = fmt.Sprintf("q_%d: ", r)
		} else {
			names[r] = fmt.Sprintf("c_%d: ", r-c.NumQubits)
		}
		nameWidth = max(nameWidth, len(names[r]))
	}

	lines := make([]strings.Builder, rows)
	for r := range lines {
		lines[r].WriteString(strings.Repeat(" ", nameWidth-len(names[r])))
		lines[r].WriteString(names[r])
	}

	for _, col := range columns {
		width := 1
		for _, cl := range col {
			width = max(width, utf8.RuneCountInString(cl.label))
		}
		width += 2

		for r, cl := range col {
			lines[r].WriteString(renderCell(cl, width, r >= c.NumQubits))
		}
	}

	var sb strings.Builder
	for r := range lines {
		if r < c.NumQubits {
			lines[r].WriteString("─")
		} else {
			lines[r].WriteString("═")
		}
		sb.WriteString(lines[r].String())
		sb.WriteString("\n")
	}

	return sb.String()
}

func (c *Circuit) column(op Operation, rows int) []cell {
	col := make([]cell, rows)
	mark := func(row int, label string) {
		col[row] = cell{kind: cellLabel, label: label}
	}

	switch op.Kind {
	case GateP:
		mark(op.Qubits[0], fmt.Sprintf("[P(%s)]", formatAngle(op.Params[0])))
	case GateCP:
		mark(op.Qubits[0], "■")
		mark(op.Qubits[1], fmt.Sprintf("[P(%s)]", formatAngle(op.Params[0])))
	case GateCX:
		mark(op.Qubits[0], "■")
		mark(op.Qubits[1], "[X]")
	case GateCZ:
		mark(op.Qubits[0], "■")
		mark(op.Qubits[1], "■")
	case GateSwap:
		mark(op.Qubits[0], "x")
		mark(op.Qubits[1], "x")
	case GateMeasure:
		mark(op.Qubits[0], "[M]")
		mark(c.NumQubits+op.Clbits[0], fmt.Sprintf("╩%d", op.Clbits[0]))
	case GateControlled:
		label := fmt.Sprintf("[%s]", blockName(op.Sub, "U"))
		for i, q := range op.Qubits {
			if i < op.Controls {
				mark(q, "■")
			} else {
				mark(q, label)
			}
		}
	case GateBlock:
		label := fmt.Sprintf("[%s]", blockName(op.Sub, "block"))
		for _, q := range op.Qubits {
			mark(q, label)
		}
		for _, b := range op.Clbits {
			mark(c.NumQubits+b, label)
		}
	default:
		mark(op.Qubits[0], fmt.Sprintf("[%s]", strings.ToUpper(string(op.Kind))))
	}

	// Link the marked rows with a vertical crossing.
	first, last := -1, -1
	for r, cl := range col {
		if cl.kind == cellLabel {
			if first < 0 {
				first = r
			}
			last = r
		}
	}
	for r := first + 1; r < last; r++ {
		if col[r].kind == cellWire {
			col[r] = cell{kind: cellCross}
		}
	}

	return col
}

func renderCell(cl cell, width int, classical bool) string {
	fill, cross := "─", "┼"
	if classical {
		fill, cross = "═", "╪"
	}

	switch cl.kind {
	case cellLabel:
		pad := width - utf8.RuneCountInString(cl.label)
		left := pad / 2
		return strings.Repeat(fill, left) + cl.label + strings.Repeat(fill, pad-left)
	case cellCross:
		left := (width - 1) / 2
		return strings.Repeat(fill, left) + cross + strings.Repeat(fill, width-1-left)
	}

	return strings.Repeat(fill, width)
}

func blockName(c *Circuit, fallback string) string {
	if c == nil || c.Name == "" {
		return fallback
	}
	return c.Name
}

// formatAngle prints theta as a simple multiple of π when it is one.
func formatAngle(theta float64) string {
	if theta == 0 {
		return "0"
	}

	ratio := theta / math.Pi
	for den := 1.0; den <= 1024; den *= 2 {
		num := ratio * den
		if math.Abs(num-math.Round(num)) > 1e-9 {
			continue
		}

		n := int(math.Round(num))
		sign := ""
		if n < 0 {
			sign, n = "-", -n
		}

		numerator := "π"
		if n != 1 {
			numerator = fmt.Sprintf("%dπ", n)
		}

		if den == 1 {
			return sign + numerator
		}
		return fmt.Sprintf("%s%s/%d", sign, numerator, int(den))
	}

	return fmt.Sprintf("%.4g", theta)
}
