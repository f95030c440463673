package qphase

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCircuit(t *testing.T) {
	Convey("Given a new circuit", t, func() {
		qc, err := NewCircuit(3, 2)
		So(err, ShouldBeNil)

		Convey("It should reject indices outside its registers", func() {
			So(errors.Is(qc.H(3), ErrIndexOutOfRange), ShouldBeTrue)
			So(errors.Is(qc.CX(0, -1), ErrIndexOutOfRange), ShouldBeTrue)
			So(errors.Is(qc.Measure(0, 2), ErrIndexOutOfRange), ShouldBeTrue)
			So(errors.Is(qc.Swap(1, 1), ErrIndexOutOfRange), ShouldBeTrue)
			So(qc.Ops, ShouldBeEmpty)
		})

		Convey("It should keep operations in the order they were added", func() {
			So(qc.H(0), ShouldBeNil)
			So(qc.CP(math.Pi/2, 0, 1), ShouldBeNil)
			So(qc.Measure(2, 1), ShouldBeNil)

			So(qc.Ops, ShouldHaveLength, 3)
			So(qc.Ops[0].Kind, ShouldEqual, GateH)
			So(qc.Ops[1].Qubits, ShouldResemble, []int{0, 1})
			So(qc.Ops[1].Params, ShouldResemble, []float64{math.Pi / 2})
			So(qc.Ops[2].Clbits, ShouldResemble, []int{1})
			So(qc.HasMeasurements(), ShouldBeTrue)
		})
	})

	Convey("Given invalid register sizes", t, func() {
		_, err := NewCircuit(0, 0)
		So(errors.Is(err, ErrInvalidQubitCount), ShouldBeTrue)

		_, err = NewCircuit(1, -1)
		So(errors.Is(err, ErrIndexOutOfRange), ShouldBeTrue)
	})
}

func TestCompose(t *testing.T) {
	Convey("Given a two qubit sub-circuit", t, func() {
		sub, _ := NewCircuit(2, 0)
		So(sub.H(0), ShouldBeNil)
		So(sub.CX(0, 1), ShouldBeNil)

		host, _ := NewCircuit(4, 0)

		Convey("Compose should remap its operations onto the target qubits", func() {
			So(host.Compose(sub, []int{3, 1}, nil), ShouldBeNil)
			So(host.Ops, ShouldHaveLength, 2)
			So(host.Ops[0].Qubits, ShouldResemble, []int{3})
			So(host.Ops[1].Qubits, ShouldResemble, []int{3, 1})

			Convey("And later changes to the source should not leak in", func() {
				sub.Ops[1].Qubits[0] = 1
				So(sub.X(1), ShouldBeNil)
				So(host.Ops, ShouldHaveLength, 2)
				So(host.Ops[1].Qubits, ShouldResemble, []int{3, 1})
			})
		})

		Convey("Compose should reject a wrong number of qubits", func() {
			err := host.Compose(sub, []int{0}, nil)
			So(errors.Is(err, ErrDimensionMismatch), ShouldBeTrue)
		})

		Convey("Append should add one block holding a copy", func() {
			So(host.Append(sub, []int{0, 2}, nil), ShouldBeNil)
			So(host.Ops, ShouldHaveLength, 1)
			So(host.Ops[0].Kind, ShouldEqual, GateBlock)
			So(host.Ops[0].Sub, ShouldNotPointTo, sub)
			So(host.Ops[0].Sub, ShouldResemble, sub)

			Convey("Decompose should inline the block", func() {
				flat := host.Decompose()
				So(flat.Ops, ShouldHaveLength, 2)
				So(flat.Ops[1].Kind, ShouldEqual, GateCX)
				So(flat.Ops[1].Qubits, ShouldResemble, []int{0, 2})
			})
		})
	})
}

func TestControlAndInverse(t *testing.T) {
	Convey("Given a unitary circuit", t, func() {
		u, _ := NewCircuit(1, 0)
		So(u.S(0), ShouldBeNil)
		So(u.P(0.3, 0), ShouldBeNil)

		Convey("Control should produce a gate one qubit wider", func() {
			g, err := u.Control(1)
			So(err, ShouldBeNil)
			So(g.NumQubits(), ShouldEqual, 2)

			host, _ := NewCircuit(2, 0)
			So(errors.Is(host.AppendGate(g, []int{0}), ErrDimensionMismatch), ShouldBeTrue)
			So(host.AppendGate(g, []int{1, 0}), ShouldBeNil)
			So(host.Ops[0].Kind, ShouldEqual, GateControlled)
			So(host.Ops[0].Controls, ShouldEqual, 1)
		})

		Convey("Inverse should reverse order and negate phases", func() {
			inv, err := u.Inverse()
			So(err, ShouldBeNil)
			So(inv.Ops[0].Kind, ShouldEqual, GateP)
			So(inv.Ops[0].Params[0], ShouldEqual, -0.3)
			So(inv.Ops[1].Kind, ShouldEqual, GateSdg)
		})

		Convey("A measured circuit cannot be controlled or inverted", func() {
			m, _ := NewCircuit(1, 1)
			So(m.Measure(0, 0), ShouldBeNil)

			_, err := m.Control(1)
			So(errors.Is(err, ErrNotUnitary), ShouldBeTrue)

			_, err = m.Inverse()
			So(errors.Is(err, ErrNotUnitary), ShouldBeTrue)
		})
	})
}

func TestAppendGateGuards(t *testing.T) {
	Convey("Given hand-built gates", t, func() {
		host, _ := NewCircuit(2, 1)

		Convey("A gate without controls should be refused", func() {
			body, _ := NewCircuit(1, 0)
			So(body.X(0), ShouldBeNil)

			err := host.AppendGate(&Gate{Body: body}, []int{0})
			So(errors.Is(err, ErrNotUnitary), ShouldBeTrue)
			So(host.Ops, ShouldBeEmpty)
		})

		Convey("A gate whose body measures should be refused", func() {
			body, _ := NewCircuit(1, 1)
			So(body.Measure(0, 0), ShouldBeNil)

			err := host.AppendGate(&Gate{Controls: 1, Body: body}, []int{0, 1})
			So(errors.Is(err, ErrNotUnitary), ShouldBeTrue)
		})

		Convey("A gate with no body should be refused", func() {
			err := host.AppendGate(&Gate{Controls: 1}, []int{0, 1})
			So(errors.Is(err, ErrNotUnitary), ShouldBeTrue)
		})
	})
}
