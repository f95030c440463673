package qphase

import (
	"context"
	"errors"
	"strconv"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPhaseEstimation(t *testing.T) {
	Convey("Given the xz unitary and its eigenstate preparation", t, func() {
		unitary, eigenstate, err := Preset("xz")
		So(err, ShouldBeNil)

		for _, m := range []int{1, 2, 3, 5} {
			qpe, err := PhaseEstimation(unitary, eigenstate, m)
			So(err, ShouldBeNil)

			Convey("Registers should hold ancillae plus targets for m="+strconv.Itoa(m), func() {
				So(qpe.NumQubits, ShouldEqual, m+1)
				So(qpe.NumClbits, ShouldEqual, m)
			})

			Convey("Every ancilla should be measured into its own bit for m="+strconv.Itoa(m), func() {
				seen := map[int]bool{}
				for _, op := range qpe.Ops {
					if op.Kind != GateMeasure {
						continue
					}
					So(op.Qubits[0], ShouldEqual, op.Clbits[0])
					So(op.Qubits[0], ShouldBeLessThan, m)
					seen[op.Clbits[0]] = true
				}
				So(qpe.Count(GateMeasure), ShouldEqual, m)
				So(seen, ShouldHaveLength, m)
			})

			Convey("Ancilla Hadamards should precede the controlled ladder for m="+strconv.Itoa(m), func() {
				hadamards := 0
				for _, op := range qpe.Ops {
					if op.Kind == GateControlled {
						break
					}
					if op.Kind == GateH && op.Qubits[0] < m {
						hadamards++
					}
				}
				So(hadamards, ShouldEqual, m)
			})

			Convey("The ladder should hold 2^m - 1 controlled unitaries for m="+strconv.Itoa(m), func() {
				So(qpe.Count(GateControlled), ShouldEqual, 1<<m-1)

				perControl := map[int]int{}
				for _, op := range qpe.Ops {
					if op.Kind == GateControlled {
						perControl[op.Qubits[0]]++
						So(op.Qubits[1:], ShouldResemble, []int{m})
					}
				}
				for i := 0; i < m; i++ {
					So(perControl[i], ShouldEqual, 1<<i)
				}
			})

			Convey("A single inverse QFT block should cover the ancillae for m="+strconv.Itoa(m), func() {
				So(qpe.Count(GateBlock), ShouldEqual, 1)
				for _, op := range qpe.Ops {
					if op.Kind == GateBlock {
						So(op.Sub.Name, ShouldEqual, "iqft")
						So(op.Qubits, ShouldHaveLength, m)
						So(op.Sub.Count(GateSwap), ShouldEqual, m/2)
					}
				}
			})
		}

		Convey("Building twice should give identical circuits", func() {
			a, err := PhaseEstimation(unitary, eigenstate, 4)
			So(err, ShouldBeNil)
			b, err := PhaseEstimation(unitary, eigenstate, 4)
			So(err, ShouldBeNil)
			So(a, ShouldResemble, b)
			So(a, ShouldNotPointTo, b)
		})

		Convey("The inputs should not be modified", func() {
			before := unitary.Clone()
			_, err := PhaseEstimation(unitary, eigenstate, 3)
			So(err, ShouldBeNil)
			So(unitary, ShouldResemble, before)
		})
	})

	Convey("Given invalid inputs", t, func() {
		unitary, eigenstate, _ := Preset("z")

		Convey("Zero ancillae should be rejected", func() {
			_, err := PhaseEstimation(unitary, eigenstate, 0)
			So(errors.Is(err, ErrInvalidQubitCount), ShouldBeTrue)
		})

		Convey("A missing unitary should be rejected", func() {
			_, err := PhaseEstimation(nil, eigenstate, 2)
			So(errors.Is(err, ErrInvalidQubitCount), ShouldBeTrue)
		})

		Convey("A wider eigenstate should be rejected", func() {
			wide, _ := NewCircuit(2, 0)
			_, err := PhaseEstimation(unitary, wide, 2)
			So(errors.Is(err, ErrDimensionMismatch), ShouldBeTrue)
		})

		Convey("A measured unitary should be rejected", func() {
			measured, _ := NewCircuit(1, 1)
			So(measured.Measure(0, 0), ShouldBeNil)
			_, err := PhaseEstimation(measured, eigenstate, 2)
			So(errors.Is(err, ErrNotUnitary), ShouldBeTrue)
		})
	})
}

func TestPhaseEstimationWideUnitary(t *testing.T) {
	Convey("Given a two-qubit unitary S⊗T with eigenstate |11⟩", t, func() {
		unitary, _ := NewCircuit(2, 0)
		So(unitary.S(0), ShouldBeNil)
		So(unitary.T(1), ShouldBeNil)

		eigenstate, _ := NewCircuit(2, 0)
		So(eigenstate.X(0), ShouldBeNil)
		So(eigenstate.X(1), ShouldBeNil)

		for _, m := range []int{1, 2, 3} {
			qpe, err := PhaseEstimation(unitary, eigenstate, m)
			So(err, ShouldBeNil)

			Convey("Both target qubits should follow the ancillae for m="+strconv.Itoa(m), func() {
				So(qpe.NumQubits, ShouldEqual, m+2)
				So(qpe.NumClbits, ShouldEqual, m)
			})

			Convey("The preparation should land on the target range for m="+strconv.Itoa(m), func() {
				prepared := []int{}
				for _, op := range qpe.Ops {
					if op.Kind == GateX {
						prepared = append(prepared, op.Qubits[0])
					}
				}
				So(prepared, ShouldResemble, []int{m, m + 1})
			})

			Convey("Each controlled copy should span its ancilla and both targets for m="+strconv.Itoa(m), func() {
				perControl := map[int]int{}
				for _, op := range qpe.Ops {
					if op.Kind != GateControlled {
						continue
					}
					So(op.Controls, ShouldEqual, 1)
					So(op.Qubits[1:], ShouldResemble, []int{m, m + 1})
					So(op.Sub.NumQubits, ShouldEqual, 2)
					perControl[op.Qubits[0]]++
				}
				for i := 0; i < m; i++ {
					So(perControl[i], ShouldEqual, 1<<i)
				}
			})
		}

		Convey("Three ancillae should read the phase 3/8 exactly", func() {
			qpe, err := PhaseEstimation(unitary, eigenstate, 3)
			So(err, ShouldBeNil)

			counts, err := seededSimulator(5).Run(context.Background(), qpe, 256)
			So(err, ShouldBeNil)
			So(counts, ShouldResemble, Counts{"011": 256})
		})
	})
}
