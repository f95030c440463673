package qphase

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given a metrics collector", t, func() {
		m := NewMetrics()

		Convey("Successful runs should update totals and latency", func() {
			m.recordRun(time.Now().Add(-10*time.Millisecond), 100, 4, nil)
			m.recordRun(time.Now().Add(-20*time.Millisecond), 50, 2, nil)

			So(m.RunCount, ShouldEqual, 2)
			So(m.FailedRuns, ShouldEqual, 0)
			So(m.TotalShots, ShouldEqual, 150)
			So(m.MaxQubits, ShouldEqual, 4)
			So(m.AverageRunLatency, ShouldBeGreaterThanOrEqualTo, 15*time.Millisecond)
			So(m.P95RunLatency, ShouldBeGreaterThanOrEqualTo, 20*time.Millisecond)
		})

		Convey("Failed runs should only be counted", func() {
			m.recordRun(time.Now(), 100, 8, errors.New("boom"))

			So(m.RunCount, ShouldEqual, 1)
			So(m.FailedRuns, ShouldEqual, 1)
			So(m.TotalShots, ShouldEqual, 0)
			So(m.MaxQubits, ShouldEqual, 0)
		})

		Convey("The latency window should stay bounded", func() {
			for i := 0; i < 300; i++ {
				m.recordRun(time.Now(), 1, 1, nil)
			}
			So(len(m.latencies), ShouldEqual, 256)
		})

		Convey("Exported metrics should mirror the counters", func() {
			m.recordRun(time.Now(), 10, 3, nil)
			exported := m.ExportMetrics()
			So(exported["runs"], ShouldEqual, int64(1))
			So(exported["total_shots"], ShouldEqual, int64(10))
			So(exported["max_qubits"], ShouldEqual, 3)
		})
	})
}
