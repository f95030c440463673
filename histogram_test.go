package qphase

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestHistogram(t *testing.T) {
	Convey("Given a skewed set of counts", t, func() {
		counts := Counts{"0": 1, "1": 3}
		buf := &bytes.Buffer{}

		Convey("Bars should scale to the most frequent outcome", func() {
			err := Histogram(buf, counts, HistogramOptions{Width: 6, Title: "Outcomes"})
			So(err, ShouldBeNil)
			So(buf.String(), ShouldEqual, "Outcomes\n"+
				"0 │██ 1 (25.0%)\n"+
				"1 │██████ 3 (75.0%)\n")
		})

		Convey("WriteHistogram should save the same text", func() {
			path := filepath.Join(t.TempDir(), "hist.txt")
			So(WriteHistogram(path, counts, "Outcomes"), ShouldBeNil)

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldStartWith, "Outcomes\n0 │")
			So(string(data), ShouldContainSubstring, "3 (75.0%)")
		})

		Convey("Table should list every outcome with its value", func() {
			Table(buf, counts)
			So(buf.String(), ShouldContainSubstring, "PROBABILITY")
			So(buf.String(), ShouldContainSubstring, "0.7500")
		})
	})
}

func TestEncodeReport(t *testing.T) {
	Convey("Given a finished run", t, func() {
		report := Report{
			JobID:        "job-1",
			Preset:       "z",
			Ancillae:     3,
			Shots:        16,
			MostFrequent: "100",
			Phase:        0.5,
			Counts:       Counts{"100": 16},
		}
		buf := &bytes.Buffer{}

		Convey("JSON output should carry every field", func() {
			So(EncodeReport(buf, report, "json"), ShouldBeNil)

			var decoded Report
			So(json.Unmarshal(buf.Bytes(), &decoded), ShouldBeNil)
			So(decoded, ShouldResemble, report)
		})

		Convey("YAML output should use the snake case keys", func() {
			So(EncodeReport(buf, report, "yaml"), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "job_id: job-1\n")
			So(buf.String(), ShouldContainSubstring, "phase: 0.5\n")
		})

		Convey("Unknown formats should fail", func() {
			So(EncodeReport(buf, report, "xml"), ShouldNotBeNil)
		})
	})
}
