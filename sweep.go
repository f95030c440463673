package qphase

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/theapemachine/errnie"
)

// SweepPoint is the outcome of one preset at one register width.
type SweepPoint struct {
	Preset       string  `json:"preset" yaml:"preset"`
	Ancillae     int     `json:"ancillae" yaml:"ancillae"`
	JobID        string  `json:"job_id" yaml:"job_id"`
	MostFrequent string  `json:"most_frequent" yaml:"most_frequent"`
	Phase        float64 `json:"phase" yaml:"phase"`
	Counts       Counts  `json:"counts" yaml:"counts"`
}

/*
Sweep builds the phase estimation circuit for every preset at every ancilla
count and runs them in turn on runner. Every preset name is resolved before
the first run. Points come back in input order; the first failure stops the
sweep.
*/
func Sweep(ctx context.Context, runner *Runner, presets []string, ancillae []int, shots int) ([]SweepPoint, error) {
	type pair struct {
		unitary, eigenstate *Circuit
	}

	resolved := make([]pair, len(presets))
	for i, name := range presets {
		unitary, eigenstate, err := Preset(name)
		if err != nil {
			return nil, err
		}
		resolved[i] = pair{unitary, eigenstate}
	}

	points := make([]SweepPoint, 0, len(presets)*len(ancillae))

	for i, name := range presets {
		for _, m := range ancillae {
			qpe, err := PhaseEstimation(resolved[i].unitary, resolved[i].eigenstate, m)
			if err != nil {
				return nil, err
			}

			result, err := runner.Run(ctx, NewJob(qpe, shots))
			if err != nil {
				err = fmt.Errorf("%s with %d ancillae: %w", name, m, err)
				errnie.Error(err)
				return nil, err
			}

			best, _ := result.Counts.MostFrequent()
			phase, err := result.Counts.EstimatePhase()
			if err != nil {
				return nil, err
			}

			points = append(points, SweepPoint{
				Preset:       name,
				Ancillae:     m,
				JobID:        result.JobID,
				MostFrequent: best,
				Phase:        phase,
				Counts:       result.Counts,
			})
		}
	}

	return points, nil
}

// SweepTable writes one row per sweep point.
func SweepTable(w io.Writer, points []SweepPoint) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Preset", "Ancillae", "Most frequent", "Phase", "Outcomes"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, p := range points {
		table.Append([]string{
			p.Preset,
			strconv.Itoa(p.Ancillae),
			p.MostFrequent,
			strconv.FormatFloat(p.Phase, 'f', 6, 64),
			strconv.Itoa(len(p.Counts)),
		})
	}

	table.Render()
}
