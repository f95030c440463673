package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/theapemachine/errnie"
	"github.com/theapemachine/qphase"
	"github.com/urfave/cli/v2"
)

func main() {
	app := newApp(os.Stdout)

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		errnie.Error(err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "qphase",
		Usage:     "build, draw and simulate quantum phase estimation circuits",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "config file (yaml, toml or json)"},
			&cli.IntFlag{Name: "ancillae", Aliases: []string{"m"}, Usage: "number of ancilla qubits (1-5 are practical)"},
			&cli.IntFlag{Name: "shots", Aliases: []string{"s"}, Usage: "number of shots"},
			&cli.StringFlag{Name: "preset", Aliases: []string{"p"}, Usage: fmt.Sprintf("unitary and eigenstate pair %v", qphase.PresetNames())},
			&cli.Uint64Flag{Name: "seed", Usage: "sampler seed, 0 seeds from the clock"},
			&cli.BoolFlag{Name: "no-color", Usage: "disable coloured output"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("no-color") {
				color.NoColor = true
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "draw",
				Usage: "print the circuit diagram",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "dump", Usage: "also dump the circuit structure"},
				},
				Action: drawAction,
			},
			{
				Name:   "qasm",
				Usage:  "export the circuit as OpenQASM 2.0",
				Action: qasmAction,
			},
			{
				Name:  "simulate",
				Usage: "run the circuit on the state vector simulator",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "table, json or yaml"},
					&cli.StringFlag{Name: "histogram", Usage: "also write the text histogram to this file"},
				},
				Action: simulateAction,
			},
			{
				Name:  "sweep",
				Usage: "estimate every preset at every width up to --ancillae",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "only", Usage: "restrict the sweep to these presets (repeatable)"},
					&cli.IntFlag{Name: "retries", Usage: "attempts per run"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "table, json or yaml"},
				},
				Action: sweepAction,
			},
		},
	}
}

// loadConfig merges command line flags over the config file and environment.
func loadConfig(c *cli.Context) (*qphase.Config, error) {
	cfg, err := qphase.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("ancillae") {
		cfg.NumAncillae = c.Int("ancillae")
	}
	if c.IsSet("shots") {
		cfg.Shots = c.Int("shots")
	}
	if c.IsSet("preset") {
		cfg.Preset = c.String("preset")
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Uint64("seed")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("retries") {
		cfg.Retries = c.Int("retries")
	}
	if c.IsSet("histogram") {
		cfg.HistogramPath = c.String("histogram")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func buildCircuit(cfg *qphase.Config) (*qphase.Circuit, error) {
	unitary, eigenstate, err := qphase.Preset(cfg.Preset)
	if err != nil {
		return nil, err
	}

	return qphase.PhaseEstimation(unitary, eigenstate, cfg.NumAncillae)
}

func drawAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	qpe, err := buildCircuit(cfg)
	if err != nil {
		return err
	}

	out := c.App.Writer
	color.New(color.Bold).Fprintln(out, "Quantum Phase Estimation Circuit:")
	fmt.Fprint(out, qphase.Draw(qpe))

	if c.Bool("dump") {
		fmt.Fprint(out, spew.Sdump(qpe))
	}

	return nil
}

func qasmAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	qpe, err := buildCircuit(cfg)
	if err != nil {
		return err
	}

	src, err := qphase.QASM(qpe)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(c.App.Writer, src)
	return err
}

func simulateAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	qpe, err := buildCircuit(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, cfg.Timeout())
	defer cancel()

	sim := qphase.NewStateVectorSimulator(cfg)
	result, err := sim.Execute(ctx, qphase.NewJob(qpe, cfg.Shots))
	if err != nil {
		return err
	}

	best, _ := result.Counts.MostFrequent()
	phase, err := result.Counts.EstimatePhase()
	if err != nil {
		return err
	}

	out := c.App.Writer

	switch cfg.Output {
	case "json", "yaml":
		err = qphase.EncodeReport(out, qphase.Report{
			JobID:        result.JobID,
			Preset:       cfg.Preset,
			Ancillae:     cfg.NumAncillae,
			Shots:        result.Shots,
			MostFrequent: best,
			Phase:        phase,
			Counts:       result.Counts,
		}, cfg.Output)
	default:
		color.New(color.Bold).Fprintln(out, "Measurement Results:")
		qphase.Table(out, result.Counts)
		fmt.Fprintln(out)
		err = qphase.Histogram(out, result.Counts, qphase.HistogramOptions{
			Title: "Measurement Outcome Histogram:",
			Color: !color.NoColor,
		})
		fmt.Fprintf(out, "\nmost frequent %s, estimated phase %.6f\n", best, phase)
	}
	if err != nil {
		return err
	}

	if cfg.HistogramPath != "" {
		if err := qphase.WriteHistogram(cfg.HistogramPath, result.Counts, "Measurement Outcomes"); err != nil {
			return err
		}
		errnie.Info("histogram written to %s", cfg.HistogramPath)
	}

	return nil
}

func sweepAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	presets := qphase.PresetNames()
	if c.IsSet("only") {
		presets = c.StringSlice("only")
	}

	widths := make([]int, cfg.NumAncillae)
	for i := range widths {
		widths[i] = i + 1
	}

	sim := qphase.NewStateVectorSimulator(cfg)
	runner := qphase.NewRunner(sim, cfg.RunnerOptions()...)

	points, err := qphase.Sweep(c.Context, runner, presets, widths, cfg.Shots)
	if err != nil {
		return err
	}

	out := c.App.Writer

	switch cfg.Output {
	case "json", "yaml":
		return qphase.EncodeValue(out, points, cfg.Output)
	}

	color.New(color.Bold).Fprintln(out, "Phase Estimation Sweep:")
	qphase.SweepTable(out, points)

	errnie.Info("sweep finished - %v", sim.Metrics().ExportMetrics())

	return nil
}
