package qphase

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// HistogramOptions controls the text histogram.
type HistogramOptions struct {
	Width int
	Color bool
	Title string
}

/*
Histogram writes one bar per outcome, scaled so the most frequent outcome
spans Width cells.
*/
func Histogram(w io.Writer, counts Counts, opts HistogramOptions) error {
	if opts.Width < 1 {
		opts.Width = 40
	}

	bar := color.New(color.FgCyan)
	title := color.New(color.Bold)
	if !opts.Color {
		bar.DisableColor()
		title.DisableColor()
	}

	if opts.Title != "" {
		if _, err := title.Fprintln(w, opts.Title); err != nil {
			return err
		}
	}

	_, peak := counts.MostFrequent()
	total := counts.Total()

	for _, key := range counts.Keys() {
		n := counts[key]
		cells := 0
		if peak > 0 {
			cells = n * opts.Width / peak
		}

		if _, err := fmt.Fprintf(w, "%s │", key); err != nil {
			return err
		}
		if _, err := bar.Fprint(w, strings.Repeat("█", cells)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, " %d (%.1f%%)\n", n, 100*float64(n)/float64(total)); err != nil {
			return err
		}
	}

	return nil
}

// WriteHistogram saves an uncoloured histogram to path.
func WriteHistogram(path string, counts Counts, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Histogram(f, counts, HistogramOptions{Title: title}); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Table writes the raw outcome listing.
func Table(w io.Writer, counts Counts) {
	probs := counts.Probabilities()

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Outcome", "Value", "Count", "Probability"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, key := range counts.Keys() {
		value, _ := OutcomeValue(key)
		table.Append([]string{
			key,
			strconv.FormatUint(value, 10),
			strconv.Itoa(counts[key]),
			strconv.FormatFloat(probs[key], 'f', 4, 64),
		})
	}

	table.Render()
}

// Report is the structured form of a finished run.
type Report struct {
	JobID        string  `json:"job_id" yaml:"job_id"`
	Preset       string  `json:"preset" yaml:"preset"`
	Ancillae     int     `json:"ancillae" yaml:"ancillae"`
	Shots        int     `json:"shots" yaml:"shots"`
	MostFrequent string  `json:"most_frequent" yaml:"most_frequent"`
	Phase        float64 `json:"phase" yaml:"phase"`
	Counts       Counts  `json:"counts" yaml:"counts"`
}

// EncodeReport writes r as json or yaml.
func EncodeReport(w io.Writer, r Report, format string) error {
	return EncodeValue(w, r, format)
}

// EncodeValue writes v as indented json or yaml.
func EncodeValue(w io.Writer, v any, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	return fmt.Errorf("unknown output format %q", format)
}
