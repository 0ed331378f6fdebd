package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/zwift-ocr/internal/extractor"
	"github.com/ironsheep/zwift-ocr/internal/telemetry"
)

// timingSummary describes repeated runs of one mode, in milliseconds.
type timingSummary struct {
	Mode   string  `json:"mode"`
	Runs   int     `json:"runs"`
	Mean   float64 `json:"mean_ms"`
	StdDev float64 `json:"stddev_ms"`
	Median float64 `json:"median_ms"`
	Min    float64 `json:"min_ms"`
	Max    float64 `json:"max_ms"`
}

// benchmarkReport is the benchmark command output.
type benchmarkReport struct {
	Image      string          `json:"image"`
	Modes      []timingSummary `json:"modes"`
	Speedup    float64         `json:"speedup"`
	Equivalent bool            `json:"equivalent"`
	Diff       string          `json:"diff,omitempty"`
}

func newBenchmarkCmd() *cobra.Command {
	var runs int

	cmd := &cobra.Command{
		Use:   "benchmark <image>",
		Short: "Time both extraction modes and check they agree",
		Long: `benchmark extracts the same screenshot n times in each mode and reports
mean, standard deviation and median latency. The first parallel run, which
builds the engine pool, is excluded. The records of both modes are compared
field by field.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if runs < 1 {
				return fmt.Errorf("-n must be at least 1, got %d", runs)
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			report, err := runBenchmark(a, args[0], runs)
			if err != nil {
				return err
			}
			for _, s := range report.Modes {
				printSummary(cmd.ErrOrStderr(), s)
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().IntVarP(&runs, "runs", "n", 5, "runs per mode")
	return cmd
}

func runBenchmark(a *app, path string, runs int) (*benchmarkReport, error) {
	seq, err := a.extractor(extractor.ModeSequential)
	if err != nil {
		return nil, err
	}
	par, err := a.extractor(extractor.ModeParallel)
	if err != nil {
		return nil, err
	}

	// Warm the pool and the image cache.
	if _, err := par.Extract(path); err != nil {
		return nil, err
	}

	seqTimes, seqResult, err := timeRuns(seq, path, runs)
	if err != nil {
		return nil, err
	}
	parTimes, parResult, err := timeRuns(par, path, runs)
	if err != nil {
		return nil, err
	}

	report := &benchmarkReport{
		Image: path,
		Modes: []timingSummary{
			summarize(extractor.ModeSequential, seqTimes),
			summarize(extractor.ModeParallel, parTimes),
		},
	}
	if report.Modes[1].Mean > 0 {
		report.Speedup = report.Modes[0].Mean / report.Modes[1].Mean
	}
	report.Diff = cmp.Diff(seqResult, parResult)
	report.Equivalent = report.Diff == ""
	if !report.Equivalent {
		a.log.Warn("extraction modes disagree", zap.String("diff", report.Diff))
	}
	return report, nil
}

// timeRuns extracts path n times and returns each duration in milliseconds
// and the last record.
func timeRuns(ex extractor.Extractor, path string, n int) ([]float64, *telemetry.TelemetryData, error) {
	times := make([]float64, 0, n)
	var last *telemetry.TelemetryData
	for i := 0; i < n; i++ {
		start := time.Now()
		td, err := ex.Extract(path)
		if err != nil {
			return nil, nil, err
		}
		times = append(times, float64(time.Since(start).Microseconds())/1000)
		last = td
	}
	return times, last, nil
}

func summarize(mode string, times []float64) timingSummary {
	s := timingSummary{Mode: mode, Runs: len(times)}
	if len(times) == 0 {
		return s
	}
	sorted := append([]float64(nil), times...)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	return s
}

func printSummary(w io.Writer, s timingSummary) {
	fmt.Fprintf(w, "%-10s n=%d mean=%.1fms stddev=%.1fms median=%.1fms\n",
		s.Mode, s.Runs, s.Mean, s.StdDev, s.Median)
}
