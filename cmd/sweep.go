package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/peakshave/core/fit"
	"github.com/kilianp07/peakshave/core/sweep"
	"github.com/kilianp07/peakshave/infra/logger"
	"github.com/kilianp07/peakshave/pkg/export"
	"github.com/kilianp07/peakshave/simulator"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the capacity sweep and write records and fits to files",
	RunE:  runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

// runSweep runs the bare experiment without sinks: records and fits go to
// the export directory only.
func runSweep(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	curve, err := simulator.New(cfg.Curve).Generate()
	if err != nil {
		return fmt.Errorf("generate curve: %w", err)
	}
	bounds, err := cfg.Strategies.Bounds()
	if err != nil {
		return fmt.Errorf("strategies: %w", err)
	}
	grid, err := sweep.Grid(cfg.Sweep.MinCapacityMWh, cfg.Sweep.MaxCapacityMWh, cfg.Sweep.Points)
	if err != nil {
		return fmt.Errorf("capacity grid: %w", err)
	}
	exp := &sweep.Experiment{
		Curve:      curve,
		Bounds:     bounds,
		Capacities: grid,
		Workers:    cfg.Sweep.Workers,
		Log:        logger.New("sweep"),
	}
	res, err := exp.Run(ctx)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	var fits []export.StrategyFit
	for _, series := range res.Series() {
		f, err := fit.PowerLaw(series.Records, fit.Options{WithOffset: cfg.Fit.WithOffset})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "fit %s: %v\n", series.Name, err)
			continue
		}
		fits = append(fits, export.StrategyFit{Strategy: series.Name, Fit: f})
	}

	if err := os.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
		return fmt.Errorf("export dir: %w", err)
	}
	recordsPath := filepath.Join(cfg.Export.Dir, "records.csv")
	rf, err := os.Create(recordsPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", recordsPath, err)
	}
	if err := export.WriteRecordsCSV(rf, res.Series()); err != nil {
		rf.Close()
		return err
	}
	if err := rf.Close(); err != nil {
		return err
	}
	fitsPath := filepath.Join(cfg.Export.Dir, "fits.csv")
	ff, err := os.Create(fitsPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", fitsPath, err)
	}
	if err := export.WriteFitsCSV(ff, fits); err != nil {
		ff.Close()
		return err
	}
	if err := ff.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", recordsPath, fitsPath)
	return nil
}
