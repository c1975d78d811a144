package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/peakshave/core/solver"
	"github.com/kilianp07/peakshave/core/strategy"
	"github.com/kilianp07/peakshave/pkg/export"
	"github.com/kilianp07/peakshave/simulator"
)

var (
	shaveCapacity float64
	shaveOut      string
)

var shaveCmd = &cobra.Command{
	Use:   "shave",
	Short: "Solve the optimal flat ceiling for a single capacity",
	RunE:  runShave,
}

func init() {
	shaveCmd.Flags().Float64Var(&shaveCapacity, "capacity", 25000, "storage capacity in MWh")
	shaveCmd.Flags().StringVar(&shaveOut, "out", "", "write the shaved curve CSV to this file")
	rootCmd.AddCommand(shaveCmd)
}

func runShave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	curve, err := simulator.New(cfg.Curve).Generate()
	if err != nil {
		return fmt.Errorf("generate curve: %w", err)
	}
	lvl, err := solver.SolveCeiling(curve, shaveCapacity)
	if err != nil {
		return err
	}
	removed := solver.EnergyAbove(curve, lvl.ValueMW)
	fmt.Fprintf(cmd.OutOrStdout(), "peak %.2f MW -> ceiling %.2f MW (%.2f MWh shed)\n",
		curve.PeakMW(), lvl.ValueMW, removed)
	if lvl.Saturated {
		fmt.Fprintln(cmd.OutOrStdout(), "capacity saturates the curve; it is fully flattened")
	}
	if shaveOut == "" {
		return nil
	}
	res, err := strategy.Optimistic{}.Dispatch(curve, shaveCapacity)
	if err != nil {
		return err
	}
	f, err := os.Create(shaveOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", shaveOut, err)
	}
	defer f.Close()
	return export.WriteCurveCSV(f, curve, res.Shaved)
}
