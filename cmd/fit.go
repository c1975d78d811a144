package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/peakshave/core/fit"
	"github.com/kilianp07/peakshave/pkg/export"
)

var (
	fitInput  string
	fitOffset bool
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit the scaling law to an existing records CSV",
	RunE:  runFit,
}

func init() {
	fitCmd.Flags().StringVar(&fitInput, "input", "records.csv", "records CSV produced by the sweep")
	fitCmd.Flags().BoolVar(&fitOffset, "offset", false, "add the constant floor term to the model")
	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	f, err := os.Open(fitInput)
	if err != nil {
		return fmt.Errorf("open %s: %w", fitInput, err)
	}
	defer f.Close()
	series, err := export.ReadRecordsCSV(f)
	if err != nil {
		return fmt.Errorf("read records: %w", err)
	}

	failed := 0
	for _, s := range series {
		res, err := fit.PowerLaw(s.Records, fit.Options{WithOffset: fitOffset})
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "fit %s: %v\n", s.Name, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: peak ~ %.4g * capacity^-%.4g + %.4g (r2=%.4f, %d points)\n",
			s.Name, res.Scale, res.Exponent, res.Offset, res.RSquared, len(s.Records))
	}
	if failed == len(series) {
		return fmt.Errorf("no series could be fitted")
	}
	return nil
}
