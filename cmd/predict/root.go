package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "predict",
		Short: "Offline stock close-price predictions",
		Long: `Run the close-price prediction pipeline on a local CSV file.

The file needs the columns date, open, high, low, close, volume and name.
A linear regression is trained on a seeded split and compared against the
heuristic, FOL and CSP rule estimators by mean absolute error.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newReportCmd())
	return root
}
