package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"EclipseCast/internal/domain"
	"EclipseCast/internal/usecase"
)

// NewResummarizeCommand rebuilds the results table from stored chains.
func NewResummarizeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resummarize",
		Short: "Recompute every summary row from the chain archive without sampling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApp(cmd, rootOpts, nil)
			if err != nil {
				return err
			}
			n, err := application.Resummarize(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt %d result rows from stored chains\n", n)
			return nil
		},
	}
}

// NewInspectCommand prints the stored chain summary for one system.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect NAME",
		Short: "Summarize the stored posterior and derived draws of one system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApp(cmd, rootOpts, nil)
			if err != nil {
				return err
			}
			report, err := application.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			writeChainReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func writeChainReport(w io.Writer, r usecase.ChainReport) {
	fmt.Fprintf(w, "%s:\n", r.Name)
	fmt.Fprintf(w, "  samples:   %d\n", r.Samples)
	line := func(label string, rec domain.SummaryRecord, digits int) {
		fmt.Fprintf(w, "  %-10s %.*f ± %.*f (-%.*f/+%.*f)\n",
			label+":", digits, rec.Median, digits, rec.Std, digits, rec.ErrLower, digits, rec.ErrUpper)
	}
	line("a/Rs", r.AOverRs, 3)
	line("cos(i)", r.CosI, 4)
	line("e", r.E, 4)
	line("ω [deg]", r.Omega, 2)
	line("b_occ", r.BOcc, 4)
	line("T_eclipse", r.TEclipse, 6)
}
