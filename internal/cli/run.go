package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"EclipseCast/internal/config"
	"EclipseCast/internal/usecase"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Catalog string
	Limit   int
	Draws   int
}

// NewRunCommand creates the batch command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process every catalog system not yet in the results table",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApp(cmd, opts.RootOptions, func(cfg *config.Config) {
				if opts.Catalog != "" {
					cfg.Catalog.Path = opts.Catalog
				}
				if opts.Limit > 0 {
					cfg.Batch.Limit = opts.Limit
				}
				if opts.Draws > 0 {
					cfg.Sampler.Draws = opts.Draws
				}
			})
			if err != nil {
				return err
			}

			report, runErr := application.Run(cmd.Context())
			printReport(cmd, report)
			return runErr
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "catalog CSV (overrides catalog.path)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "process at most this many catalog systems")
	cmd.Flags().IntVar(&opts.Draws, "draws", 0, "posterior draws per system (overrides sampler.draws)")

	return cmd
}

func printReport(cmd *cobra.Command, r usecase.RunReport) {
	out := cmd.OutOrStdout()
	if r.RunID == "" {
		return
	}
	if r.AlreadyComplete {
		fmt.Fprintf(out, "All %d systems already processed (%d chains stored)\n", r.ResultCount, r.ChainCount)
		return
	}
	fmt.Fprintf(out, "Run %s: %d new systems in %.1f min (%.1f sec/system)\n",
		r.RunID, r.NewSystems, r.Elapsed.Minutes(), r.MeanPerSystem.Seconds())
	fmt.Fprintf(out, "  skipped: %d  failed: %d  checkpoints: %d\n", r.Skipped, r.Failed, r.Checkpoints)
	fmt.Fprintf(out, "  total results: %d  chains stored: %d\n", r.ResultCount, r.ChainCount)
}
