package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"EclipseCast/internal/app"
	"EclipseCast/internal/config"
	"EclipseCast/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCommand creates the root command for the eclipsecast CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "eclipsecast",
		Short:         "Propagate orbital posteriors into secondary-eclipse predictions",
		Long:          "Resumable batch that turns orbital-parameter posteriors into occultation impact parameters and eclipse midtimes.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file (defaults to $ECLIPSECAST_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override logging level (debug|info|warn|error)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewResummarizeCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))

	return cmd
}

// loadApp resolves configuration and builds the application; tweak may
// apply command-specific flag overrides before validation runs again.
func loadApp(cmd *cobra.Command, opts *RootOptions, tweak func(*config.Config)) (*app.Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if tweak != nil {
		tweak(&cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("flags: %w", err)
		}
	}

	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	return app.New(cfg, logger), nil
}
