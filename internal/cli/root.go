package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roach88/rtikit/internal/conf"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Set by the root command before any subcommand runs.
	Config *conf.Config
	Logger *zap.SugaredLogger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the rtikit CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rtikit",
		Short: "rtikit - HLA object models and logical time",
		Long:  "Tools for HLA FOM datatypes, logical time implementations and federation bookkeeping.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			cfg, err := conf.Load(opts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "configuration error", err)
			}
			opts.Config = cfg
			level := conf.LogLevel(cfg.LogLevel)
			if opts.Verbose {
				level = zapcore.DebugLevel
			}
			opts.Logger = conf.GetLogger(cfg.Profile, level)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a config file (default ./rtikit.yaml)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewDescribeCommand(opts))
	cmd.AddCommand(NewTimeCommand(opts))
	cmd.AddCommand(NewFederationCommand(opts))
	cmd.AddCommand(NewScenarioCommand(opts))

	return cmd
}

// logger returns the configured logger, or a discarding one when the
// command runs without the root pre-run, as in tests.
func (o *RootOptions) logger() *zap.SugaredLogger {
	if o.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return o.Logger
}

// config returns the loaded config, or defaults.
func (o *RootOptions) config() *conf.Config {
	if o.Config == nil {
		return &conf.Config{Profile: conf.ProfileTest, LogLevel: "INFO", DBPath: "rtikit.db"}
	}
	return o.Config
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
