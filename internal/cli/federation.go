package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rtikit/internal/federation"
	"github.com/roach88/rtikit/internal/fom"
	"github.com/roach88/rtikit/internal/logicaltime"
	"github.com/roach88/rtikit/internal/store"
)

// FederationOptions holds flags shared by the federation subcommands.
type FederationOptions struct {
	*RootOptions
	DBPath         string
	Implementation string
}

// FederationResult describes a created or listed federation.
type FederationResult struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	TimeImplementation string `json:"time_implementation"`
	ModelFingerprint   string `json:"model_fingerprint"`
	Seq                int64  `json:"seq"`
}

// JoinResult describes a federate's join.
type JoinResult struct {
	Federation   string `json:"federation"`
	Federate     string `json:"federate"`
	InitialTime  string `json:"initial_time"`
	ZeroInterval string `json:"zero_interval"`
	Seq          int64  `json:"seq"`
}

// NewFederationCommand creates the federation command group.
func NewFederationCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FederationOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "federation",
		Aliases: []string{"fed"},
		Short:   "Create, list and join federation executions",
		Long: `Manage federation executions recorded in a SQLite database.

The database defaults to db_path from the config.`,
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "federation database path")

	cmd.AddCommand(newFederationCreateCommand(opts))
	cmd.AddCommand(newFederationListCommand(opts))
	cmd.AddCommand(newFederationJoinCommand(opts))
	cmd.AddCommand(newFederationJoinsCommand(opts))
	return cmd
}

func newFederationCreateCommand(opts *FederationOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create NAME [MODULE...]",
		Short: "Create a federation execution",
		Long: `Create a federation execution over the given FOM modules, or over the
modules listed under fom_modules in the config when none are given.`,
		Example: `  rtikit federation create dinner restaurant.xml
  rtikit federation create dinner restaurant.xml dessert.cue --time HLAfloat64Time`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFederationCreate(opts, args[0], args[1:], cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Implementation, "time", "", "logical time implementation")
	return cmd
}

func newFederationListCommand(opts *FederationOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List federation executions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFederationList(opts, cmd)
		},
	}
}

func newFederationJoinCommand(opts *FederationOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "join NAME FEDERATE",
		Short:         "Join a federate to a federation execution",
		Example:       `  rtikit federation join dinner alice`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFederationJoin(opts, args[0], args[1], cmd)
		},
	}
}

func newFederationJoinsCommand(opts *FederationOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "joins NAME",
		Short:         "List the federates joined to a federation execution",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFederationJoins(opts, args[0], cmd)
		},
	}
}

// withManager opens the database, runs fn with a manager over it and closes
// the database again.
func (o *FederationOptions) withManager(ctx context.Context, f *OutputFormatter, fn func(*federation.Manager) error) error {
	path := o.DBPath
	if path == "" {
		path = o.config().DBPath
	}
	st, err := store.Open(path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStoreFailed, "cannot open federation database", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			o.logger().Warnw("closing federation database", "path", path, "error", err)
		}
	}()
	f.VerboseLog("Using database %s", path)

	m, err := federation.NewManager(ctx, st, federation.WithLogger(o.logger()))
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStoreFailed, "cannot read federation database", err)
	}
	return fn(m)
}

// federationFail maps a manager error to its exit code and error code.
func federationFail(f *OutputFormatter, message string, err error) error {
	var resolveErr *fom.ResolveError
	switch {
	case errors.Is(err, federation.ErrFederationExists):
		return f.Fail(ExitFailure, ErrCodeFederationExists, message, err)
	case errors.Is(err, federation.ErrFederateAlreadyJoined):
		return f.Fail(ExitFailure, ErrCodeAlreadyJoined, message, err)
	case errors.Is(err, federation.ErrFederationNotFound):
		return f.Fail(ExitCommandError, ErrCodeNotFound, message, err)
	case errors.Is(err, logicaltime.ErrCouldNotCreateLogicalTimeFactory):
		return f.Fail(ExitCommandError, ErrCodeTimeFactory, message, err)
	case isCodecError(err):
		return f.Fail(ExitFailure, ErrCodeTimeCodec, message, err)
	case errors.As(err, &resolveErr):
		return f.Fail(ExitFailure, ErrCodeResolveFailed, message, err)
	default:
		return f.Fail(ExitFailure, ErrCodeStoreFailed, message, err)
	}
}

func runFederationCreate(opts *FederationOptions, name string, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	modules, err := loadModules(ctx, opts.RootOptions, formatter, modulePaths(opts.RootOptions, paths))
	if err != nil {
		return err
	}
	impl := opts.Implementation
	if impl == "" {
		impl = opts.config().TimeImplementation
	}

	return opts.withManager(ctx, formatter, func(m *federation.Manager) error {
		fed, err := m.Create(ctx, name, impl, modules...)
		if err != nil {
			return federationFail(formatter, fmt.Sprintf("cannot create federation %q", name), err)
		}
		result := FederationResult{
			ID:                 fed.ID,
			Name:               fed.Name,
			TimeImplementation: fed.Factory.Name(),
			ModelFingerprint:   fed.Fingerprint,
			Seq:                fed.Seq,
		}
		if formatter.Format == "json" {
			return formatter.Success(result)
		}
		formatter.Text("✓ Created federation %s (%s)\n", result.Name, result.TimeImplementation)
		formatter.Text("  id:          %s\n", result.ID)
		formatter.Text("  fingerprint: %s\n", result.ModelFingerprint)
		return nil
	})
}

func runFederationList(opts *FederationOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	return opts.withManager(ctx, formatter, func(m *federation.Manager) error {
		feds, err := m.List(ctx)
		if err != nil {
			return federationFail(formatter, "cannot list federations", err)
		}
		results := make([]FederationResult, 0, len(feds))
		for _, f := range feds {
			results = append(results, FederationResult(f))
		}
		if formatter.Format == "json" {
			return formatter.Success(results)
		}
		if len(results) == 0 {
			formatter.Text("No federations\n")
			return nil
		}
		for _, r := range results {
			formatter.Text("%s\t%s\t%s\n", r.Name, r.TimeImplementation, r.ID)
		}
		return nil
	})
}

func runFederationJoin(opts *FederationOptions, name, federate string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	return opts.withManager(ctx, formatter, func(m *federation.Manager) error {
		joined, err := m.Join(ctx, name, federate)
		if err != nil {
			return federationFail(formatter, fmt.Sprintf("cannot join %q to %q", federate, name), err)
		}
		result := joinResult(joined)
		if formatter.Format == "json" {
			return formatter.Success(result)
		}
		formatter.Text("✓ %s joined %s at %s\n", result.Federate, result.Federation, result.InitialTime)
		return nil
	})
}

func runFederationJoins(opts *FederationOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	return opts.withManager(ctx, formatter, func(m *federation.Manager) error {
		joins, err := m.Joins(ctx, name)
		if err != nil {
			return federationFail(formatter, fmt.Sprintf("cannot list joins of %q", name), err)
		}
		results := make([]JoinResult, 0, len(joins))
		for _, j := range joins {
			results = append(results, joinResult(j))
		}
		if formatter.Format == "json" {
			return formatter.Success(results)
		}
		if len(results) == 0 {
			formatter.Text("No federates joined %s\n", name)
			return nil
		}
		for _, r := range results {
			formatter.Text("%s\t%s\t%s\n", r.Federate, r.InitialTime, r.ZeroInterval)
		}
		return nil
	})
}

func joinResult(j *federation.Joined) JoinResult {
	return JoinResult{
		Federation:   j.Federation.Name,
		Federate:     j.Federate,
		InitialTime:  j.InitialTime.String(),
		ZeroInterval: j.ZeroInterval.String(),
		Seq:          j.Seq,
	}
}
