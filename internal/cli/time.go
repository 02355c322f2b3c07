package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rtikit/internal/logicaltime"
)

// TimeOptions holds flags shared by the time subcommands.
type TimeOptions struct {
	*RootOptions
	Implementation string
	Interval       bool
}

// TimeResult is the output of time encode and time decode.
type TimeResult struct {
	Implementation string `json:"implementation"`
	Kind           string `json:"kind"`
	Value          string `json:"value"`
	Encoded        string `json:"encoded"`
}

// ResolveResult is the output of time resolve.
type ResolveResult struct {
	Requested      string   `json:"requested,omitempty"`
	Implementation string   `json:"implementation"`
	Initial        string   `json:"initial"`
	Final          string   `json:"final"`
	Zero           string   `json:"zero"`
	Epsilon        string   `json:"epsilon"`
	Available      []string `json:"available"`
}

// NewTimeCommand creates the time command group.
func NewTimeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TimeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "time",
		Short: "Resolve logical time implementations and convert values",
		Long: `Work with the registered logical time implementations.

The implementation defaults to time_implementation from the config, and to
the registry default when that is empty.`,
	}

	cmd.PersistentFlags().StringVarP(&opts.Implementation, "implementation", "i", "", "time implementation name")

	cmd.AddCommand(newTimeResolveCommand(opts))
	cmd.AddCommand(newTimeEncodeCommand(opts))
	cmd.AddCommand(newTimeDecodeCommand(opts))
	return cmd
}

func newTimeResolveCommand(opts *TimeOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [NAME]",
		Short: "Resolve an implementation name and show its sentinels",
		Example: `  rtikit time resolve
  rtikit time resolve HLAfloat64Time --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := opts.Implementation
			if len(args) == 1 {
				name = args[0]
			}
			return runTimeResolve(opts, name, cmd)
		},
	}
}

func newTimeEncodeCommand(opts *TimeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode VALUE",
		Short: "Encode a time or interval value",
		Example: `  rtikit time encode 42
  rtikit time encode final -i HLAfloat64Time
  rtikit time encode epsilon --interval`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimeEncode(opts, args[0], cmd)
		},
	}
	cmd.Flags().BoolVar(&opts.Interval, "interval", false, "treat VALUE as an interval")
	return cmd
}

func newTimeDecodeCommand(opts *TimeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode HEX",
		Short: "Decode an encoded time or interval",
		Example: `  rtikit time decode 000000000000002a
  rtikit time decode 3ff0000000000000 -i HLAfloat64Time --interval`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimeDecode(opts, args[0], cmd)
		},
	}
	cmd.Flags().BoolVar(&opts.Interval, "interval", false, "decode an interval")
	return cmd
}

// factory resolves name, falling back to the configured implementation.
func (o *TimeOptions) factory(f *OutputFormatter, name string) (logicaltime.Factory, error) {
	if name == "" {
		name = o.config().TimeImplementation
	}
	factory, err := logicaltime.Resolve(name)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeTimeFactory, "cannot resolve time implementation", err)
	}
	o.logger().Debugw("time implementation resolved", "requested", name, "implementation", factory.Name())
	return factory, nil
}

func runTimeResolve(opts *TimeOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	factory, err := opts.factory(formatter, name)
	if err != nil {
		return err
	}

	result := ResolveResult{
		Requested:      name,
		Implementation: factory.Name(),
		Initial:        factory.MakeInitial().String(),
		Final:          factory.MakeFinal().String(),
		Zero:           factory.MakeZero().String(),
		Epsilon:        factory.MakeEpsilon().String(),
		Available:      logicaltime.Names(),
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	formatter.Text("%s\n", result.Implementation)
	formatter.Text("  initial: %s\n", result.Initial)
	formatter.Text("  final:   %s\n", result.Final)
	formatter.Text("  zero:    %s\n", result.Zero)
	formatter.Text("  epsilon: %s\n", result.Epsilon)
	return nil
}

func runTimeEncode(opts *TimeOptions, value string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	factory, err := opts.factory(formatter, opts.Implementation)
	if err != nil {
		return err
	}

	result := TimeResult{Implementation: factory.Name()}
	if opts.Interval {
		i, err := factory.ParseInterval(value)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeTimeCodec, "invalid interval", err)
		}
		result.Kind, result.Value, result.Encoded = "interval", i.String(), i.Encode().String()
	} else {
		t, err := factory.ParseTime(value)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeTimeCodec, "invalid time", err)
		}
		result.Kind, result.Value, result.Encoded = "time", t.String(), t.Encode().String()
	}
	return writeTimeResult(formatter, result)
}

func runTimeDecode(opts *TimeOptions, hex string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	factory, err := opts.factory(formatter, opts.Implementation)
	if err != nil {
		return err
	}

	data, err := logicaltime.ParseVariableLengthData(hex)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeTimeCodec, "invalid hex data",
			fmt.Errorf("%w: %v", logicaltime.ErrCouldNotDecode, err))
	}

	result := TimeResult{Implementation: factory.Name(), Encoded: data.String()}
	if opts.Interval {
		i, err := factory.DecodeInterval(data)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeTimeCodec, "cannot decode interval", err)
		}
		result.Kind, result.Value = "interval", i.String()
	} else {
		t, err := factory.DecodeTime(data)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeTimeCodec, "cannot decode time", err)
		}
		result.Kind, result.Value = "time", t.String()
	}
	return writeTimeResult(formatter, result)
}

func writeTimeResult(formatter *OutputFormatter, r TimeResult) error {
	if formatter.Format == "json" {
		return formatter.Success(r)
	}
	formatter.Text("%s %s\n", r.Value, r.Encoded)
	return nil
}

// isCodecError reports whether err is a logical time encode or decode failure.
func isCodecError(err error) bool {
	return errors.Is(err, logicaltime.ErrCouldNotDecode) || errors.Is(err, logicaltime.ErrCouldNotEncode)
}
