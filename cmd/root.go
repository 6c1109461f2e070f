// Package cmd provides the command-line interface of stress.
package cmd

import (
	"bufio"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"

	"github.com/sarchlab/stress/stress"
)

type options struct {
	multiply bool
	verbose  bool
}

func newRootCmd(b stress.Builder) *cobra.Command {
	opts := &options{}

	c := &cobra.Command{
		Use:   "stress <type> <duration>",
		Short: "Creates memory or CPU stress.",
		Long: `Creates memory or CPU stress for a number of seconds.

The memory type repeatedly allocates a matrix of random float32 values
sized from the memory available on the host. The cpu type prints a
constant token in a busy loop. Negative durations must follow "--".`,
		Example:   "  stress cpu 10\n  stress memory 2.5",
		Args:      cobra.MatchAll(cobra.ExactArgs(2), validateArgs),
		ValidArgs: stress.Modes(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, b, opts, args)
		},
	}

	c.Flags().BoolVar(&opts.multiply, "multiply", false,
		"Multiply each matrix by itself in memory mode")
	c.Flags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Log debug messages to stderr")

	return c
}

func run(
	cmd *cobra.Command,
	b stress.Builder,
	opts *options,
	args []string,
) error {
	mode, d, err := parseArgs(args)
	if err != nil {
		return err
	}

	// Arguments are fine from here on; failures are not usage errors.
	cmd.SilenceUsage = true

	logger := newLogger(cmd.ErrOrStderr(), opts.verbose)
	defer func() { _ = logger.Sync() }()

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	runner := b.
		WithOutput(out).
		WithLogger(logger).
		WithMultiply(opts.multiply).
		Build()

	logger.Info("starting stress",
		zap.String("run_id", runner.ID()),
		zap.String("mode", string(mode)),
		zap.Duration("duration", d),
		zap.Bool("multiply", opts.multiply))

	report, err := runner.Run(mode, d)
	if err != nil {
		return err
	}

	logger.Info("stress finished", report.Field())

	return nil
}

// Execute runs the root command and exits the process.
func Execute() {
	err := newRootCmd(stress.MakeBuilder()).Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
