package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/marquee/internal/engine"
)

// RotateOptions holds flags for the rotate command.
type RotateOptions struct {
	*RootOptions
	attrFlags
	Rotation string
	Count    int
	At       string
}

// RotationPick is one selection.
type RotationPick struct {
	Key      string `json:"key,omitempty"` // empty when the fallback was used
	Output   string `json:"output"`
	Fallback bool   `json:"fallback,omitempty"`
}

// NewRotateCommand creates the rotate command.
func NewRotateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RotateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rotate [config-path]",
		Short: "Select rotation candidates",
		Long: `Select from a rotation several times in a row, as the server would on
consecutive refreshes. Schedule conditions are evaluated at --at (default
now). --set values apply server-wide.

Example:
  marquee rotate ./config -r motd -n 3 --at 2024-12-24T22:30:00Z --set server_online=120`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRotate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Rotation, "rotation", "r", "", "rotation name (required)")
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of selections")
	cmd.Flags().StringVar(&opts.At, "at", "", "evaluation time (RFC 3339)")
	opts.register(cmd)
	_ = cmd.MarkFlagRequired("rotation")

	return cmd
}

func runRotate(opts *RotateOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Count < 1 {
		return fail(formatter, NewExitError(ExitCommandError, "--count must be at least 1"))
	}
	var eopts []engine.Option
	if opts.At != "" {
		at, err := time.Parse(time.RFC3339, opts.At)
		if err != nil {
			return fail(formatter, WrapExitError(ExitCommandError, "invalid --at", err))
		}
		eopts = append(eopts, engine.WithClock(engine.ClockFunc(func() time.Time { return at })))
	}

	path, err := opts.configPath(args)
	if err != nil {
		return fail(formatter, err)
	}
	src, err := opts.source("")
	if err != nil {
		return fail(formatter, err)
	}
	eng, _, err := newEngine(opts.RootOptions, cmd, path, src, eopts...)
	if err != nil {
		return fail(formatter, err)
	}

	picks := make([]RotationPick, 0, opts.Count)
	for range opts.Count {
		out, key, err := eng.RotateE(opts.Rotation)
		if err != nil {
			return fail(formatter, WrapExitError(ExitCommandError, "rotate failed", err))
		}
		picks = append(picks, RotationPick{Key: key, Output: out, Fallback: key == ""})
	}

	if formatter.JSON() {
		return formatter.Success(picks)
	}
	for _, p := range picks {
		if opts.Verbose {
			key := p.Key
			if p.Fallback {
				key = "(fallback)"
			}
			fmt.Fprintf(formatter.GetErrWriter(), "[%s] ", key)
		}
		fmt.Fprintln(formatter.Writer, p.Output)
	}
	return nil
}
