package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/marquee/internal/engine"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	attrFlags
	Display string
	Entity  string
	Viewer  string
	Explain bool
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render [config-path]",
		Short: "Render a display for one entity",
		Long: `Render a display against fixture attribute values.

Example:
  marquee render ./config -d header -e 0f8fad5b-d9cb-469f-a165-70867728950e \
    --attrs players.yaml --set player_health=3 --explain
  marquee render ./config -d nametag -e bob --viewer ann`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Display, "display", "d", "", "display name (required)")
	cmd.Flags().StringVarP(&opts.Entity, "entity", "e", "", "entity id to render for")
	cmd.Flags().StringVar(&opts.Viewer, "viewer", "", "viewer id; enables %rel_*% tokens with --entity as target")
	cmd.Flags().BoolVar(&opts.Explain, "explain", false, "show which layer and entry won")
	opts.register(cmd)
	_ = cmd.MarkFlagRequired("display")

	return cmd
}

func runRender(opts *RenderOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	path, err := opts.configPath(args)
	if err != nil {
		return fail(formatter, err)
	}
	src, err := opts.source(opts.Entity)
	if err != nil {
		return fail(formatter, err)
	}
	eng, _, err := newEngine(opts.RootOptions, cmd, path, src)
	if err != nil {
		return fail(formatter, err)
	}

	var x engine.Explanation
	if opts.Viewer != "" {
		x, err = eng.ExplainFor(opts.Display, opts.Viewer, opts.Entity)
	} else {
		x, err = eng.Explain(opts.Display, opts.Entity)
	}
	if err != nil {
		return fail(formatter, WrapExitError(ExitCommandError, "render failed", err))
	}

	if formatter.JSON() {
		return formatter.Success(x)
	}
	if opts.Explain || opts.Verbose {
		writeExplanation(formatter, x)
	}
	fmt.Fprintln(formatter.Writer, x.Rendered)
	return nil
}

func writeExplanation(f *OutputFormatter, x engine.Explanation) {
	w := f.GetErrWriter()
	fmt.Fprintf(w, "display: %s\n", x.Display)
	fmt.Fprintf(w, "entity:  %s\n", x.Entity)
	fmt.Fprintf(w, "layers:  %s\n", strings.Join(x.Layers, ", "))
	if x.Default {
		fmt.Fprintln(w, "winner:  (default)")
	} else {
		fmt.Fprintf(w, "winner:  %s[%d]\n", x.Layer, x.Index)
	}
	fmt.Fprintf(w, "hash:    %s\n", x.Hash)
	fmt.Fprintln(w, "---")
}
