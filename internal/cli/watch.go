package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/marquee/internal/config"
	"github.com/roach88/marquee/internal/engine"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	attrFlags
	Display string
	Entity  string
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch [config-path]",
		Short: "Reload configuration on change",
		Long: `Load the configuration, tick animations, and reload whenever a config
or script file changes. A failed reload keeps the previous configuration.
With --display, the display is rendered after the first load and after
every reload.

Stops on interrupt (Ctrl-C) or SIGTERM.

Example:
  marquee watch ./config -d header -e steve`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Display, "display", "d", "", "display to render after each load")
	cmd.Flags().StringVarP(&opts.Entity, "entity", "e", "", "entity id to render for")
	opts.register(cmd)

	return cmd
}

func runWatch(opts *WatchOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	path, err := opts.configPath(args)
	if err != nil {
		return fail(formatter, err)
	}
	s, err := opts.settings()
	if err != nil {
		return fail(formatter, err)
	}
	logger, err := opts.logger(cmd.ErrOrStderr())
	if err != nil {
		return fail(formatter, err)
	}
	src, err := opts.source(opts.Entity)
	if err != nil {
		return fail(formatter, err)
	}
	copts := config.CompileOptions{ScriptTimeout: s.ScriptTimeout, Logger: logger}

	_, spec, err := compileConfig(path, copts)
	if err != nil {
		return fail(formatter, err)
	}
	eng := engine.New(src, engine.WithLogger(logger))
	eng.Reload(spec)

	dir, err := watchDir(path)
	if err != nil {
		return fail(formatter, WrapExitError(ExitCommandError, "config path not found", err))
	}
	watcher, err := config.NewWatcher(dir)
	if err != nil {
		return fail(formatter, WrapExitError(ExitCommandError, "failed to watch configuration", err))
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- eng.Run(ctx, s.TickInterval) }()

	logger.Info("watching configuration", "dir", dir, "hash", eng.Hash())
	printWatchRender(opts, formatter, eng, logger)

	for {
		select {
		case <-ctx.Done():
			if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
				return fail(formatter, WrapExitError(ExitCommandError, "animation ticker failed", err))
			}
			return nil
		case file, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			_, spec, err := compileConfig(path, copts)
			if err != nil {
				logger.Error("reload failed, keeping previous configuration", "file", file, "error", err)
				continue
			}
			changed := eng.Reload(spec)
			logger.Info("configuration reloaded", "file", file, "hash", spec.Hash, "changed", changed)
			if changed {
				printWatchRender(opts, formatter, eng, logger)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

// watchDir returns the directory to watch for path.
func watchDir(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return path, nil
	}
	return filepath.Dir(path), nil
}

func printWatchRender(opts *WatchOptions, f *OutputFormatter, eng *engine.Engine, logger *slog.Logger) {
	if opts.Display == "" {
		return
	}
	out, err := eng.RenderE(opts.Display, opts.Entity)
	if err != nil {
		logger.Warn("render failed", "display", opts.Display, "error", err)
		return
	}
	if f.JSON() {
		_ = f.Success(map[string]string{"display": opts.Display, "hash": eng.Hash(), "rendered": out})
		return
	}
	fmt.Fprintln(f.Writer, out)
}
