package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/marquee/internal/config"
	"github.com/roach88/marquee/internal/engine"
	"github.com/roach88/marquee/internal/ir"
)

// settings returns the override or the environment settings.
func (o *RootOptions) settings() (config.Settings, error) {
	if o.Settings != nil {
		return *o.Settings, nil
	}
	s, err := config.LoadSettings()
	if err != nil {
		return config.Settings{}, WrapExitError(ExitCommandError, "invalid environment", err)
	}
	o.Settings = &s
	return s, nil
}

// logger builds a logger from settings; --verbose forces debug.
func (o *RootOptions) logger(w io.Writer) (*slog.Logger, error) {
	s, err := o.settings()
	if err != nil {
		return nil, err
	}
	if o.Verbose {
		s.LogLevel = "debug"
	}
	return s.NewLogger(w), nil
}

// configPath picks the positional path or falls back to settings.
func (o *RootOptions) configPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	s, err := o.settings()
	if err != nil {
		return "", err
	}
	return s.ConfigDir, nil
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// compileConfig loads and compiles path. Load errors are command errors
// (exit 2); compile errors are validation failures (exit 1).
func compileConfig(path string, opts config.CompileOptions) (*config.Loaded, *engine.Spec, error) {
	loaded, err := config.Load(path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	spec, errs := config.Compile(loaded, opts)
	if len(errs) > 0 {
		return loaded, nil, WrapExitError(ExitFailure, "invalid configuration", errors.Join(errs...))
	}
	return loaded, spec, nil
}

// newEngine compiles path and loads it into an engine over src. Engine logs
// go to stderr only with --verbose.
func newEngine(opts *RootOptions, cmd *cobra.Command, path string, src ir.AttributeSource, eopts ...engine.Option) (*engine.Engine, *config.Loaded, error) {
	w := io.Discard
	if opts.Verbose {
		w = cmd.ErrOrStderr()
	}
	logger, err := opts.logger(w)
	if err != nil {
		return nil, nil, err
	}
	s, err := opts.settings()
	if err != nil {
		return nil, nil, err
	}

	loaded, spec, err := compileConfig(path, config.CompileOptions{ScriptTimeout: s.ScriptTimeout, Logger: logger})
	if err != nil {
		return nil, nil, err
	}
	e := engine.New(src, append([]engine.Option{engine.WithLogger(logger)}, eopts...)...)
	e.Reload(spec)
	return e, loaded, nil
}

// attrFlags are the attribute flags shared by preview commands.
type attrFlags struct {
	File string
	Set  []string
}

func (a *attrFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.File, "attrs", "", "YAML file of attribute values: entity -> token -> value (entity \"*\" applies to all)")
	cmd.Flags().StringArrayVar(&a.Set, "set", nil, "token=value for the rendered entity (repeatable)")
}

// source builds the attribute table. --set values apply to entity, or to
// every entity when entity is empty.
func (a *attrFlags) source(entity string) (ir.MapSource, error) {
	src := ir.MapSource{}
	if a.File != "" {
		data, err := os.ReadFile(a.File)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read attributes", err)
		}
		if err := yaml.Unmarshal(data, &src); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to parse attributes", err)
		}
		if src == nil {
			src = ir.MapSource{}
		}
	}

	target := entity
	if target == "" {
		target = "*"
	}
	for _, kv := range a.Set {
		token, value, ok := strings.Cut(kv, "=")
		token = strings.Trim(strings.TrimSpace(token), "%")
		if !ok || !ir.ValidTokenName(token) {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid --set %q: want token=value", kv))
		}
		src.Set(target, token, value)
	}
	return src, nil
}

// fail reports err through the formatter and returns it as an ExitError.
func fail(f *OutputFormatter, err error) error {
	code, message := errorParts(err)
	_ = f.Error(code, message, nil)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return WrapExitError(ExitCommandError, code, err)
}

// errorParts extracts a code and message for display.
func errorParts(err error) (string, string) {
	var le *config.LoadError
	if errors.As(err, &le) {
		return le.Code, le.Error()
	}
	var re *engine.RuntimeError
	if errors.As(err, &re) {
		return string(re.Code), re.Error()
	}
	return config.ErrCodeGeneric, err.Error()
}
