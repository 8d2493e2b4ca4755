package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/marquee/internal/engine"
	"github.com/roach88/marquee/internal/expr"
	"github.com/roach88/marquee/internal/ir"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	attrFlags
	Config string
	Entity string
}

// EvalResult is the outcome of evaluating one condition.
type EvalResult struct {
	Condition string       `json:"condition"`
	Entity    string       `json:"entity,omitempty"`
	Result    bool         `json:"result"`
	Issues    []expr.Issue `json:"issues,omitempty"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <condition>",
		Short: "Evaluate a condition",
		Long: `Evaluate a condition against fixture attribute values.

With --config, custom placeholders and animations from that configuration
are visible to the condition.

Exit codes:
  0 - Condition evaluated (true or false)
  1 - Condition is malformed (evaluates false)

Example:
  marquee eval "%player_health% < 5 AND %player_world% == nether" \
    --set player_health=3 --set player_world=Nether`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "configuration providing custom placeholders")
	cmd.Flags().StringVarP(&opts.Entity, "entity", "e", "", "entity id to evaluate for")
	opts.register(cmd)

	return cmd
}

func runEval(opts *EvalOptions, condition string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	src, err := opts.source(opts.Entity)
	if err != nil {
		return fail(formatter, err)
	}

	var eng *engine.Engine
	if opts.Config != "" {
		eng, _, err = newEngine(opts.RootOptions, cmd, opts.Config, src)
		if err != nil {
			return fail(formatter, err)
		}
	} else {
		logger, err := opts.logger(formatter.GetErrWriter())
		if err != nil {
			return fail(formatter, err)
		}
		eng = engine.New(src, engine.WithLogger(logger))
	}

	cond := ir.Condition(condition)
	result := EvalResult{
		Condition: condition,
		Entity:    opts.Entity,
		Result:    eng.Evaluate(cond, opts.Entity),
		Issues:    expr.Validate(cond),
	}

	if formatter.JSON() {
		if len(result.Issues) > 0 {
			if err := formatter.Respond(CLIResponse{
				Status: "error",
				Data:   result,
				Error:  &CLIError{Code: result.Issues[0].Code, Message: result.Issues[0].Message},
			}); err != nil {
				return err
			}
			return NewExitError(ExitFailure, "malformed condition")
		}
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, result.Result)
	for _, issue := range result.Issues {
		fmt.Fprintf(formatter.Writer, "  %s: %s (%q)\n", issue.Code, issue.Message, issue.Clause)
	}
	if len(result.Issues) > 0 {
		return NewExitError(ExitFailure, "malformed condition")
	}
	return nil
}
