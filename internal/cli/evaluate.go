package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/RevCBH/revwatch/internal/evaluate"
)

// EvaluateOptions holds flags for the evaluate command
type EvaluateOptions struct {
	Numbers []int
	DryRun  bool // Compute the report without labeling or notifying
	JSON    bool // Output as JSON instead of formatted text
}

// NewEvaluateCmd creates the evaluate command
func NewEvaluateCmd(app *App) *cobra.Command {
	opts := EvaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate <pr-number>...",
		Short: "Classify and escalate specific pull requests",
		Long: `Evaluate fetches each pull request, classifies its review state, computes
its severity from its age, reconciles the severity label and notifies when
the severity changed. Use --dry-run to preview without side effects.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				n, err := strconv.Atoi(arg)
				if err != nil || n < 1 {
					return fmt.Errorf("invalid pull request number %q", arg)
				}
				opts.Numbers = append(opts.Numbers, n)
			}
			return app.RunEvaluate(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Preview the result without changing labels or notifying")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON instead of formatted text")

	return cmd
}

// RunEvaluate evaluates each requested pull request in order
func (a *App) RunEvaluate(cmd *cobra.Command, opts EvaluateOptions) error {
	rt, err := a.loadRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	run := rt.Evaluator.Evaluate
	if opts.DryRun {
		run = rt.Evaluator.DryRun
	}

	var (
		reports []*evaluate.Report
		errs    []error
	)
	for _, n := range opts.Numbers {
		rep, err := run(ctx, n)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reports = append(reports, rep)
	}

	if err := writeReports(cmd.OutOrStdout(), reports, opts.JSON); err != nil {
		return err
	}
	return errors.Join(errs...)
}
