package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// SweepOptions holds flags for the sweep command
type SweepOptions struct {
	JSON bool
}

// NewSweepCmd creates the sweep command
func NewSweepCmd(app *App) *cobra.Command {
	opts := SweepOptions{}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Evaluate every open pull request",
		Long: `Sweep evaluates all open pull requests, oldest first. A failure on one
pull request is reported and does not stop the rest. Intended to run on a
schedule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunSweep(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON instead of formatted text")

	return cmd
}

// RunSweep evaluates all open pull requests and prints the reports
func (a *App) RunSweep(cmd *cobra.Command, opts SweepOptions) error {
	rt, err := a.loadRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	signals := NewSignalHandler(cancel, rt.Logger)
	signals.Start()
	defer signals.Stop()

	reports, sweepErr := rt.Evaluator.Sweep(ctx)
	if err := writeReports(cmd.OutOrStdout(), reports, opts.JSON); err != nil {
		return err
	}
	return sweepErr
}
