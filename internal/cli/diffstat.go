package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/RevCBH/revwatch/internal/changes"
)

// DiffstatOptions holds flags for the diffstat command
type DiffstatOptions struct {
	Path string // Diff file, "-" for stdin
	JSON bool
}

// NewDiffstatCmd creates the diffstat command
func NewDiffstatCmd(app *App) *cobra.Command {
	opts := DiffstatOptions{Path: "-"}

	cmd := &cobra.Command{
		Use:   "diffstat [diff-file]",
		Short: "Summarize a unified diff the way pull requests are sized",
		Long: `Diffstat reads a unified diff (for example from "git diff") and prints
per-file additions and deletions, totals, and the size class. Reads stdin
when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Path = args[0]
			}
			return app.RunDiffstat(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON instead of formatted text")

	return cmd
}

// RunDiffstat parses the diff and prints its change set
func (a *App) RunDiffstat(cmd *cobra.Command, opts DiffstatOptions) error {
	var r io.Reader = cmd.InOrStdin()
	if opts.Path != "-" {
		f, err := os.Open(opts.Path)
		if err != nil {
			return fmt.Errorf("open diff: %w", err)
		}
		defer f.Close()
		r = f
	}

	cs, err := changes.FromDiff(r)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.JSON {
		return outputJSON(out, cs)
	}
	fmt.Fprint(out, formatChangeSet(cs))
	return nil
}
