package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/RevCBH/revwatch/internal/aging"
)

// NewVersionCmd creates the version command
func NewVersionCmd(app *App) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display version information and built-in severity thresholds",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := app.versionInfo.withDefaults()
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, info.Version)
				return nil
			}
			fmt.Fprintf(out, "revwatch version %s\n", info.Version)
			fmt.Fprintf(out, "commit: %s\n", info.Commit)
			fmt.Fprintf(out, "built: %s\n", info.Date)
			writeThresholds(out, aging.DefaultThresholds())
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version")

	return cmd
}

func (v VersionInfo) withDefaults() VersionInfo {
	if v.Version == "" {
		v.Version = "dev"
	}
	if v.Commit == "" {
		v.Commit = "unknown"
	}
	if v.Date == "" {
		v.Date = "unknown"
	}
	return v
}

// writeThresholds prints "label prefix" plus one "severity >= age" pair per level
func writeThresholds(w io.Writer, t aging.Thresholds) {
	minutes := []float64{t.Low, t.Medium, t.High, t.Critical}
	parts := make([]string, len(aging.AllSeverities))
	for i, s := range aging.AllSeverities {
		d := time.Duration(minutes[i] * float64(time.Minute))
		parts[i] = fmt.Sprintf("%s>=%s", s, d)
	}
	fmt.Fprintf(w, "labels: %s*\n", aging.LabelPrefix)
	fmt.Fprintf(w, "default thresholds: %s\n", strings.Join(parts, " "))
}
