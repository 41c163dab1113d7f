package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/RevCBH/revwatch/internal/changes"
	"github.com/RevCBH/revwatch/internal/evaluate"
	"github.com/RevCBH/revwatch/internal/severity"
)

// StatusSymbol marks a label operation outcome
type StatusSymbol string

const (
	SymbolOK     StatusSymbol = "✓"
	SymbolFailed StatusSymbol = "✗"
)

// outputJSON writes v as indented JSON
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeReports prints reports as text or a JSON array
func writeReports(w io.Writer, reports []*evaluate.Report, asJSON bool) error {
	if asJSON {
		if reports == nil {
			reports = []*evaluate.Report{}
		}
		return outputJSON(w, reports)
	}
	for _, rep := range reports {
		fmt.Fprint(w, formatReport(rep))
	}
	return nil
}

// formatReport renders one report for the terminal
func formatReport(rep *evaluate.Report) string {
	var b strings.Builder

	header := fmt.Sprintf("#%d %s", rep.PR.Number, rep.PR.Title)
	if rep.DryRun {
		header += " (dry run)"
	}
	b.WriteString(header + "\n")

	if rep.Closed {
		state := "closed"
		if rep.PR.Merged {
			state = "merged"
		}
		fmt.Fprintf(&b, "  state:    %s, labels cleared\n", state)
		if rep.Prior != "" {
			fmt.Fprintf(&b, "  cleared:  %s\n", rep.Prior)
		}
		writeOps(&b, rep.Ops)
		writeNotice(&b, rep)
		b.WriteString("\n")
		return b.String()
	}

	snap := rep.Snapshot
	fmt.Fprintf(&b, "  status:   %s (%d/%d approvals)\n", snap.Status, snap.ApprovalCount, rep.MinApprovals)
	fmt.Fprintf(&b, "  reason:   %s\n", snap.Reason)
	fmt.Fprintf(&b, "  waiting:  %s\n", rep.ElapsedLabel)
	fmt.Fprintf(&b, "  size:     %s (+%d/-%d in %d files)\n",
		rep.Changes.Size, rep.Changes.TotalAdditions, rep.Changes.TotalDeletions, len(rep.Changes.Files))
	switch {
	case rep.Severity != "":
		change := "unchanged"
		switch {
		case rep.Decision.Moved():
			change = "changed"
		case rep.Decision.Changed():
			change = "repaired"
		}
		fmt.Fprintf(&b, "  severity: %s (%s)\n", rep.Severity, change)
	case rep.Prior != "":
		fmt.Fprintf(&b, "  cleared:  %s\n", rep.Prior)
	}
	if len(snap.PendingReviewers) > 0 {
		fmt.Fprintf(&b, "  pending:  %s\n", strings.Join(snap.PendingReviewers, ", "))
	}
	writeOps(&b, rep.Ops)
	writeNotice(&b, rep)
	b.WriteString("\n")
	return b.String()
}

func writeNotice(b *strings.Builder, rep *evaluate.Report) {
	switch {
	case rep.Notified:
		fmt.Fprintf(b, "  notified (%s)\n", rep.Notice)
	case rep.NotifyError != "":
		fmt.Fprintf(b, "  notify failed: %s\n", rep.NotifyError)
	}
}

func writeOps(b *strings.Builder, ops []severity.OpResult) {
	for _, op := range ops {
		if op.OK() {
			// Successful removals are omitted
			if op.Op == severity.OpAdd {
				fmt.Fprintf(b, "  %s %s %s\n", SymbolOK, op.Op, op.Label)
			}
			continue
		}
		fmt.Fprintf(b, "  %s %s %s: %v\n", SymbolFailed, op.Op, op.Label, op.Err)
	}
}

// formatChangeSet renders a diff summary like git's --stat
func formatChangeSet(cs changes.ChangeSet) string {
	var b strings.Builder
	width := 0
	for _, f := range cs.Files {
		if len(f.Filename) > width {
			width = len(f.Filename)
		}
	}
	for _, f := range cs.Files {
		fmt.Fprintf(&b, " %-*s  +%d -%d  (%s)\n", width, f.Filename, f.Additions, f.Deletions, changes.FileKind(f.Filename))
	}
	fmt.Fprintf(&b, " %d files changed, %d insertions(+), %d deletions(-)\n",
		len(cs.Files), cs.TotalAdditions, cs.TotalDeletions)
	fmt.Fprintf(&b, " size: %s\n", cs.Size)
	return b.String()
}
