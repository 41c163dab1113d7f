package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RevCBH/revwatch/internal/aging"
	"github.com/RevCBH/revwatch/internal/changes"
	"github.com/RevCBH/revwatch/internal/escalate"
	"github.com/RevCBH/revwatch/internal/evaluate"
	"github.com/RevCBH/revwatch/internal/review"
	"github.com/RevCBH/revwatch/internal/severity"
)

func sampleReport() *evaluate.Report {
	return &evaluate.Report{
		PR: review.PullRequest{Number: 42, Title: "Add retry to uploader"},
		Changes: changes.Summarize([]changes.File{
			{Filename: "uploader.go", Additions: 40, Deletions: 5},
		}),
		Snapshot: review.Snapshot{
			Status:           review.StatusStalled,
			ApprovalCount:    1,
			Reason:           "has activity",
			PendingReviewers: []string{"carol"},
		},
		MinApprovals:   2,
		ElapsedMinutes: 2000,
		ElapsedLabel:   "1 day and 9 hours",
		Severity:       aging.SeverityMedium,
		Decision:       severity.Decision{NewMarker: aging.SeverityMedium, Add: []string{"review-severity:medium"}},
		Ops: []severity.OpResult{
			{Op: severity.OpRemove, Label: "review-severity:low"},
			{Op: severity.OpAdd, Label: "review-severity:medium"},
		},
		Notice:   escalate.KindSeverity,
		Notified: true,
	}
}

func TestFormatReport(t *testing.T) {
	out := formatReport(sampleReport())

	assert.Contains(t, out, "#42 Add retry to uploader\n")
	assert.Contains(t, out, "status:   stalled (1/2 approvals)")
	assert.Contains(t, out, "waiting:  1 day and 9 hours")
	assert.Contains(t, out, "size:     Small (+40/-5 in 1 files)")
	assert.Contains(t, out, "severity: medium (changed)")
	assert.Contains(t, out, "pending:  carol")
	assert.Contains(t, out, "✓ add review-severity:medium")
	assert.NotContains(t, out, "review-severity:low")
	assert.Contains(t, out, "notified (severity)")
}

func TestFormatReport_Repaired(t *testing.T) {
	rep := sampleReport()
	rep.Decision.Prior = aging.SeverityMedium
	rep.Notified = false

	out := formatReport(rep)
	assert.Contains(t, out, "severity: medium (repaired)")
	assert.NotContains(t, out, "notified")
}

func TestFormatReport_FailedOp(t *testing.T) {
	rep := sampleReport()
	rep.Ops[1].Err = errors.New("forbidden")
	rep.Notified = false
	rep.NotifyError = "slack down"

	out := formatReport(rep)
	assert.Contains(t, out, "✗ add review-severity:medium: forbidden")
	assert.Contains(t, out, "notify failed: slack down")
}

func TestFormatReport_Closed(t *testing.T) {
	rep := &evaluate.Report{
		PR:     review.PullRequest{Number: 7, Title: "Old work", Merged: true},
		Closed: true,
		DryRun: true,
	}
	out := formatReport(rep)
	assert.Contains(t, out, "#7 Old work (dry run)")
	assert.Contains(t, out, "state:    merged, labels cleared")
	assert.NotContains(t, out, "status:")

	rep.Prior = aging.SeverityHigh
	rep.Notice = escalate.KindMerged
	rep.Notified = true
	out = formatReport(rep)
	assert.Contains(t, out, "cleared:  high")
	assert.Contains(t, out, "notified (merged)")
}

func TestWriteReports_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReports(&buf, nil, true))
	assert.JSONEq(t, `[]`, buf.String())

	buf.Reset()
	require.NoError(t, writeReports(&buf, []*evaluate.Report{sampleReport()}, true))
	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "medium", got[0]["severity"])
	assert.Equal(t, "1 day and 9 hours", got[0]["elapsed_label"])
}

func TestFormatChangeSet(t *testing.T) {
	cs := changes.Summarize([]changes.File{
		{Filename: "main.go", Additions: 10, Deletions: 2},
		{Filename: "docs/README.md", Additions: 3},
	})
	out := formatChangeSet(cs)

	assert.Contains(t, out, " main.go         +10 -2  (Go file)\n")
	assert.Contains(t, out, " docs/README.md  +3 -0  (documentation)\n")
	assert.Contains(t, out, " 2 files changed, 13 insertions(+), 2 deletions(-)\n")
	assert.Contains(t, out, " size: Small\n")
}
