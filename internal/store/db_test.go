package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RevCBH/revwatch/internal/aging"
	"github.com/RevCBH/revwatch/internal/severity"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// TestOpenWALMode verifies that WAL mode is enabled for file databases
func TestOpenWALMode(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "markers.db"))
	require.NoError(t, err)
	defer db.Close()

	var journalMode string
	require.NoError(t, db.conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)
}

// TestOpenMigration verifies that all tables exist after open
func TestOpenMigration(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"labels", "evaluations"} {
		var name string
		err := db.conn.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
	}
}

func TestMarkers_SatisfiesSeverityStore(t *testing.T) {
	var _ severity.Store = (*Markers)(nil)
}

func TestMarkers_AddRemove(t *testing.T) {
	db := openTestDB(t)
	m := db.Markers("owner/repo")
	ctx := context.Background()

	present, err := m.CurrentMarkers(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, present)

	require.NoError(t, m.AddLabel(ctx, 1, "review-severity:high"))
	require.NoError(t, m.AddLabel(ctx, 1, "review-severity:high"))
	require.NoError(t, m.AddLabel(ctx, 1, "review-escalated"))

	labels, err := m.Labels(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"review-escalated", "review-severity:high"}, labels)

	present, err = m.CurrentMarkers(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []aging.Severity{aging.SeverityHigh}, present)

	require.NoError(t, m.RemoveLabel(ctx, 1, "review-severity:high"))
	require.NoError(t, m.RemoveLabel(ctx, 1, "review-severity:high"))

	present, err = m.CurrentMarkers(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, present)
}

func TestMarkers_ScopedByRepoAndPR(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Markers("a/one").AddLabel(ctx, 1, "review-severity:low"))

	present, err := db.Markers("a/two").CurrentMarkers(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, present)

	present, err = db.Markers("a/one").CurrentMarkers(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, present)
}

func TestMarkers_ReportsEveryMarker(t *testing.T) {
	db := openTestDB(t)
	m := db.Markers("owner/repo")
	ctx := context.Background()

	require.NoError(t, m.AddLabel(ctx, 1, "review-severity:medium"))
	require.NoError(t, m.AddLabel(ctx, 1, "review-severity:low"))

	present, err := m.CurrentMarkers(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []aging.Severity{aging.SeverityLow, aging.SeverityMedium}, present)
}

func TestMarkers_Marked(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	m := db.Markers("owner/repo")

	require.NoError(t, m.AddLabel(ctx, 7, "review-severity:high"))
	require.NoError(t, m.AddLabel(ctx, 7, "review-escalated"))
	require.NoError(t, m.AddLabel(ctx, 2, "review-severity:low"))
	require.NoError(t, m.AddLabel(ctx, 5, "review-escalated"))
	require.NoError(t, db.Markers("other/repo").AddLabel(ctx, 1, "review-severity:low"))

	marked, err := m.Marked(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 7}, marked)

	require.NoError(t, m.RemoveLabel(ctx, 7, "review-severity:high"))
	marked, err = m.Marked(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, marked)
}

func TestMarkers_WithTracker(t *testing.T) {
	db := openTestDB(t)
	m := db.Markers("owner/repo")
	tr := severity.NewTracker(m, nil)
	ctx := context.Background()

	_, _, err := tr.Sync(ctx, 3, aging.SeverityLow)
	require.NoError(t, err)
	_, _, err = tr.Sync(ctx, 3, aging.SeverityCritical)
	require.NoError(t, err)

	labels, err := m.Labels(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"review-severity:critical"}, labels)

	res := tr.Clear(ctx, 3, "review-escalated")
	assert.Empty(t, res.Failed())
	labels, err = m.Labels(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestEvaluations_RecordAndList(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first := &Evaluation{Repo: "owner/repo", PRNumber: 4, Status: "ignored", Severity: "low", ElapsedMinutes: 10, MarkerChanged: true}
	second := &Evaluation{Repo: "owner/repo", PRNumber: 4, Status: "stalled", Severity: "medium", ElapsedMinutes: 2000, MarkerChanged: true, Notified: true}
	other := &Evaluation{Repo: "owner/repo", PRNumber: 5, Status: "ignored", Severity: "low"}

	require.NoError(t, db.RecordEvaluation(ctx, first))
	require.NoError(t, db.RecordEvaluation(ctx, second))
	require.NoError(t, db.RecordEvaluation(ctx, other))
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.EvaluatedAt.IsZero())

	evals, err := db.ListEvaluations(ctx, "owner/repo", 4, 10)
	require.NoError(t, err)
	require.Len(t, evals, 2)
	assert.Equal(t, second.ID, evals[0].ID)
	assert.Equal(t, "stalled", evals[0].Status)
	assert.True(t, evals[0].Notified)
	assert.InDelta(t, 2000.0, evals[0].ElapsedMinutes, 0.001)
	assert.Equal(t, first.ID, evals[1].ID)
	assert.False(t, evals[1].Notified)
}
