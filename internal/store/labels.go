package store

import (
	"context"
	"fmt"
	"time"

	"github.com/RevCBH/revwatch/internal/aging"
)

// Markers scopes the label table to one repository and satisfies
// severity.Store
type Markers struct {
	db   *DB
	repo string
}

// Markers returns the marker store for repo ("owner/name")
func (db *DB) Markers(repo string) *Markers {
	return &Markers{db: db, repo: repo}
}

// CurrentMarkers returns every severity label stored for pr, least severe first
func (m *Markers) CurrentMarkers(ctx context.Context, pr int) ([]aging.Severity, error) {
	labels, err := m.Labels(ctx, pr)
	if err != nil {
		return nil, err
	}
	return aging.Severities(labels), nil
}

// Marked lists the pull requests of this repository that still carry a
// severity label, in ascending order
func (m *Markers) Marked(ctx context.Context) ([]int, error) {
	rows, err := m.db.conn.QueryContext(ctx,
		`SELECT DISTINCT pr_number FROM labels
		 WHERE repo = ? AND label IN (?, ?, ?, ?)
		 ORDER BY pr_number`,
		m.repo,
		aging.SeverityLow.Label(), aging.SeverityMedium.Label(),
		aging.SeverityHigh.Label(), aging.SeverityCritical.Label())
	if err != nil {
		return nil, fmt.Errorf("failed to query marked pull requests: %w", err)
	}
	defer rows.Close()

	var prs []int
	for rows.Next() {
		var pr int
		if err := rows.Scan(&pr); err != nil {
			return nil, fmt.Errorf("failed to scan pull request number: %w", err)
		}
		prs = append(prs, pr)
	}
	return prs, rows.Err()
}

// Labels returns the labels stored for pr, sorted by name
func (m *Markers) Labels(ctx context.Context, pr int) ([]string, error) {
	rows, err := m.db.conn.QueryContext(ctx,
		`SELECT label FROM labels WHERE repo = ? AND pr_number = ? ORDER BY label`,
		m.repo, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

// AddLabel stores label for pr; adding an existing label is a no-op
func (m *Markers) AddLabel(ctx context.Context, pr int, label string) error {
	_, err := m.db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO labels (repo, pr_number, label, added_at) VALUES (?, ?, ?, ?)`,
		m.repo, pr, label, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to add label: %w", err)
	}
	return nil
}

// RemoveLabel deletes label for pr; removing an absent label is a no-op
func (m *Markers) RemoveLabel(ctx context.Context, pr int, label string) error {
	_, err := m.db.conn.ExecContext(ctx,
		`DELETE FROM labels WHERE repo = ? AND pr_number = ? AND label = ?`,
		m.repo, pr, label)
	if err != nil {
		return fmt.Errorf("failed to remove label: %w", err)
	}
	return nil
}
