package store

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Evaluation is one recorded pass over a pull request
type Evaluation struct {
	ID             string
	Repo           string
	PRNumber       int
	Status         string
	Severity       string
	ElapsedMinutes float64
	MarkerChanged  bool
	Notified       bool
	EvaluatedAt    time.Time
}

// RecordEvaluation inserts e, assigning an ID and timestamp when unset
func (db *DB) RecordEvaluation(ctx context.Context, e *Evaluation) error {
	if e.ID == "" {
		e.ID = ulid.Make().String()
	}
	if e.EvaluatedAt.IsZero() {
		e.EvaluatedAt = time.Now().UTC()
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO evaluations (
			id, repo, pr_number, status, severity, elapsed_minutes,
			marker_changed, notified, evaluated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID,
		e.Repo,
		e.PRNumber,
		e.Status,
		e.Severity,
		e.ElapsedMinutes,
		e.MarkerChanged,
		e.Notified,
		e.EvaluatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record evaluation: %w", err)
	}
	return nil
}

// ListEvaluations returns the most recent evaluations for a pull request,
// newest first. ULIDs sort by creation time.
func (db *DB) ListEvaluations(ctx context.Context, repo string, pr int, limit int) ([]Evaluation, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, repo, pr_number, status, severity, elapsed_minutes,
		       marker_changed, notified, evaluated_at
		FROM evaluations
		WHERE repo = ? AND pr_number = ?
		ORDER BY id DESC
		LIMIT ?
	`, repo, pr, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer rows.Close()

	var out []Evaluation
	for rows.Next() {
		var e Evaluation
		if err := rows.Scan(
			&e.ID,
			&e.Repo,
			&e.PRNumber,
			&e.Status,
			&e.Severity,
			&e.ElapsedMinutes,
			&e.MarkerChanged,
			&e.Notified,
			&e.EvaluatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
