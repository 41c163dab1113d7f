package escalate

import (
	"context"

	"github.com/RevCBH/revwatch/internal/aging"
)

// Threshold forwards only escalations at or above a minimum severity.
// Digests are trimmed to the qualifying items and dropped when none remain.
type Threshold struct {
	next Escalator
	min  aging.Severity
}

// NewThreshold wraps next so that it only sees severities of at least min
func NewThreshold(next Escalator, min aging.Severity) *Threshold {
	return &Threshold{next: next, min: min}
}

// Escalate forwards e when it is severe enough
func (t *Threshold) Escalate(ctx context.Context, e Escalation) error {
	if e.kind() == KindDigest {
		var (
			items []Escalation
			sevs  []aging.Severity
		)
		for _, item := range e.Items {
			if t.passes(item.Severity) {
				items = append(items, item)
				sevs = append(sevs, item.Severity)
			}
		}
		if len(items) == 0 {
			return nil
		}
		e.Items = items
		e.Severity, _ = aging.Highest(sevs)
		return t.next.Escalate(ctx, e)
	}

	if !t.passes(e.Severity) {
		return nil
	}
	return t.next.Escalate(ctx, e)
}

func (t *Threshold) passes(s aging.Severity) bool {
	return s.Rank() >= t.min.Rank()
}

// Name returns the wrapped escalator's name
func (t *Threshold) Name() string {
	return t.next.Name()
}
