package escalate

import (
	"context"
	"sort"

	"github.com/RevCBH/revwatch/internal/aging"
)

// Kind identifies what happened to the pull request
type Kind string

const (
	// KindSeverity reports that a PR reached a new severity
	KindSeverity Kind = "severity"
	// KindApproved reports that a marked PR became fully approved
	KindApproved Kind = "approved"
	// KindMerged reports that a marked PR was merged
	KindMerged Kind = "merged"
	// KindClosed reports that a marked PR was closed without merging
	KindClosed Kind = "closed"
	// KindDigest summarizes every PR still waiting after a sweep
	KindDigest Kind = "digest"
)

// Escalation is a notification about a pull request waiting for review.
// For resolution kinds Severity is the marker the PR carried; for a digest
// it is the highest severity among Items.
type Escalation struct {
	Kind     Kind              // Empty means KindSeverity
	Severity aging.Severity    // Current severity of the PR
	Subject  string            // Which PR, e.g. "owner/repo#42"
	URL      string            // Link to the PR
	Title    string            // Short summary (one line)
	Message  string            // Detailed explanation
	Context  map[string]string // Additional fields (author, reviewers, size)
	Items    []Escalation      // Digest entries, one per waiting PR
}

// kind resolves the empty Kind to KindSeverity
func (e Escalation) kind() Kind {
	if e.Kind == "" {
		return KindSeverity
	}
	return e.Kind
}

// sortedContext returns the context keys in a stable order
func (e Escalation) sortedContext() []string {
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// countBySeverity tallies digest items per severity
func (e Escalation) countBySeverity() map[aging.Severity]int {
	counts := make(map[aging.Severity]int)
	for _, item := range e.Items {
		counts[item.Severity]++
	}
	return counts
}

// Escalator is the interface for notifying reviewers
type Escalator interface {
	// Escalate sends a notification.
	// Returns nil if notification was sent successfully.
	// Implementations should respect context cancellation.
	Escalate(ctx context.Context, e Escalation) error

	// Name returns the escalator type for logging
	Name() string
}

// Nop discards escalations. Used for dry runs and the "nop" backend.
type Nop struct{}

// Escalate does nothing
func (Nop) Escalate(ctx context.Context, e Escalation) error { return nil }

// Name returns "nop"
func (Nop) Name() string { return "nop" }
