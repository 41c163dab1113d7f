// Package severity reconciles a pull request's persisted severity marker
// with the severity derived from its current age.
package severity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/RevCBH/revwatch/internal/aging"
)

// Store persists the marker for each pull request as a set of labels.
// RemoveLabel must succeed when the label is not present.
type Store interface {
	// CurrentMarkers returns every severity on pr, least severe first.
	// More than one means an earlier update was only partly applied.
	CurrentMarkers(ctx context.Context, pr int) ([]aging.Severity, error)
	AddLabel(ctx context.Context, pr int, label string) error
	RemoveLabel(ctx context.Context, pr int, label string) error
	// Marked lists every pull request that carries a severity label
	Marked(ctx context.Context) ([]int, error)
}

// Decision is the minimal set of label mutations to bring the marker in sync
type Decision struct {
	NewMarker aging.Severity `json:"new_marker"`
	// Prior is the most severe marker present before the decision
	Prior  aging.Severity `json:"prior,omitempty"`
	Remove []string       `json:"remove"`
	Add    []string       `json:"add"`
}

// Changed reports whether the decision mutates anything
func (d Decision) Changed() bool {
	return len(d.Remove) > 0 || len(d.Add) > 0
}

// Moved reports whether the effective marker changes. A decision that only
// repairs leftover labels from a partial update is Changed but not Moved.
func (d Decision) Moved() bool {
	return d.Changed() && d.Prior != d.NewMarker
}

// Escalate decides which labels to remove and add to move the marker from
// the severities present to current. It returns an empty decision only when
// current is the single marker present.
func Escalate(current aging.Severity, present []aging.Severity) Decision {
	prior, _ := aging.Highest(present)
	d := Decision{NewMarker: current, Prior: prior, Remove: []string{}, Add: []string{}}
	if len(present) == 1 && present[0] == current {
		return d
	}

	newLabel := current.Label()
	for _, label := range aging.AllLabels() {
		if label != newLabel {
			d.Remove = append(d.Remove, label)
		}
	}
	d.Add = append(d.Add, newLabel)
	return d
}

// Op names a label mutation
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

// OpResult is the outcome of a single label mutation
type OpResult struct {
	Op    Op     `json:"op"`
	Label string `json:"label"`
	Err   error  `json:"-"`
}

// OK reports whether the operation succeeded
func (r OpResult) OK() bool {
	return r.Err == nil
}

// Result collects per-label outcomes
type Result struct {
	Ops []OpResult `json:"ops"`
}

// Failed returns the operations that did not succeed
func (r Result) Failed() []OpResult {
	var failed []OpResult
	for _, op := range r.Ops {
		if !op.OK() {
			failed = append(failed, op)
		}
	}
	return failed
}

// Tracker applies marker decisions against a Store
type Tracker struct {
	store Store
	log   *zap.Logger
}

// NewTracker creates a tracker. A nil logger discards output.
func NewTracker(store Store, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{store: store, log: log}
}

// Apply performs the decision's removals and then its additions, one label
// at a time. Failures are logged and recorded but never stop later operations.
func (t *Tracker) Apply(ctx context.Context, pr int, d Decision) Result {
	var res Result
	for _, label := range d.Remove {
		res.Ops = append(res.Ops, t.remove(ctx, pr, label))
	}
	for _, label := range d.Add {
		err := t.store.AddLabel(ctx, pr, label)
		if err != nil {
			t.log.Warn("could not add label",
				zap.Int("pr", pr), zap.String("label", label), zap.Error(err))
		} else {
			t.log.Info("labeled pull request",
				zap.Int("pr", pr), zap.String("label", label))
		}
		res.Ops = append(res.Ops, OpResult{Op: OpAdd, Label: label, Err: err})
	}
	return res
}

// Sync reads the current marker, decides and applies. Only a failure to
// read the marker is returned as an error; nothing is mutated in that case.
func (t *Tracker) Sync(ctx context.Context, pr int, current aging.Severity) (Decision, Result, error) {
	present, err := t.store.CurrentMarkers(ctx, pr)
	if err != nil {
		return Decision{}, Result{}, fmt.Errorf("read marker for #%d: %w", pr, err)
	}

	d := Escalate(current, present)
	if !d.Changed() {
		t.log.Debug("severity unchanged", zap.Int("pr", pr), zap.String("severity", string(current)))
		return d, Result{}, nil
	}

	t.log.Info("severity changed",
		zap.Int("pr", pr),
		zap.String("from", string(d.Prior)),
		zap.Int("markers", len(present)),
		zap.String("to", string(current)))
	return d, t.Apply(ctx, pr, d), nil
}

// Marker returns the most severe marker on pr, or false when there is none
func (t *Tracker) Marker(ctx context.Context, pr int) (aging.Severity, bool, error) {
	present, err := t.store.CurrentMarkers(ctx, pr)
	if err != nil {
		return "", false, fmt.Errorf("read marker for #%d: %w", pr, err)
	}
	s, ok := aging.Highest(present)
	return s, ok, nil
}

// Clear removes every severity label plus any extra labels. Used once a pull
// request is fully approved, merged, or closed.
func (t *Tracker) Clear(ctx context.Context, pr int, extra ...string) Result {
	var res Result
	labels := append(aging.AllLabels(), extra...)
	for _, label := range labels {
		res.Ops = append(res.Ops, t.remove(ctx, pr, label))
	}
	return res
}

func (t *Tracker) remove(ctx context.Context, pr int, label string) OpResult {
	err := t.store.RemoveLabel(ctx, pr, label)
	if err != nil {
		t.log.Warn("could not remove label",
			zap.Int("pr", pr), zap.String("label", label), zap.Error(err))
	}
	return OpResult{Op: OpRemove, Label: label, Err: err}
}
