// Package evaluate runs the review-aging pipeline for a single pull request:
// fetch, classify, age, reconcile the severity marker, and notify on change.
// Sweep runs it over every open or still-marked pull request.
package evaluate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RevCBH/revwatch/internal/aging"
	"github.com/RevCBH/revwatch/internal/changes"
	"github.com/RevCBH/revwatch/internal/escalate"
	"github.com/RevCBH/revwatch/internal/review"
	"github.com/RevCBH/revwatch/internal/severity"
	"github.com/RevCBH/revwatch/internal/store"
)

// Source fetches pull request data. *github.PRClient implements it.
type Source interface {
	PullRequest(ctx context.Context, number int) (review.PullRequest, error)
	OpenPullRequests(ctx context.Context) ([]review.PullRequest, error)
	Files(ctx context.Context, number int) ([]changes.File, error)
	Reviews(ctx context.Context, number int) ([]review.Event, error)
	IssueComments(ctx context.Context, number int) ([]review.Comment, error)
	ReviewComments(ctx context.Context, number int) ([]review.Comment, error)
	CreateComment(ctx context.Context, number int, body string) error
}

// Recorder persists evaluation history. *store.DB implements it.
type Recorder interface {
	RecordEvaluation(ctx context.Context, e *store.Evaluation) error
}

// Config holds pipeline settings
type Config struct {
	// MinApprovals is the approval threshold for fully_approved
	MinApprovals int

	// Thresholds map elapsed minutes to severity; must already be validated
	Thresholds aging.Thresholds

	// ExtraCleanup labels are removed alongside severity labels on clear
	ExtraCleanup []string

	// BotMarker identifies this tool's own comments
	BotMarker string

	// Acknowledge posts a BotMarker comment after a successful notification
	Acknowledge bool

	// Digest sends one summary of every waiting pull request after a sweep
	Digest bool

	// Team resolves display names and chat mentions; nil uses logins
	Team Team
}

// Team resolves GitHub logins for messages. *config.Config implements it.
type Team interface {
	MemberName(login string) string
	ReviewerMentions(logins []string) string
}

// Dependencies bundles external dependencies for injection
type Dependencies struct {
	Source    Source
	Store     severity.Store
	Escalator escalate.Escalator
	Recorder  Recorder         // optional
	Logger    *zap.Logger      // optional
	Now       func() time.Time // optional, defaults to time.Now
}

// Report is the outcome of evaluating one pull request
type Report struct {
	PR             review.PullRequest  `json:"pr"`
	Closed         bool                `json:"closed"`
	Changes        changes.ChangeSet   `json:"changes"`
	Snapshot       review.Snapshot     `json:"snapshot"`
	MinApprovals   int                 `json:"min_approvals"`
	ElapsedMinutes float64             `json:"elapsed_minutes"`
	ElapsedLabel   string              `json:"elapsed_label"`
	Severity       aging.Severity      `json:"severity,omitempty"`
	Decision       severity.Decision   `json:"decision"`
	Prior          aging.Severity      `json:"prior,omitempty"` // marker removed by a clear
	Ops            []severity.OpResult `json:"ops"`
	Notice         escalate.Kind       `json:"notice,omitempty"`
	Notified       bool                `json:"notified"`
	NotifyError    string              `json:"notify_error,omitempty"`
	DryRun         bool                `json:"dry_run"`
}

// Evaluator runs the pipeline against a source and marker store
type Evaluator struct {
	cfg       Config
	src       Source
	store     severity.Store
	escalator escalate.Escalator
	recorder  Recorder
	log       *zap.Logger
	now       func() time.Time
}

// New creates an evaluator with the given configuration and dependencies
func New(cfg Config, deps Dependencies) *Evaluator {
	if cfg.BotMarker == "" {
		cfg.BotMarker = review.DefaultBotMarker
	}
	e := &Evaluator{
		cfg:       cfg,
		src:       deps.Source,
		store:     deps.Store,
		escalator: deps.Escalator,
		recorder:  deps.Recorder,
		log:       deps.Logger,
		now:       deps.Now,
	}
	if e.escalator == nil {
		e.escalator = escalate.Nop{}
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// run carries the per-call collaborators that differ between live and dry runs
type run struct {
	tracker   *severity.Tracker
	escalator escalate.Escalator
	dry       bool
}

// Evaluate runs the full pipeline for one pull request, mutating the marker
// store and notifying on severity changes.
func (e *Evaluator) Evaluate(ctx context.Context, number int) (*Report, error) {
	return e.evaluate(ctx, number, run{
		tracker:   severity.NewTracker(e.store, e.log),
		escalator: e.escalator,
	})
}

// DryRun computes the same report as Evaluate without side effects. Label
// mutations go to an in-memory store seeded with the real marker.
func (e *Evaluator) DryRun(ctx context.Context, number int) (*Report, error) {
	mem := severity.NewMemoryStore()
	present, err := e.store.CurrentMarkers(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("read marker for #%d: %w", number, err)
	}
	for _, s := range present {
		if err := mem.AddLabel(ctx, number, s.Label()); err != nil {
			return nil, fmt.Errorf("seed dry run: %w", err)
		}
	}
	return e.evaluate(ctx, number, run{
		tracker:   severity.NewTracker(mem, e.log),
		escalator: escalate.Nop{},
		dry:       true,
	})
}

// Sweep evaluates every open pull request in order of creation, then every
// pull request that still carries a marker but is no longer open so that
// merged and closed ones are cleared. Failures are logged and joined;
// remaining pull requests are still evaluated. With Digest set, the waiting
// pull requests are summarized in one notification.
func (e *Evaluator) Sweep(ctx context.Context) ([]*Report, error) {
	prs, err := e.src.OpenPullRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open pull requests: %w", err)
	}

	var (
		reports []*Report
		errs    []error
		stale   int
	)
	evaluateOne := func(number int) bool {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			return false
		}
		rep, err := e.Evaluate(ctx, number)
		if err != nil {
			e.log.Error("evaluation failed", zap.Int("pr", number), zap.Error(err))
			errs = append(errs, fmt.Errorf("#%d: %w", number, err))
			return true
		}
		reports = append(reports, rep)
		return true
	}

	open := make(map[int]bool, len(prs))
	for _, pr := range prs {
		open[pr.Number] = true
		if !evaluateOne(pr.Number) {
			return reports, errors.Join(errs...)
		}
	}

	marked, err := e.store.Marked(ctx)
	if err != nil {
		e.log.Error("could not list marked pull requests", zap.Error(err))
		errs = append(errs, fmt.Errorf("list marked pull requests: %w", err))
	}
	for _, number := range marked {
		if open[number] {
			continue
		}
		stale++
		if !evaluateOne(number) {
			return reports, errors.Join(errs...)
		}
	}

	if e.cfg.Digest {
		e.digest(ctx, reports)
	}

	e.log.Info("sweep complete",
		zap.Int("open", len(prs)),
		zap.Int("stale", stale),
		zap.Int("evaluated", len(reports)),
		zap.Int("failed", len(errs)))
	return reports, errors.Join(errs...)
}

func (e *Evaluator) evaluate(ctx context.Context, number int, r run) (*Report, error) {
	log := e.log.With(zap.Int("pr", number))

	pr, err := e.src.PullRequest(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("fetch pull request #%d: %w", number, err)
	}
	rep := &Report{PR: pr, MinApprovals: e.cfg.MinApprovals, DryRun: r.dry}

	if !pr.IsOpen() {
		log.Info("pull request closed, clearing labels", zap.Bool("merged", pr.Merged))
		rep.Closed = true
		kind := escalate.KindClosed
		if pr.Merged {
			kind = escalate.KindMerged
		}
		e.resolve(ctx, log, r, rep, kind)
		return rep, nil
	}

	files, err := e.src.Files(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("fetch files for #%d: %w", number, err)
	}
	rep.Changes = changes.Summarize(files)

	in, err := e.classifierInput(ctx, pr)
	if err != nil {
		return nil, err
	}
	rep.Snapshot = review.Classify(in)

	rep.ElapsedMinutes = aging.Elapsed(pr.CreatedAt, e.now())
	rep.ElapsedLabel = aging.ElapsedLabel(rep.ElapsedMinutes)

	if rep.Snapshot.Status == review.StatusFullyApproved {
		log.Info("pull request fully approved, clearing labels",
			zap.Int("approvals", rep.Snapshot.ApprovalCount))
		e.resolve(ctx, log, r, rep, escalate.KindApproved)
		return rep, nil
	}

	rep.Severity = aging.SeverityFor(rep.ElapsedMinutes, e.cfg.Thresholds)
	decision, res, err := r.tracker.Sync(ctx, number, rep.Severity)
	if err != nil {
		return nil, err
	}
	rep.Decision = decision
	rep.Ops = res.Ops

	if decision.Moved() {
		e.notify(ctx, log, r, rep)
	}

	e.record(ctx, rep)
	return rep, nil
}

func (e *Evaluator) classifierInput(ctx context.Context, pr review.PullRequest) (review.Input, error) {
	reviews, err := e.src.Reviews(ctx, pr.Number)
	if err != nil {
		return review.Input{}, fmt.Errorf("fetch reviews for #%d: %w", pr.Number, err)
	}
	comments, err := e.src.IssueComments(ctx, pr.Number)
	if err != nil {
		return review.Input{}, fmt.Errorf("fetch comments for #%d: %w", pr.Number, err)
	}
	inline, err := e.src.ReviewComments(ctx, pr.Number)
	if err != nil {
		return review.Input{}, fmt.Errorf("fetch review comments for #%d: %w", pr.Number, err)
	}
	return review.Input{
		Author:             pr.Author,
		Reviews:            reviews,
		Comments:           comments,
		InlineComments:     inline,
		RequestedReviewers: pr.RequestedReviewers,
		MinApprovals:       e.cfg.MinApprovals,
		BotMarker:          e.cfg.BotMarker,
	}, nil
}

// resolve clears the marker of a pull request that no longer needs review.
// A notice goes out only when there was a marker to clear, so repeated runs
// stay quiet.
func (e *Evaluator) resolve(ctx context.Context, log *zap.Logger, r run, rep *Report, kind escalate.Kind) {
	number := rep.PR.Number
	prior, had, err := r.tracker.Marker(ctx, number)
	if err != nil {
		log.Warn("could not read marker before clearing", zap.Error(err))
	}
	rep.Ops = r.tracker.Clear(ctx, number, e.cfg.ExtraCleanup...).Ops

	if had {
		rep.Prior = prior
		e.send(ctx, log, r, rep, BuildResolution(rep, kind, e.cfg.Team))
	}
	e.record(ctx, rep)
}

// notify sends the escalation. Failures are reported, not returned: the
// marker has already moved and the next change will notify again.
func (e *Evaluator) notify(ctx context.Context, log *zap.Logger, r run, rep *Report) {
	if !e.send(ctx, log, r, rep, BuildEscalation(rep, e.cfg.Team)) {
		return
	}
	if !e.cfg.Acknowledge || r.dry {
		return
	}
	body := AcknowledgeComment(e.cfg.BotMarker, rep.Severity)
	if err := e.src.CreateComment(ctx, rep.PR.Number, body); err != nil {
		log.Warn("could not post acknowledgment", zap.Error(err))
	}
}

func (e *Evaluator) send(ctx context.Context, log *zap.Logger, r run, rep *Report, esc escalate.Escalation) bool {
	rep.Notice = esc.Kind
	if err := r.escalator.Escalate(ctx, esc); err != nil {
		log.Warn("notification failed",
			zap.String("escalator", r.escalator.Name()),
			zap.String("kind", string(esc.Kind)),
			zap.Error(err))
		rep.NotifyError = err.Error()
		return false
	}
	rep.Notified = true
	log.Info("notified",
		zap.String("escalator", r.escalator.Name()),
		zap.String("kind", string(esc.Kind)),
		zap.String("severity", string(esc.Severity)))
	return true
}

// digest sends the post-sweep summary of waiting pull requests
func (e *Evaluator) digest(ctx context.Context, reports []*Report) {
	esc, ok := BuildDigest(reports, e.cfg.Team)
	if !ok {
		return
	}
	if err := e.escalator.Escalate(ctx, esc); err != nil {
		e.log.Warn("digest failed", zap.String("escalator", e.escalator.Name()), zap.Error(err))
		return
	}
	e.log.Info("digest sent", zap.Int("waiting", len(esc.Items)))
}

func (e *Evaluator) record(ctx context.Context, rep *Report) {
	if e.recorder == nil || rep.DryRun {
		return
	}
	status := string(rep.Snapshot.Status)
	if rep.Closed {
		status = "closed"
	}
	ev := &store.Evaluation{
		Repo:           rep.PR.Owner + "/" + rep.PR.Repo,
		PRNumber:       rep.PR.Number,
		Status:         status,
		Severity:       string(rep.Severity),
		ElapsedMinutes: rep.ElapsedMinutes,
		MarkerChanged:  rep.Decision.Changed(),
		Notified:       rep.Notified,
	}
	if err := e.recorder.RecordEvaluation(ctx, ev); err != nil {
		e.log.Warn("could not record evaluation", zap.Int("pr", rep.PR.Number), zap.Error(err))
	}
}
