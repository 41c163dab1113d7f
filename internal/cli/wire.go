package cli

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/RevCBH/revwatch/internal/config"
	"github.com/RevCBH/revwatch/internal/escalate"
	"github.com/RevCBH/revwatch/internal/evaluate"
	"github.com/RevCBH/revwatch/internal/github"
	"github.com/RevCBH/revwatch/internal/severity"
	"github.com/RevCBH/revwatch/internal/store"
)

// Runtime holds all wired components
type Runtime struct {
	Config    *config.Config
	Logger    *zap.Logger
	GitHub    *github.PRClient
	Markers   severity.Store
	DB        *store.DB // nil unless the sqlite backend is selected
	Escalator escalate.Escalator
	Evaluator *evaluate.Evaluator
}

// Wire assembles all components for evaluation
func Wire(cfg *config.Config, log *zap.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		log = zap.NewNop()
	}

	thresholds, err := cfg.SeverityThresholds()
	if err != nil {
		return nil, err
	}

	ghClient, err := github.NewPRClient(github.PRClientConfig{
		Owner:   cfg.GitHub.Owner,
		Repo:    cfg.GitHub.Repo,
		Token:   cfg.GitHub.Token,
		BaseURL: cfg.GitHub.BaseURL,
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	esc, err := escalate.FromConfig(escalate.Config{
		Backends:     cfg.Escalation.Backends,
		SlackWebhook: cfg.Escalation.SlackWebhook,
		WebhookURL:   cfg.Escalation.WebhookURL,
		MinSeverity:  cfg.Escalation.MinSeverities(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create escalator: %w", err)
	}

	rt := &Runtime{
		Config:    cfg,
		Logger:    log,
		GitHub:    ghClient,
		Markers:   ghClient,
		Escalator: esc,
	}

	deps := evaluate.Dependencies{
		Source:    ghClient,
		Escalator: esc,
		Logger:    log,
	}

	if cfg.Store.Backend == "sqlite" {
		db, err := store.Open(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open marker store: %w", err)
		}
		rt.DB = db
		rt.Markers = db.Markers(cfg.GitHub.Owner + "/" + cfg.GitHub.Repo)
		deps.Recorder = db
	}
	deps.Store = rt.Markers

	rt.Evaluator = evaluate.New(evaluate.Config{
		MinApprovals: cfg.MinApprovals,
		Thresholds:   thresholds,
		ExtraCleanup: cfg.Labels.ExtraCleanup,
		BotMarker:    cfg.BotMarker,
		Acknowledge:  cfg.Acknowledge,
		Digest:       cfg.Escalation.Digest,
		Team:         cfg,
	}, deps)

	log.Debug("wired runtime",
		zap.String("repo", cfg.GitHub.Owner+"/"+cfg.GitHub.Repo),
		zap.String("store", cfg.Store.Backend),
		zap.String("escalator", esc.Name()))

	return rt, nil
}

// Repo returns "owner/name"
func (r *Runtime) Repo() string {
	return r.Config.GitHub.Owner + "/" + r.Config.GitHub.Repo
}

// Close releases the database and flushes the logger
func (r *Runtime) Close() error {
	var errs []error
	if r.DB != nil {
		if err := r.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close marker store: %w", err))
		}
	}
	// Sync on stderr returns EINVAL on some platforms; ignore it
	_ = r.Logger.Sync()
	return errors.Join(errs...)
}
