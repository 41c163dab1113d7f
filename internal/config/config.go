package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/RevCBH/revwatch/internal/aging"
)

// FileName is the config file looked up in the repository root
const FileName = ".revwatch.yaml"

// Config holds all configuration for revwatch.
// It is immutable after creation via LoadConfig().
type Config struct {
	// GitHub identifies the repository being watched
	GitHub GitHubConfig `yaml:"github"`

	// MinApprovals is how many approvals a PR needs to count as fully approved
	MinApprovals int `yaml:"min_approvals" validate:"min=1"`

	// Thresholds map elapsed time to severity
	Thresholds ThresholdConfig `yaml:"thresholds"`

	// Labels controls which labels are cleaned up alongside the severity set
	Labels LabelConfig `yaml:"labels"`

	// BotMarker is the text that identifies this tool's own acknowledgment
	// comments. Comments containing it never count as reviewer activity.
	BotMarker string `yaml:"bot_marker" validate:"required"`

	// Acknowledge posts a comment containing BotMarker after each notification
	Acknowledge bool `yaml:"acknowledge"`

	// TeamMembers maps GitHub logins to display names and Slack IDs
	TeamMembers map[string]TeamMember `yaml:"team_members"`

	// Escalation selects notification backends
	Escalation EscalationConfig `yaml:"escalation"`

	// Store selects where the severity marker is persisted
	Store StoreConfig `yaml:"store"`

	// Serve configures the HTTP surface
	Serve ServeConfig `yaml:"serve"`

	// LogLevel controls log verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// GitHubConfig identifies the GitHub repository.
// Values of "auto" trigger detection from git remote.
type GitHubConfig struct {
	// Owner is the GitHub organization or user
	Owner string `yaml:"owner"`

	// Repo is the repository name
	Repo string `yaml:"repo"`

	// BaseURL points at a GitHub Enterprise API; empty means github.com
	BaseURL string `yaml:"base_url,omitempty" validate:"omitempty,url"`

	// Token is never read from the file; see applyEnvOverrides
	Token string `yaml:"-"`
}

// ThresholdConfig holds the minimum PR age for each severity as Go
// duration strings. They must be strictly increasing.
type ThresholdConfig struct {
	Low      string `yaml:"low"`
	Medium   string `yaml:"medium"`
	High     string `yaml:"high"`
	Critical string `yaml:"critical"`
}

// LabelConfig controls label cleanup
type LabelConfig struct {
	// ExtraCleanup labels are removed together with the severity labels
	// when a PR is approved, merged, or closed
	ExtraCleanup []string `yaml:"extra_cleanup"`
}

// TeamMember maps a GitHub login to chat identities
type TeamMember struct {
	Name    string `yaml:"name"`
	SlackID string `yaml:"slack_id"`
}

// EscalationConfig selects notification backends
type EscalationConfig struct {
	// Backends is any of terminal, slack, webhook, nop. Empty means terminal.
	Backends []string `yaml:"backends" validate:"dive,oneof=terminal slack webhook nop"`

	// SlackWebhook is the incoming webhook URL for the slack backend
	SlackWebhook string `yaml:"slack_webhook,omitempty"`

	// WebhookURL receives JSON payloads for the webhook backend
	WebhookURL string `yaml:"webhook_url,omitempty"`

	// MinSeverity silences a backend below a severity, e.g. {slack: medium}
	MinSeverity map[string]string `yaml:"min_severity,omitempty" validate:"dive,keys,oneof=terminal slack webhook,endkeys,oneof=low medium high critical"`

	// Digest sends one summary of every waiting PR after each sweep
	Digest bool `yaml:"digest"`
}

// MinSeverities converts MinSeverity to typed severities
func (e EscalationConfig) MinSeverities() map[string]aging.Severity {
	if len(e.MinSeverity) == 0 {
		return nil
	}
	out := make(map[string]aging.Severity, len(e.MinSeverity))
	for backend, s := range e.MinSeverity {
		out[backend] = aging.Severity(s)
	}
	return out
}

// StoreConfig selects the marker store
type StoreConfig struct {
	// Backend is "labels" (GitHub labels) or "sqlite" (local database)
	Backend string `yaml:"backend" validate:"oneof=labels sqlite"`

	// Path is the SQLite database file, relative to the repo root
	Path string `yaml:"path"`
}

// ServeConfig configures `revwatch serve`
type ServeConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// SeverityThresholds converts the configured durations to minutes.
func (c *Config) SeverityThresholds() (aging.Thresholds, error) {
	var t aging.Thresholds
	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"low", c.Thresholds.Low, &t.Low},
		{"medium", c.Thresholds.Medium, &t.Medium},
		{"high", c.Thresholds.High, &t.High},
		{"critical", c.Thresholds.Critical, &t.Critical},
	}
	for _, f := range fields {
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return aging.Thresholds{}, fmt.Errorf("threshold %s: %w", f.name, err)
		}
		*f.dst = d.Minutes()
	}
	return t, nil
}

// LoadConfig loads configuration for the repository at repoRoot.
// It applies defaults, then file values, then environment overrides,
// then auto-detects the GitHub repository and validates.
//
// Parameters:
//   - repoRoot: path to the repository root directory
//   - path: explicit config file; empty means repoRoot/.revwatch.yaml,
//     which may be absent
//
// Returns the validated Config or an error if validation fails.
func LoadConfig(repoRoot, path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(repoRoot, FileName)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// Missing default config file is not an error (use defaults)
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.Store.Path != "" && !filepath.IsAbs(cfg.Store.Path) {
		cfg.Store.Path = filepath.Join(repoRoot, cfg.Store.Path)
	}

	if cfg.GitHub.Owner == "auto" || cfg.GitHub.Repo == "auto" {
		owner, repo, err := detectGitHubRepo(repoRoot)
		if err != nil {
			return nil, fmt.Errorf("auto-detect github: %w", err)
		}
		if cfg.GitHub.Owner == "auto" {
			cfg.GitHub.Owner = owner
		}
		if cfg.GitHub.Repo == "auto" {
			cfg.GitHub.Repo = repo
		}
	}

	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = tokenGetter()
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
