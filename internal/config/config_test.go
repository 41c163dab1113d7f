package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RevCBH/revwatch/internal/aging"
)

// writeFile creates a file with the given content for testing
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, o := range envOverrides {
		t.Setenv(o.envVar, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	clearEnv(t)
	stubGitRemote(t, "https://github.com/testowner/testrepo.git", nil)
	stubToken(t, "gh-token")

	cfg, err := LoadConfig(dir, "")
	require.NoError(t, err)

	assert.Equal(t, "testowner", cfg.GitHub.Owner)
	assert.Equal(t, "testrepo", cfg.GitHub.Repo)
	assert.Equal(t, "gh-token", cfg.GitHub.Token)
	assert.Equal(t, DefaultMinApprovals, cfg.MinApprovals)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, []string{DefaultEscalatedLabel}, cfg.Labels.ExtraCleanup)
	assert.Equal(t, "Slack Notification Sent", cfg.BotMarker)
	assert.Equal(t, filepath.Join(dir, DefaultStorePath), cfg.Store.Path)
	assert.True(t, cfg.Escalation.Digest)
	assert.Nil(t, cfg.Escalation.MinSeverities())

	th, err := cfg.SeverityThresholds()
	require.NoError(t, err)
	assert.Equal(t, aging.DefaultThresholds(), th)
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	clearEnv(t)
	stubGitRemote(t, "https://github.com/testowner/testrepo.git", nil)
	stubToken(t, "")

	writeFile(t, filepath.Join(dir, FileName), `
github:
  owner: myorg
  repo: myrepo
min_approvals: 1
thresholds:
  low: 0s
  medium: 4h
  high: 12h
  critical: 48h
labels:
  extra_cleanup: [needs-review, review-escalated]
bot_marker: "[revwatch]"
acknowledge: true
team_members:
  alice:
    name: Alice Liddell
    slack_id: U123
escalation:
  backends: [slack, terminal]
  slack_webhook: https://hooks.slack.com/services/T/B/X
  min_severity:
    slack: medium
  digest: false
store:
  backend: sqlite
  path: /var/lib/revwatch.db
log_level: debug
`)

	cfg, err := LoadConfig(dir, "")
	require.NoError(t, err)

	assert.Equal(t, "myorg", cfg.GitHub.Owner)
	assert.Equal(t, "myrepo", cfg.GitHub.Repo)
	assert.Equal(t, 1, cfg.MinApprovals)
	assert.Equal(t, []string{"needs-review", "review-escalated"}, cfg.Labels.ExtraCleanup)
	assert.Equal(t, "[revwatch]", cfg.BotMarker)
	assert.True(t, cfg.Acknowledge)
	assert.Equal(t, "Alice Liddell", cfg.TeamMembers["alice"].Name)
	assert.Equal(t, []string{"slack", "terminal"}, cfg.Escalation.Backends)
	assert.Equal(t, map[string]aging.Severity{"slack": aging.SeverityMedium}, cfg.Escalation.MinSeverities())
	assert.False(t, cfg.Escalation.Digest)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "/var/lib/revwatch.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.LogLevel)

	th, err := cfg.SeverityThresholds()
	require.NoError(t, err)
	assert.Equal(t, aging.Thresholds{Low: 0, Medium: 240, High: 720, Critical: 2880}, th)
}

func TestLoadConfig_ExplicitPathMissing(t *testing.T) {
	clearEnv(t)
	_, err := LoadConfig(t.TempDir(), "/nonexistent/revwatch.yaml")
	assert.Error(t, err)
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	clearEnv(t)
	stubToken(t, "")
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "github:\n  owner: a\n  repo: b\n")

	cfg, err := LoadConfig(dir, path)
	require.NoError(t, err)
	assert.Equal(t, "a", cfg.GitHub.Owner)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	clearEnv(t)
	writeFile(t, filepath.Join(dir, FileName), "min_approvals: [oops")

	_, err := LoadConfig(dir, "")
	assert.ErrorContains(t, err, "parse config")
}

func TestLoadConfig_AutoDetectFails(t *testing.T) {
	clearEnv(t)
	stubGitRemote(t, "https://gitlab.com/a/b.git", nil)

	_, err := LoadConfig(t.TempDir(), "")
	assert.ErrorContains(t, err, "auto-detect github")
}

func TestLoadConfig_RejectsUnorderedThresholds(t *testing.T) {
	dir := t.TempDir()
	clearEnv(t)
	stubToken(t, "")
	writeFile(t, filepath.Join(dir, FileName), `
github: {owner: a, repo: b}
thresholds: {low: 0s, medium: 72h, high: 24h, critical: 168h}
`)

	_, err := LoadConfig(dir, "")
	assert.ErrorContains(t, err, "strictly increasing")
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	clearEnv(t)
	t.Setenv("REVWATCH_MIN_APPROVALS", "3")
	t.Setenv("REVWATCH_GITHUB_TOKEN", "env-token")
	writeFile(t, filepath.Join(dir, FileName), "github: {owner: a, repo: b}\nmin_approvals: 1\n")

	cfg, err := LoadConfig(dir, "")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MinApprovals)
	assert.Equal(t, "env-token", cfg.GitHub.Token)
}

func TestSeverityThresholds_BadDuration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds.High = "three days"

	_, err := cfg.SeverityThresholds()
	assert.ErrorContains(t, err, "threshold high")
}
