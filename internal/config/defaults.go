package config

import "github.com/RevCBH/revwatch/internal/review"

const (
	DefaultMinApprovals      = 2
	DefaultThresholdLow      = "0s"
	DefaultThresholdMedium   = "24h"
	DefaultThresholdHigh     = "72h"
	DefaultThresholdCritical = "168h"
	DefaultEscalatedLabel    = "review-escalated"
	DefaultStoreBackend      = "labels"
	DefaultStorePath         = ".revwatch/markers.db"
	DefaultServeAddr         = ":8080"
	DefaultLogLevel          = "info"
)

// DefaultConfig returns a Config with all default values applied.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			Owner: "auto",
			Repo:  "auto",
		},
		MinApprovals: DefaultMinApprovals,
		Thresholds: ThresholdConfig{
			Low:      DefaultThresholdLow,
			Medium:   DefaultThresholdMedium,
			High:     DefaultThresholdHigh,
			Critical: DefaultThresholdCritical,
		},
		Labels: LabelConfig{
			ExtraCleanup: []string{DefaultEscalatedLabel},
		},
		BotMarker: review.DefaultBotMarker,
		Escalation: EscalationConfig{
			Digest: true,
		},
		Store: StoreConfig{
			Backend: DefaultStoreBackend,
			Path:    DefaultStorePath,
		},
		Serve: ServeConfig{
			Addr: DefaultServeAddr,
		},
		LogLevel: DefaultLogLevel,
	}
}
