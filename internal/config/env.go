package config

import (
	"os"
	"strconv"
)

// envOverrides maps environment variables to config field setters.
// Earlier entries lose to later ones when both are set.
var envOverrides = []struct {
	envVar string
	apply  func(*Config, string)
}{
	{
		envVar: "GITHUB_TOKEN",
		apply: func(c *Config, v string) {
			c.GitHub.Token = v
		},
	},
	{
		envVar: "REVWATCH_GITHUB_TOKEN",
		apply: func(c *Config, v string) {
			c.GitHub.Token = v
		},
	},
	{
		envVar: "REVWATCH_SLACK_WEBHOOK",
		apply: func(c *Config, v string) {
			c.Escalation.SlackWebhook = v
		},
	},
	{
		envVar: "REVWATCH_MIN_APPROVALS",
		apply: func(c *Config, v string) {
			// An unparseable value becomes 0 so validation rejects it
			n, _ := strconv.Atoi(v)
			c.MinApprovals = n
		},
	},
	{
		envVar: "REVWATCH_LOG_LEVEL",
		apply: func(c *Config, v string) {
			c.LogLevel = v
		},
	},
}

// applyEnvOverrides modifies config in place with environment variable values.
func applyEnvOverrides(cfg *Config) {
	for _, override := range envOverrides {
		if val := os.Getenv(override.envVar); val != "" {
			override.apply(cfg, val)
		}
	}
}
