package escalate

import (
	"fmt"

	"github.com/RevCBH/revwatch/internal/aging"
)

// Config holds escalation configuration
type Config struct {
	Backends     []string
	SlackWebhook string
	WebhookURL   string

	// MinSeverity silences a backend below the given severity, keyed by
	// backend name. Backends without an entry receive everything.
	MinSeverity map[string]aging.Severity
}

// FromConfig creates an Escalator from configuration.
// No backends means terminal; "nop" disables notifications.
func FromConfig(cfg Config) (Escalator, error) {
	backends := cfg.Backends
	if len(backends) == 0 {
		backends = []string{"terminal"}
	}

	for name, min := range cfg.MinSeverity {
		if !min.Valid() {
			return nil, fmt.Errorf("invalid minimum severity %q for %s backend", min, name)
		}
	}

	var escalators []Escalator
	for _, backend := range backends {
		var esc Escalator
		switch backend {
		case "terminal":
			esc = NewTerminal()
		case "slack":
			if cfg.SlackWebhook == "" {
				return nil, fmt.Errorf("slack backend requires webhook URL")
			}
			esc = NewSlack(cfg.SlackWebhook)
		case "webhook":
			if cfg.WebhookURL == "" {
				return nil, fmt.Errorf("webhook backend requires URL")
			}
			esc = NewWebhook(cfg.WebhookURL)
		case "nop":
			continue
		default:
			return nil, fmt.Errorf("unknown escalation backend: %s", backend)
		}

		if min, ok := cfg.MinSeverity[backend]; ok && min != aging.SeverityLow {
			esc = NewThreshold(esc, min)
		}
		escalators = append(escalators, esc)
	}

	switch len(escalators) {
	case 0:
		return Nop{}, nil
	case 1:
		return escalators[0], nil
	default:
		return NewMulti(escalators...), nil
	}
}
