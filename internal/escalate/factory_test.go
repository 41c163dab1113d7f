package escalate

import (
	"testing"

	"github.com/RevCBH/revwatch/internal/aging"
)

func TestFromConfig_Backends(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"default", Config{}, "terminal"},
		{"terminal", Config{Backends: []string{"terminal"}}, "terminal"},
		{"slack", Config{Backends: []string{"slack"}, SlackWebhook: "https://hooks.slack.com/services/xxx"}, "slack"},
		{"webhook", Config{Backends: []string{"webhook"}, WebhookURL: "https://example.com/webhook"}, "webhook"},
		{"nop", Config{Backends: []string{"nop"}}, "nop"},
		{"nop alongside terminal", Config{Backends: []string{"nop", "terminal"}}, "terminal"},
		{"several", Config{Backends: []string{"terminal", "slack"}, SlackWebhook: "https://hooks.slack.com/services/xxx"}, "multi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			esc, err := FromConfig(tt.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if esc.Name() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, esc.Name())
			}
		})
	}
}

func TestFromConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"slack without webhook", Config{Backends: []string{"slack"}}},
		{"webhook without url", Config{Backends: []string{"webhook"}}},
		{"unknown backend", Config{Backends: []string{"pager"}}},
		{"bad minimum", Config{Backends: []string{"terminal"}, MinSeverity: map[string]aging.Severity{"terminal": "urgent"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromConfig(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFromConfig_MinSeverityWrapsBackend(t *testing.T) {
	esc, err := FromConfig(Config{
		Backends:     []string{"slack", "terminal"},
		SlackWebhook: "https://hooks.slack.com/services/xxx",
		MinSeverity:  map[string]aging.Severity{"slack": aging.SeverityMedium, "terminal": aging.SeverityLow},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	multi, ok := esc.(*Multi)
	if !ok {
		t.Fatalf("expected *Multi, got %T", esc)
	}
	if _, ok := multi.escalators[0].(*Threshold); !ok {
		t.Errorf("expected slack to be wrapped in a threshold, got %T", multi.escalators[0])
	}
	if _, ok := multi.escalators[1].(*Terminal); !ok {
		t.Errorf("expected a low minimum to leave terminal unwrapped, got %T", multi.escalators[1])
	}
}
