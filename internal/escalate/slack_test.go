package escalate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RevCBH/revwatch/internal/aging"
)

func TestSlack_Escalate(t *testing.T) {
	var receivedPayload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Error("expected Content-Type: application/json")
		}
		json.NewDecoder(r.Body).Decode(&receivedPayload)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	slack := NewSlack(server.URL)
	err := slack.Escalate(context.Background(), Escalation{
		Severity: aging.SeverityHigh,
		Subject:  "owner/repo#42",
		URL:      "https://github.com/owner/repo/pull/42",
		Title:    "Add retry to uploader",
		Message:  "Waiting on review for 3 days",
		Context:  map[string]string{"author": "alice", "size": "small"},
	})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	text, ok := receivedPayload["text"].(string)
	if !ok || text == "" {
		t.Fatal("expected text field in payload")
	}
	if !strings.HasPrefix(text, ":large_orange_circle:") {
		t.Errorf("expected high severity emoji, got %q", text)
	}
	if !strings.Contains(text, "owner/repo#42") {
		t.Errorf("expected subject in text, got %q", text)
	}

	blocks, ok := receivedPayload["blocks"].([]any)
	if !ok || len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %v", receivedPayload["blocks"])
	}
	fields := blocks[1].(map[string]any)["fields"].([]any)
	first := fields[0].(map[string]any)["text"].(string)
	if !strings.Contains(first, "author") {
		t.Errorf("expected context fields sorted by key, first was %q", first)
	}
}

func TestSlack_EscalateError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	slack := NewSlack(server.URL)
	if err := slack.Escalate(context.Background(), testEscalation()); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestSlack_Name(t *testing.T) {
	slack := NewSlack("http://example.com")
	if slack.Name() != "slack" {
		t.Errorf("expected 'slack', got %q", slack.Name())
	}
}

func captureSlack(t *testing.T, e Escalation) map[string]any {
	t.Helper()
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := NewSlack(server.URL).Escalate(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return payload
}

func blockText(block any) string {
	b := block.(map[string]any)
	switch b["type"] {
	case "header", "section":
		if text, ok := b["text"].(map[string]any); ok {
			return text["text"].(string)
		}
	case "context":
		return b["elements"].([]any)[0].(map[string]any)["text"].(string)
	}
	return ""
}

func TestSlack_EscalateApproved(t *testing.T) {
	e := testEscalation()
	e.Kind = KindApproved
	payload := captureSlack(t, e)

	blocks := payload["blocks"].([]any)
	if got := blockText(blocks[0]); got != "PR Approved: Ready to Merge" {
		t.Errorf("expected approval header, got %q", got)
	}
	if got := blockText(blocks[len(blocks)-1]); !strings.Contains(got, "All reminders stopped") {
		t.Errorf("expected reminders-stopped footer, got %q", got)
	}
	if text := payload["text"].(string); !strings.HasPrefix(text, ":white_check_mark:") {
		t.Errorf("unexpected fallback text %q", text)
	}
}

func TestSlack_EscalateClosed(t *testing.T) {
	e := testEscalation()
	e.Kind = KindClosed
	payload := captureSlack(t, e)

	blocks := payload["blocks"].([]any)
	if got := blockText(blocks[0]); got != "PR Closed Without Merge" {
		t.Errorf("expected closed header, got %q", got)
	}
}

func TestSlack_EscalateDigest(t *testing.T) {
	payload := captureSlack(t, testDigest())

	blocks := payload["blocks"].([]any)
	if got := blockText(blocks[0]); got != "PR Review Reminder: 2 PR(s) Awaiting Review" {
		t.Errorf("unexpected digest header %q", got)
	}

	var rows []string
	for _, b := range blocks {
		if text := blockText(b); strings.Contains(text, "#4: Retry uploads") || strings.Contains(text, "#9: Fix typo") {
			rows = append(rows, text)
		}
	}
	if len(rows) != 2 {
		t.Fatalf("expected one row per PR, got %v", rows)
	}
	if !strings.HasPrefix(rows[0], ":large_orange_circle: *[HIGH]*") {
		t.Errorf("expected severity prefix on row, got %q", rows[0])
	}

	tally := blockText(blocks[len(blocks)-1])
	if !strings.Contains(tally, "High: 1") || !strings.Contains(tally, "Low: 1") || !strings.Contains(tally, "Critical: 0") {
		t.Errorf("unexpected tally %q", tally)
	}
}
