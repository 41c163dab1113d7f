package escalate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/RevCBH/revwatch/internal/aging"
)

// Slack posts escalations to a Slack webhook URL
type Slack struct {
	webhookURL string
	client     *http.Client
}

// NewSlack creates a Slack escalator with default HTTP client
func NewSlack(webhookURL string) *Slack {
	return &Slack{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewSlackWithClient creates a Slack escalator with custom HTTP client
func NewSlackWithClient(webhookURL string, client *http.Client) *Slack {
	return &Slack{
		webhookURL: webhookURL,
		client:     client,
	}
}

var slackEmoji = map[aging.Severity]string{
	aging.SeverityLow:      ":white_circle:",
	aging.SeverityMedium:   ":large_yellow_circle:",
	aging.SeverityHigh:     ":large_orange_circle:",
	aging.SeverityCritical: ":red_circle:",
}

var resolvedHeaders = map[Kind]string{
	KindApproved: "PR Approved: Ready to Merge",
	KindMerged:   "PR Merged",
	KindClosed:   "PR Closed Without Merge",
}

var resolvedFooters = map[Kind]string{
	KindApproved: "All reminders stopped. This PR is ready to merge.",
	KindMerged:   "All reminders stopped.",
	KindClosed:   "All reminders stopped.",
}

// Escalate posts the escalation to Slack
func (s *Slack) Escalate(ctx context.Context, e Escalation) error {
	var payload map[string]any
	switch k := e.kind(); k {
	case KindDigest:
		payload = slackDigest(e)
	case KindApproved, KindMerged, KindClosed:
		blocks := []map[string]any{slackHeader(resolvedHeaders[k])}
		blocks = append(blocks, slackEntry(e, "")...)
		blocks = append(blocks, slackContext(resolvedFooters[k]))
		payload = map[string]any{
			"text":   fmt.Sprintf(":white_check_mark: *[%s]* %s: %s", e.Subject, resolvedHeaders[k], e.Title),
			"blocks": blocks,
		}
	default:
		blocks := slackEntry(e, "")
		blocks = append(blocks, slackContext(fmt.Sprintf("Severity: *%s*", strings.ToUpper(string(e.Severity)))))
		payload = map[string]any{
			"text":   fmt.Sprintf("%s *[%s]* %s", slackEmoji[e.Severity], e.Subject, e.Title),
			"blocks": blocks,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("slack webhook returned %d", resp.StatusCode)
	}
	return nil
}

// slackEntry renders one pull request: prefix and linked title with the
// message, then context fields
func slackEntry(e Escalation, prefix string) []map[string]any {
	heading := fmt.Sprintf("*%s*", e.Title)
	if e.URL != "" {
		heading = fmt.Sprintf("*<%s|%s>*", e.URL, e.Title)
	}
	if prefix != "" {
		heading = prefix + " " + heading
	}

	blocks := []map[string]any{
		{
			"type": "section",
			"text": map[string]string{
				"type": "mrkdwn",
				"text": fmt.Sprintf("%s\n%s", heading, e.Message),
			},
		},
	}

	var fields []map[string]any
	for _, k := range e.sortedContext() {
		fields = append(fields, map[string]any{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*%s:*\n%s", k, e.Context[k]),
		})
	}
	// Slack caps section fields at 10
	if len(fields) > 10 {
		fields = fields[:10]
	}
	if len(fields) > 0 {
		blocks = append(blocks, map[string]any{
			"type":   "section",
			"fields": fields,
		})
	}
	return blocks
}

// slackDigest lists every waiting pull request with its severity, then a
// tally per severity
func slackDigest(e Escalation) map[string]any {
	title := fmt.Sprintf("PR Review Reminder: %d PR(s) Awaiting Review", len(e.Items))
	blocks := []map[string]any{slackHeader(title), {"type": "divider"}}

	for _, item := range e.Items {
		prefix := fmt.Sprintf("%s *[%s]*", slackEmoji[item.Severity], strings.ToUpper(string(item.Severity)))
		blocks = append(blocks, slackEntry(item, prefix)...)
		blocks = append(blocks, map[string]any{"type": "divider"})
	}

	counts := e.countBySeverity()
	blocks = append(blocks, slackContext(fmt.Sprintf(
		":red_circle: Critical: %d | :large_orange_circle: High: %d | :large_yellow_circle: Medium: %d | :white_circle: Low: %d",
		counts[aging.SeverityCritical], counts[aging.SeverityHigh],
		counts[aging.SeverityMedium], counts[aging.SeverityLow])))

	return map[string]any{
		"text":   fmt.Sprintf("%s %s", slackEmoji[e.Severity], title),
		"blocks": blocks,
	}
}

func slackHeader(text string) map[string]any {
	return map[string]any{
		"type": "header",
		"text": map[string]any{"type": "plain_text", "text": text, "emoji": false},
	}
}

func slackContext(text string) map[string]any {
	return map[string]any{
		"type":     "context",
		"elements": []map[string]string{{"type": "mrkdwn", "text": text}},
	}
}

// Name returns "slack"
func (s *Slack) Name() string {
	return "slack"
}
