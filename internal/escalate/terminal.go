package escalate

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/RevCBH/revwatch/internal/aging"
)

var severityStyles = map[aging.Severity]lipgloss.Style{
	aging.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	aging.SeverityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	aging.SeverityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
	aging.SeverityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")).Bold(true),
}

// Terminal writes escalations to a terminal with severity badges
type Terminal struct {
	mu     sync.Mutex // Protects concurrent writes
	out    io.Writer
	styled bool
}

// NewTerminal creates a terminal escalator writing to stderr.
// Colors are used only when stderr is a TTY.
func NewTerminal() *Terminal {
	return &Terminal{
		out:    os.Stderr,
		styled: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// NewTerminalWithWriter creates an unstyled terminal escalator writing to w
func NewTerminalWithWriter(w io.Writer) *Terminal {
	return &Terminal{out: w}
}

var resolvedBadges = map[Kind]string{
	KindApproved: "[approved]",
	KindMerged:   "[merged]",
	KindClosed:   "[closed]",
}

// Escalate writes the escalation
func (t *Terminal) Escalate(ctx context.Context, e Escalation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if e.kind() == KindDigest {
		fmt.Fprintf(t.out, "\n%d PR(s) awaiting review\n", len(e.Items))
		for _, item := range e.Items {
			t.writeEntry(item, t.badge(item.Severity))
		}
		return nil
	}

	badge, ok := resolvedBadges[e.kind()]
	if !ok {
		badge = t.badge(e.Severity)
	}
	t.writeEntry(e, badge)
	return nil
}

func (t *Terminal) badge(s aging.Severity) string {
	badge := fmt.Sprintf("[%s]", s)
	if style, ok := severityStyles[s]; ok && t.styled {
		badge = style.Render(badge)
	}
	return badge
}

func (t *Terminal) writeEntry(e Escalation, badge string) {
	fmt.Fprintf(t.out, "\n%s %s\n", badge, e.Title)
	fmt.Fprintf(t.out, "   PR: %s\n", e.Subject)
	if e.URL != "" {
		fmt.Fprintf(t.out, "   %s\n", e.URL)
	}
	fmt.Fprintf(t.out, "   %s\n", e.Message)

	for _, k := range e.sortedContext() {
		fmt.Fprintf(t.out, "   %s: %s\n", k, e.Context[k])
	}
}

// Name returns "terminal"
func (t *Terminal) Name() string {
	return "terminal"
}
