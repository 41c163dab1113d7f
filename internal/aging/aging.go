package aging

import (
	"fmt"
	"math"
	"time"
)

// Severity is the escalation level derived from how long a PR has waited
type Severity string

const (
	// SeverityLow is the first tier, reached when the PR opens by default
	SeverityLow Severity = "low"
	// SeverityMedium is reached after 24h by default
	SeverityMedium Severity = "medium"
	// SeverityHigh is reached after 72h by default
	SeverityHigh Severity = "high"
	// SeverityCritical is reached after a week by default
	SeverityCritical Severity = "critical"
)

// LabelPrefix is prepended to a severity to form its repository label
const LabelPrefix = "review-severity:"

// AllSeverities lists every severity from least to most severe
var AllSeverities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Rank orders severities low < medium < high < critical.
// Unknown values rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// Valid reports whether s is one of the four known severities
func (s Severity) Valid() bool {
	return s.Rank() >= 0
}

// Label returns the repository label carrying this severity
func (s Severity) Label() string {
	return LabelPrefix + string(s)
}

// ParseLabel extracts the severity from a label such as "review-severity:high"
func ParseLabel(label string) (Severity, bool) {
	if len(label) <= len(LabelPrefix) || label[:len(LabelPrefix)] != LabelPrefix {
		return "", false
	}
	s := Severity(label[len(LabelPrefix):])
	if !s.Valid() {
		return "", false
	}
	return s, true
}

// Severities extracts the distinct severities carried by labels, ordered
// from least to most severe. Non-severity labels are ignored.
func Severities(labels []string) []Severity {
	seen := make(map[Severity]bool)
	for _, l := range labels {
		if s, ok := ParseLabel(l); ok {
			seen[s] = true
		}
	}
	out := []Severity{}
	for _, s := range AllSeverities {
		if seen[s] {
			out = append(out, s)
		}
	}
	return out
}

// Highest returns the most severe entry of sevs, or false when sevs is empty
func Highest(sevs []Severity) (Severity, bool) {
	var top Severity
	ok := false
	for _, s := range sevs {
		if !ok || s.Rank() > top.Rank() {
			top, ok = s, true
		}
	}
	return top, ok
}

// AllLabels returns the full severity label set
func AllLabels() []string {
	labels := make([]string, len(AllSeverities))
	for i, s := range AllSeverities {
		labels[i] = s.Label()
	}
	return labels
}

// Thresholds holds the minimum elapsed minutes for each severity.
// Values must be strictly increasing from Low to Critical.
type Thresholds struct {
	Low      float64
	Medium   float64
	High     float64
	Critical float64
}

// DefaultThresholds returns 0m / 1d / 3d / 7d
func DefaultThresholds() Thresholds {
	return Thresholds{
		Low:      0,
		Medium:   24 * 60,
		High:     3 * 24 * 60,
		Critical: 7 * 24 * 60,
	}
}

// Validate checks the thresholds are strictly increasing.
// SeverityFor does not call this; callers must reject bad tables up front.
func (t Thresholds) Validate() error {
	if t.Low < 0 {
		return fmt.Errorf("low threshold must be non-negative, got %v", t.Low)
	}
	if !(t.Low < t.Medium && t.Medium < t.High && t.High < t.Critical) {
		return fmt.Errorf("thresholds must be strictly increasing (low %v < medium %v < high %v < critical %v)",
			t.Low, t.Medium, t.High, t.Critical)
	}
	return nil
}

// SeverityFor returns the most severe level whose threshold the elapsed
// minutes meet or exceed, falling back to low.
func SeverityFor(minutes float64, t Thresholds) Severity {
	if minutes >= t.Critical {
		return SeverityCritical
	}
	if minutes >= t.High {
		return SeverityHigh
	}
	if minutes >= t.Medium {
		return SeverityMedium
	}
	return SeverityLow
}

// Elapsed returns the minutes between since and now, clamped at zero
func Elapsed(since, now time.Time) float64 {
	m := now.Sub(since).Minutes()
	if m < 0 {
		return 0
	}
	return m
}

// ElapsedLabel renders elapsed minutes as a human-scale duration such as
// "45 minutes", "1 hour and 5 minutes" or "3 days and 2 hours".
func ElapsedLabel(minutes float64) string {
	if minutes < 0 {
		minutes = 0
	}
	hours := minutes / 60

	if minutes < 60 {
		return fmt.Sprintf("%d minutes", int(math.Round(minutes)))
	}

	if hours < 24 {
		h := int(math.Floor(hours))
		m := int(math.Round(math.Mod(minutes, 60)))
		label := fmt.Sprintf("%d %s", h, plural(h, "hour"))
		if m > 0 {
			label += fmt.Sprintf(" and %d minutes", m)
		}
		return label
	}

	days := int(math.Floor(hours / 24))
	rem := int(math.Round(math.Mod(hours, 24)))
	label := fmt.Sprintf("%d %s", days, plural(days, "day"))
	if rem > 0 {
		label += fmt.Sprintf(" and %d %s", rem, plural(rem, "hour"))
	}
	return label
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
