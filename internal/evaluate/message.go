package evaluate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/RevCBH/revwatch/internal/aging"
	"github.com/RevCBH/revwatch/internal/changes"
	"github.com/RevCBH/revwatch/internal/escalate"
	"github.com/RevCBH/revwatch/internal/review"
)

// maxDescribedFiles bounds the file list in a message body
const maxDescribedFiles = 3

var urgency = map[aging.Severity]string{
	aging.SeverityLow:      "A quick review would be much appreciated whenever someone has a moment.",
	aging.SeverityMedium:   "This has been waiting longer than usual. Could someone please prioritize a review?",
	aging.SeverityHigh:     "This is blocking progress and needs immediate reviewer attention.",
	aging.SeverityCritical: "This review is critically overdue and must be picked up without further delay.",
}

type loginTeam struct{}

func (loginTeam) MemberName(login string) string { return login }

func (loginTeam) ReviewerMentions(logins []string) string {
	if len(logins) == 0 {
		return "No reviewers assigned"
	}
	mentions := make([]string, len(logins))
	for i, l := range logins {
		mentions[i] = "@" + l
	}
	return strings.Join(mentions, ", ")
}

// BuildEscalation renders a report as a notification. Output depends only
// on the report, so repeated calls yield identical text.
func BuildEscalation(rep *Report, team Team) escalate.Escalation {
	if team == nil {
		team = loginTeam{}
	}
	pr := rep.PR
	cs := rep.Changes
	snap := rep.Snapshot

	author := team.MemberName(pr.Author)
	var b strings.Builder
	fmt.Fprintf(&b, "%s has a %s change to %s with %d additions and %d deletions across %s.",
		author,
		cs.Size,
		describeFiles(cs.Files),
		cs.TotalAdditions,
		cs.TotalDeletions,
		plural(len(cs.Files), "file"))
	b.WriteString(" ")

	switch snap.Status {
	case review.StatusStalled:
		if snap.ApprovalsNeeded > 0 {
			fmt.Fprintf(&b, "It has been open for %s and has %s, but still needs %s to meet the minimum of %d.",
				rep.ElapsedLabel,
				activitySummary(snap),
				plural(snap.ApprovalsNeeded, "more approval"),
				rep.MinApprovals)
		} else {
			fmt.Fprintf(&b, "It has been open for %s and has %s, but changes were requested by %s.",
				rep.ElapsedLabel,
				activitySummary(snap),
				strings.Join(snap.ChangesRequestedBy, ", "))
		}
		if len(snap.PendingReviewers) > 0 {
			names := make([]string, len(snap.PendingReviewers))
			for i, l := range snap.PendingReviewers {
				names[i] = team.MemberName(l)
			}
			fmt.Fprintf(&b, " A review from %s is still pending.", strings.Join(names, ", "))
		}
	default:
		fmt.Fprintf(&b, "It has been open for %s with no reviews or comments.", rep.ElapsedLabel)
	}
	if u, ok := urgency[rep.Severity]; ok {
		b.WriteString(" ")
		b.WriteString(u)
	}

	ctx := map[string]string{
		"Author":        author,
		"Reviewers":     team.ReviewerMentions(pr.RequestedReviewers),
		"Size":          string(cs.Size),
		"Files Changed": fmt.Sprintf("%d", len(cs.Files)),
		"Lines Changed": fmt.Sprintf("+%d / -%d", cs.TotalAdditions, cs.TotalDeletions),
		"Status":        fmt.Sprintf("%s (%d/%d approvals)", snap.Status, snap.ApprovalCount, rep.MinApprovals),
		"Waiting":       rep.ElapsedLabel,
	}
	if pr.HeadRef != "" && pr.BaseRef != "" {
		ctx["Branch"] = fmt.Sprintf("`%s` into `%s`", pr.HeadRef, pr.BaseRef)
	}

	return escalate.Escalation{
		Kind:     escalate.KindSeverity,
		Severity: rep.Severity,
		Subject:  subjectOf(pr),
		URL:      pr.URL,
		Title:    fmt.Sprintf("#%d: %s", pr.Number, pr.Title),
		Message:  b.String(),
		Context:  ctx,
	}
}

// BuildResolution renders the notice sent when a marked pull request stops
// needing review. Severity carries the marker that was cleared.
func BuildResolution(rep *Report, kind escalate.Kind, team Team) escalate.Escalation {
	if team == nil {
		team = loginTeam{}
	}
	pr := rep.PR
	author := team.MemberName(pr.Author)

	ctx := map[string]string{"Author": author}
	var msg string
	switch kind {
	case escalate.KindApproved:
		approvers := make([]string, len(rep.Snapshot.ApprovedBy))
		for i, l := range rep.Snapshot.ApprovedBy {
			approvers[i] = team.MemberName(l)
		}
		msg = fmt.Sprintf("%s's pull request was approved by %s after %s. This PR is ready to merge.",
			author, strings.Join(approvers, ", "), rep.ElapsedLabel)
		ctx["Approved By"] = strings.Join(approvers, ", ")
		ctx["Review Time"] = rep.ElapsedLabel
	case escalate.KindMerged:
		msg = fmt.Sprintf("%s's pull request was merged.", author)
		if pr.BaseRef != "" {
			msg = fmt.Sprintf("%s's pull request was merged into `%s`.", author, pr.BaseRef)
		}
	default:
		msg = fmt.Sprintf("%s's pull request was closed without merging.", author)
	}
	ctx["Last Severity"] = string(rep.Prior)

	return escalate.Escalation{
		Kind:     kind,
		Severity: rep.Prior,
		Subject:  subjectOf(pr),
		URL:      pr.URL,
		Title:    fmt.Sprintf("#%d: %s", pr.Number, pr.Title),
		Message:  msg,
		Context:  ctx,
	}
}

// BuildDigest summarizes every report still waiting for review, most severe
// first. It returns false when nothing is waiting.
func BuildDigest(reports []*Report, team Team) (escalate.Escalation, bool) {
	var (
		items []escalate.Escalation
		sevs  []aging.Severity
	)
	for _, rep := range reports {
		if rep.Closed || rep.Severity == "" {
			continue
		}
		item := BuildEscalation(rep, team)
		item.Context["Open Since"] = rep.PR.CreatedAt.UTC().Format(time.RFC1123)
		items = append(items, item)
		sevs = append(sevs, rep.Severity)
	}
	if len(items) == 0 {
		return escalate.Escalation{}, false
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Severity.Rank() > items[j].Severity.Rank()
	})

	top, _ := aging.Highest(sevs)
	return escalate.Escalation{
		Kind:     escalate.KindDigest,
		Severity: top,
		Title:    fmt.Sprintf("%s awaiting review", plural(len(items), "pull request")),
		Message:  fmt.Sprintf("%s still waiting for review.", plural(len(items), "pull request")),
		Items:    items,
	}, true
}

// AcknowledgeComment is the issue comment left after a notification. It
// contains the bot marker so the classifier never counts it as activity.
func AcknowledgeComment(marker string, sev aging.Severity) string {
	return fmt.Sprintf("%s (severity: %s)", marker, sev)
}

func subjectOf(pr review.PullRequest) string {
	if pr.Owner != "" && pr.Repo != "" {
		return fmt.Sprintf("%s/%s#%d", pr.Owner, pr.Repo, pr.Number)
	}
	return fmt.Sprintf("#%d", pr.Number)
}

func describeFiles(files []changes.File) string {
	if len(files) == 0 {
		return "no files"
	}
	shown := files
	if len(shown) > maxDescribedFiles {
		shown = shown[:maxDescribedFiles]
	}
	desc := strings.Join(changes.DescribeFiles(shown), " and ")
	if rest := len(files) - len(shown); rest > 0 {
		desc += fmt.Sprintf(" and %s", plural(rest, "other file"))
	}
	return desc
}

func activitySummary(s review.Snapshot) string {
	var parts []string
	if s.ApprovalCount > 0 {
		parts = append(parts, fmt.Sprintf("%s (from %s)",
			plural(s.ApprovalCount, "approval"), strings.Join(s.ApprovedBy, ", ")))
	}
	if n := len(s.ChangesRequestedBy); n > 0 {
		parts = append(parts, plural(n, "change request"))
	}
	if s.CommentCount > 0 {
		parts = append(parts, plural(s.CommentCount, "comment"))
	}
	if s.InlineCommentCount > 0 {
		parts = append(parts, plural(s.InlineCommentCount, "inline comment"))
	}
	if len(parts) == 0 {
		return "some review activity"
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
