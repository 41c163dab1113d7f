package review

import (
	"fmt"
	"sort"
	"strings"
)

// LatestByReviewer collapses review events to the most recent one per
// reviewer, skipping the PR author. Ties on SubmittedAt go to the event
// that appears later in the input.
func LatestByReviewer(author string, events []Event) map[string]Event {
	latest := make(map[string]Event)
	for _, e := range events {
		if e.Reviewer == "" || e.Reviewer == author {
			continue
		}
		prev, ok := latest[e.Reviewer]
		if !ok || !e.SubmittedAt.Before(prev.SubmittedAt) {
			latest[e.Reviewer] = e
		}
	}
	return latest
}

// Classify computes the review status of a pull request. It is pure and
// total: missing collections are treated as empty.
func Classify(in Input) Snapshot {
	marker := in.BotMarker
	if marker == "" {
		marker = DefaultBotMarker
	}

	latest := LatestByReviewer(in.Author, in.Reviews)

	var approvedBy, changesRequestedBy []string
	for reviewer, e := range latest {
		switch e.State {
		case StateApproved:
			approvedBy = append(approvedBy, reviewer)
		case StateChangesRequested:
			changesRequestedBy = append(changesRequestedBy, reviewer)
		}
	}
	sort.Strings(approvedBy)
	sort.Strings(changesRequestedBy)

	reviewCount := 0
	for _, e := range in.Reviews {
		if e.Reviewer != "" && e.Reviewer != in.Author {
			reviewCount++
		}
	}

	commentCount := countComments(in.Comments, in.Author, marker)
	inlineCount := countComments(in.InlineComments, in.Author, marker)

	pending := []string{}
	for _, r := range in.RequestedReviewers {
		if _, ok := latest[r]; !ok && r != "" {
			pending = append(pending, r)
		}
	}

	approvalCount := len(approvedBy)
	needed := in.MinApprovals - approvalCount
	if needed < 0 {
		needed = 0
	}
	hasActivity := reviewCount > 0 || commentCount > 0 || inlineCount > 0

	snap := Snapshot{
		ApprovalCount:      approvalCount,
		ApprovalsNeeded:    needed,
		ApprovedBy:         nonNil(approvedBy),
		ChangesRequestedBy: nonNil(changesRequestedBy),
		CommentCount:       commentCount,
		InlineCommentCount: inlineCount,
		ReviewCount:        reviewCount,
		PendingReviewers:   pending,
		HasActivity:        hasActivity,
	}

	switch {
	case approvalCount >= in.MinApprovals && len(changesRequestedBy) == 0:
		snap.Status = StatusFullyApproved
		snap.Reason = fmt.Sprintf("fully approved with %d approval(s)", approvalCount)
	case hasActivity:
		snap.Status = StatusStalled
		snap.Reason = fmt.Sprintf("has activity (%d approval(s), %d comment(s), %d review(s)) but needs %d more approval(s)",
			approvalCount, commentCount+inlineCount, reviewCount, needed)
		if len(changesRequestedBy) > 0 {
			snap.Reason += fmt.Sprintf("; changes requested by %s", strings.Join(changesRequestedBy, ", "))
		}
	default:
		snap.Status = StatusIgnored
		snap.Reason = "completely ignored, zero activity"
	}

	return snap
}

// countComments counts comments by someone other than the author that are
// not from automation and are not this tool's own acknowledgment.
func countComments(comments []Comment, author, marker string) int {
	n := 0
	for _, c := range comments {
		if c.Author == author {
			continue
		}
		if c.AuthorType == BotUserType {
			continue
		}
		if marker != "" && strings.Contains(c.Body, marker) {
			continue
		}
		n++
	}
	return n
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
