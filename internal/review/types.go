package review

import "time"

// Status is the tri-state review classification of a pull request
type Status string

const (
	// StatusIgnored means nobody but the author has touched the PR
	StatusIgnored Status = "ignored"
	// StatusStalled means there is reviewer activity but not enough approvals
	StatusStalled Status = "stalled"
	// StatusFullyApproved means the approval threshold is met with no outstanding change requests
	StatusFullyApproved Status = "fully_approved"
)

// Review states as reported by GitHub
const (
	StateApproved         = "APPROVED"
	StateChangesRequested = "CHANGES_REQUESTED"
	StateCommented        = "COMMENTED"
	StateDismissed        = "DISMISSED"
	StatePending          = "PENDING"
)

// BotUserType is the author type GitHub reports for automation accounts
const BotUserType = "Bot"

// DefaultBotMarker is the acknowledgment text this tool leaves on PRs it has notified about
const DefaultBotMarker = "Slack Notification Sent"

// PullRequest identifies a pull request and carries the fields the
// classifier and escalation pipeline read
type PullRequest struct {
	Owner              string    `json:"owner"`
	Repo               string    `json:"repo"`
	Number             int       `json:"number"`
	Title              string    `json:"title"`
	URL                string    `json:"url"`
	Author             string    `json:"author"`
	CreatedAt          time.Time `json:"created_at"`
	BaseRef            string    `json:"base_ref"`
	HeadRef            string    `json:"head_ref"`
	State              string    `json:"state"`
	Merged             bool      `json:"merged"`
	Draft              bool      `json:"draft"`
	RequestedReviewers []string  `json:"requested_reviewers,omitempty"`
}

// IsOpen reports whether the PR is still open and unmerged
func (p PullRequest) IsOpen() bool {
	return !p.Merged && (p.State == "" || p.State == "open")
}

// Event is one submitted review. A zero SubmittedAt means the timestamp was
// missing or unparseable and the event is treated as the least recent.
type Event struct {
	Reviewer    string    `json:"reviewer"`
	State       string    `json:"state"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Comment is an issue-level or inline diff comment
type Comment struct {
	Author     string    `json:"author"`
	AuthorType string    `json:"author_type,omitempty"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// Input is everything the classifier needs for one pull request
type Input struct {
	Author             string
	Reviews            []Event
	Comments           []Comment
	InlineComments     []Comment
	RequestedReviewers []string
	MinApprovals       int
	// BotMarker overrides DefaultBotMarker when non-empty
	BotMarker string
}

// Snapshot is the classifier output. It is recomputed on every evaluation.
type Snapshot struct {
	Status             Status   `json:"status"`
	ApprovalCount      int      `json:"approval_count"`
	ApprovalsNeeded    int      `json:"approvals_needed"`
	ApprovedBy         []string `json:"approved_by"`
	ChangesRequestedBy []string `json:"changes_requested_by"`
	CommentCount       int      `json:"comment_count"`
	InlineCommentCount int      `json:"inline_comment_count"`
	ReviewCount        int      `json:"review_count"`
	PendingReviewers   []string `json:"pending_reviewers"`
	HasActivity        bool     `json:"has_activity"`
	Reason             string   `json:"reason"`
}

// ParseTimestamp parses an RFC 3339 timestamp, returning the zero time for
// empty or malformed input so the event sorts as least recent.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}
