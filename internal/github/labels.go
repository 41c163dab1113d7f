package github

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	gh "github.com/google/go-github/v71/github"

	"github.com/RevCBH/revwatch/internal/aging"
)

// Labels lists the label names on a pull request
func (c *PRClient) Labels(ctx context.Context, number int) ([]string, error) {
	opts := &gh.ListOptions{PerPage: perPage}

	var out []string
	for {
		labels, resp, err := c.gh.Issues.ListLabelsByIssue(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("list labels for #%d: %w", number, err)
		}
		for _, l := range labels {
			out = append(out, l.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

// CurrentMarkers returns every severity label on the pull request, least
// severe first
func (c *PRClient) CurrentMarkers(ctx context.Context, number int) ([]aging.Severity, error) {
	labels, err := c.Labels(ctx, number)
	if err != nil {
		return nil, err
	}
	return aging.Severities(labels), nil
}

// Marked lists the pull requests, open or closed, that carry any severity
// label. GitHub filters issues by label, so each severity is one query.
func (c *PRClient) Marked(ctx context.Context) ([]int, error) {
	seen := make(map[int]bool)
	for _, label := range aging.AllLabels() {
		opts := &gh.IssueListByRepoOptions{
			State:       "all",
			Labels:      []string{label},
			ListOptions: gh.ListOptions{PerPage: perPage},
		}
		for {
			issues, resp, err := c.gh.Issues.ListByRepo(ctx, c.owner, c.repo, opts)
			if err != nil {
				return nil, fmt.Errorf("list issues labeled %q: %w", label, err)
			}
			for _, issue := range issues {
				if issue.IsPullRequest() {
					seen[issue.GetNumber()] = true
				}
			}
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
	}

	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

// AddLabel attaches a label to the pull request
func (c *PRClient) AddLabel(ctx context.Context, number int, label string) error {
	if _, _, err := c.gh.Issues.AddLabelsToIssue(ctx, c.owner, c.repo, number, []string{label}); err != nil {
		return fmt.Errorf("add label %q to #%d: %w", label, number, err)
	}
	return nil
}

// RemoveLabel detaches a label. A label that is not attached is not an error.
func (c *PRClient) RemoveLabel(ctx context.Context, number int, label string) error {
	_, err := c.gh.Issues.RemoveLabelForIssue(ctx, c.owner, c.repo, number, label)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil
		}
		return fmt.Errorf("remove label %q from #%d: %w", label, number, err)
	}
	return nil
}
