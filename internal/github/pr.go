package github

import (
	"context"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v71/github"

	"github.com/RevCBH/revwatch/internal/changes"
	"github.com/RevCBH/revwatch/internal/review"
)

// PullRequest fetches one pull request
func (c *PRClient) PullRequest(ctx context.Context, number int) (review.PullRequest, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return review.PullRequest{}, fmt.Errorf("pull request #%d: %w", number, ErrNotFound)
		}
		return review.PullRequest{}, fmt.Errorf("get pull request #%d: %w", number, err)
	}
	return c.toPullRequest(pr), nil
}

// OpenPullRequests lists every open pull request, oldest first
func (c *PRClient) OpenPullRequests(ctx context.Context) ([]review.PullRequest, error) {
	opts := &gh.PullRequestListOptions{
		State:       "open",
		Sort:        "created",
		Direction:   "asc",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	var out []review.PullRequest
	for {
		prs, resp, err := c.gh.PullRequests.List(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list pull requests: %w", err)
		}
		for _, pr := range prs {
			out = append(out, c.toPullRequest(pr))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

// Files lists the changed files of a pull request
func (c *PRClient) Files(ctx context.Context, number int) ([]changes.File, error) {
	opts := &gh.ListOptions{PerPage: perPage}

	var out []changes.File
	for {
		files, resp, err := c.gh.PullRequests.ListFiles(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("list files for #%d: %w", number, err)
		}
		for _, f := range files {
			out = append(out, changes.File{
				Filename:  f.GetFilename(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

func (c *PRClient) toPullRequest(pr *gh.PullRequest) review.PullRequest {
	var requested []string
	for _, u := range pr.RequestedReviewers {
		if login := u.GetLogin(); login != "" {
			requested = append(requested, login)
		}
	}

	return review.PullRequest{
		Owner:              c.owner,
		Repo:               c.repo,
		Number:             pr.GetNumber(),
		Title:              pr.GetTitle(),
		URL:                pr.GetHTMLURL(),
		Author:             pr.GetUser().GetLogin(),
		CreatedAt:          pr.GetCreatedAt().Time,
		BaseRef:            pr.GetBase().GetRef(),
		HeadRef:            pr.GetHead().GetRef(),
		State:              pr.GetState(),
		Merged:             pr.GetMerged() || pr.MergedAt != nil,
		Draft:              pr.GetDraft(),
		RequestedReviewers: requested,
	}
}
