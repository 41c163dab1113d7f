package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v71/github"

	"github.com/RevCBH/revwatch/internal/review"
)

// IssueComments lists the conversation comments on a pull request
func (c *PRClient) IssueComments(ctx context.Context, number int) ([]review.Comment, error) {
	opts := &gh.IssueListCommentsOptions{ListOptions: gh.ListOptions{PerPage: perPage}}

	var out []review.Comment
	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("list comments for #%d: %w", number, err)
		}
		for _, cm := range comments {
			out = append(out, review.Comment{
				Author:     cm.GetUser().GetLogin(),
				AuthorType: cm.GetUser().GetType(),
				Body:       cm.GetBody(),
				CreatedAt:  cm.GetCreatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

// ReviewComments lists the inline diff comments on a pull request
func (c *PRClient) ReviewComments(ctx context.Context, number int) ([]review.Comment, error) {
	opts := &gh.PullRequestListCommentsOptions{ListOptions: gh.ListOptions{PerPage: perPage}}

	var out []review.Comment
	for {
		comments, resp, err := c.gh.PullRequests.ListComments(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("list review comments for #%d: %w", number, err)
		}
		for _, cm := range comments {
			out = append(out, review.Comment{
				Author:     cm.GetUser().GetLogin(),
				AuthorType: cm.GetUser().GetType(),
				Body:       cm.GetBody(),
				CreatedAt:  cm.GetCreatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

// CreateComment posts a conversation comment on a pull request
func (c *PRClient) CreateComment(ctx context.Context, number int, body string) error {
	_, _, err := c.gh.Issues.CreateComment(ctx, c.owner, c.repo, number, &gh.IssueComment{Body: gh.Ptr(body)})
	if err != nil {
		return fmt.Errorf("comment on #%d: %w", number, err)
	}
	return nil
}
