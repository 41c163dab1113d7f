package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v71/github"

	"github.com/RevCBH/revwatch/internal/review"
)

// Reviews lists every submitted review on a pull request in API order.
// A missing submitted_at becomes the zero time.
func (c *PRClient) Reviews(ctx context.Context, number int) ([]review.Event, error) {
	opts := &gh.ListOptions{PerPage: perPage}

	var out []review.Event
	for {
		reviews, resp, err := c.gh.PullRequests.ListReviews(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("list reviews for #%d: %w", number, err)
		}
		for _, r := range reviews {
			out = append(out, review.Event{
				Reviewer:    r.GetUser().GetLogin(),
				State:       r.GetState(),
				SubmittedAt: r.GetSubmittedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}
