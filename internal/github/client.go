package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v71/github"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a pull request does not exist
var ErrNotFound = errors.New("not found")

// perPage is the maximum page size GitHub allows
const perPage = 100

// PRClientConfig holds the settings for NewPRClient
type PRClientConfig struct {
	Owner string
	Repo  string
	Token string
	// BaseURL targets a GitHub Enterprise API when set
	BaseURL string
	// HTTPClient overrides the default transport (tests)
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// PRClient handles GitHub pull request operations for one repository
type PRClient struct {
	gh    *gh.Client
	owner string
	repo  string
	log   *zap.Logger
}

// NewPRClient creates a new GitHub PR client
func NewPRClient(cfg PRClientConfig) (*PRClient, error) {
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}

	client := gh.NewClient(cfg.HTTPClient)
	if cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}
	if cfg.BaseURL != "" {
		base := strings.TrimSuffix(cfg.BaseURL, "/") + "/"
		var err error
		client, err = client.WithEnterpriseURLs(base, base)
		if err != nil {
			return nil, fmt.Errorf("set enterprise url: %w", err)
		}
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &PRClient{
		gh:    client,
		owner: cfg.Owner,
		repo:  cfg.Repo,
		log:   log.With(zap.String("repo", cfg.Owner+"/"+cfg.Repo)),
	}, nil
}

// Owner returns the repository owner
func (c *PRClient) Owner() string { return c.owner }

// Repo returns the repository name
func (c *PRClient) Repo() string { return c.repo }

// isStatus reports whether err is a GitHub API error with the given status
func isStatus(err error, status int) bool {
	var ghErr *gh.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == status
}
