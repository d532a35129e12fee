// Package ghmetrics collects repository metrics and governance policies
// from the GitHub API.
package ghmetrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/time/rate"

	"github.com/obinexus/sinphase/internal/contract"
	"github.com/obinexus/sinphase/schema"
)

// DefaultRateLimit is the API request budget per second. Authenticated
// GitHub clients allow 5000 requests per hour, so a sustained rate above
// one per second risks exhausting the budget mid-run.
const DefaultRateLimit = 5

// commitWindow is the activity lookback for commit counting.
const commitWindow = 30 * 24 * time.Hour

// Client wraps the GitHub API client with rate limiting.
type Client struct {
	gh      *github.Client
	limiter *rate.Limiter
}

var _ contract.MetricsClient = &Client{} // Compile-time check

// NewClient creates a new GitHub metrics client. An empty token yields an
// unauthenticated client with a much smaller rate budget.
func NewClient(token string, rateLimit int) *Client {
	gh := github.NewClient(nil)
	if token != "" {
		gh = gh.WithAuthToken(token)
	}
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}
	return &Client{
		gh:      gh,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
	}
}

// ValidateConnection verifies the token works and reports the remaining
// API budget.
func (c *Client) ValidateConnection(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to authenticate with GitHub: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	limits, _, err := c.gh.RateLimit.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to query rate limits: %w", err)
	}

	if core := limits.GetCore(); core != nil {
		fmt.Printf("Authenticated as %s (%d/%d API requests remaining)\n",
			user.GetLogin(), core.Remaining, core.Limit)
	} else {
		fmt.Printf("Authenticated as %s\n", user.GetLogin())
	}
	return nil
}

// ListRepositories returns the names of all repositories in the
// organization, in the order the provider returns them.
func (c *Client) ListRepositories(ctx context.Context, org string) ([]string, error) {
	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var names []string
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		repos, resp, err := c.gh.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories for %s: %w", org, err)
		}

		for _, repo := range repos {
			names = append(names, repo.GetName())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return names, nil
}

// GetRepositoryMetrics collects the raw metrics for one repository,
// including the commit count over the last 30 days.
func (c *Client) GetRepositoryMetrics(ctx context.Context, org, repo string) (*schema.RepositoryMetrics, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	ghRepo, _, err := c.gh.Repositories.Get(ctx, org, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository %s/%s: %w", org, repo, err)
	}

	metrics := &schema.RepositoryMetrics{
		Name:            ghRepo.GetName(),
		FullName:        ghRepo.GetFullName(),
		StarsCount:      ghRepo.GetStargazersCount(),
		ForksCount:      ghRepo.GetForksCount(),
		WatchersCount:   ghRepo.GetWatchersCount(),
		SizeKB:          ghRepo.GetSize(),
		OpenIssuesCount: ghRepo.GetOpenIssuesCount(),
		PrimaryLanguage: ghRepo.GetLanguage(),
		IsFork:          ghRepo.GetFork(),
		IsArchived:      ghRepo.GetArchived(),
		CreatedAt:       ghRepo.GetCreatedAt().Time,
		UpdatedAt:       ghRepo.GetUpdatedAt().Time,
	}

	commits, lastCommit, err := c.countRecentCommits(ctx, org, repo)
	if err != nil {
		return nil, err
	}
	metrics.CommitsLast30Days = commits
	metrics.LastCommitDate = lastCommit

	languages, err := c.fetchLanguages(ctx, org, repo)
	if err != nil {
		return nil, err
	}
	metrics.Languages = languages

	hasCI, err := c.detectCI(ctx, org, repo)
	if err != nil {
		return nil, err
	}
	metrics.HasCI = hasCI

	return metrics, nil
}

// countRecentCommits counts commits in the activity window and reports the
// most recent commit date.
func (c *Client) countRecentCommits(ctx context.Context, org, repo string) (int, *time.Time, error) {
	opts := &github.CommitsListOptions{
		Since:       time.Now().Add(-commitWindow),
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var count int
	var lastCommit *time.Time
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("rate limiter: %w", err)
		}

		commits, resp, err := c.gh.Repositories.ListCommits(ctx, org, repo, opts)
		if err != nil {
			// Empty repositories report 409 on the commits endpoint
			if isStatus(err, http.StatusConflict) {
				return 0, nil, nil
			}
			return 0, nil, fmt.Errorf("failed to list commits for %s/%s: %w", org, repo, err)
		}

		if lastCommit == nil && len(commits) > 0 {
			t := commits[0].GetCommit().GetAuthor().GetDate().Time
			lastCommit = &t
		}
		count += len(commits)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return count, lastCommit, nil
}

// fetchLanguages returns the language byte map for a repository.
func (c *Client) fetchLanguages(ctx context.Context, org, repo string) (map[string]int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	languages, _, err := c.gh.Repositories.ListLanguages(ctx, org, repo)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list languages for %s/%s: %w", org, repo, err)
	}
	return languages, nil
}

// ciProbePaths are checked in order when the workflows directory is absent.
var ciProbePaths = []string{
	".travis.yml",
	".circleci/config.yml",
	"Jenkinsfile",
	"azure-pipelines.yml",
	".gitlab-ci.yml",
}

// detectCI probes for CI configuration, preferring GitHub Actions workflows.
func (c *Client) detectCI(ctx context.Context, org, repo string) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("rate limiter: %w", err)
	}

	_, dir, _, err := c.gh.Repositories.GetContents(ctx, org, repo, ".github/workflows", nil)
	if err == nil && len(dir) > 0 {
		return true, nil
	}
	if err != nil && !isStatus(err, http.StatusNotFound) {
		return false, fmt.Errorf("failed to probe workflows for %s/%s: %w", org, repo, err)
	}

	for _, path := range ciProbePaths {
		if err := c.limiter.Wait(ctx); err != nil {
			return false, fmt.Errorf("rate limiter: %w", err)
		}
		file, _, _, err := c.gh.Repositories.GetContents(ctx, org, repo, path, nil)
		if err != nil {
			if isStatus(err, http.StatusNotFound) {
				continue
			}
			return false, fmt.Errorf("failed to probe %s for %s/%s: %w", path, org, repo, err)
		}
		if file != nil {
			return true, nil
		}
	}

	return false, nil
}

// isStatus reports whether an error is a GitHub API response with the given
// HTTP status code.
func isStatus(err error, status int) bool {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode == status
	}
	return false
}
