package ghmetrics

import (
	"context"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"

	"github.com/obinexus/sinphase/internal/contract"
)

// policyPaths are checked in order; the first file found wins.
var policyPaths = []string{
	".github/sinphase.yaml",
	".github/repo.yaml",
	"sinphase.yaml",
	"repo.yaml",
}

// GetRepositoryPolicy fetches the repository's own governance policy file
// when present. A nil policy with nil error means the repository carries no
// policy file.
func (c *Client) GetRepositoryPolicy(ctx context.Context, org, repo string) (*contract.RepoPolicyRaw, error) {
	for _, path := range policyPaths {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		file, _, _, err := c.gh.Repositories.GetContents(ctx, org, repo, path, nil)
		if err != nil {
			if isStatus(err, http.StatusNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to fetch policy %s for %s/%s: %w", path, org, repo, err)
		}
		if file == nil {
			// Path resolved to a directory, not a policy file
			continue
		}

		content, err := file.GetContent()
		if err != nil {
			return nil, fmt.Errorf("failed to decode policy %s for %s/%s: %w", path, org, repo, err)
		}

		var policy contract.RepoPolicyRaw
		if err := yaml.Unmarshal([]byte(content), &policy); err != nil {
			return nil, fmt.Errorf("invalid policy file %s in %s/%s: %w", path, org, repo, err)
		}
		return &policy, nil
	}

	return nil, nil
}
