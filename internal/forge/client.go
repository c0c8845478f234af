// Package forge fetches repository metadata from the GitHub REST API.
package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mlaudit/mlaudit/pkg/artifact"
)

const defaultBaseURL = "https://api.github.com"

// contributorsPageSize is enough for scoring; we only need to know whether a
// repo has one maintainer or many.
const contributorsPageSize = 100

// Client talks to the GitHub API using an optional personal access token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a GitHub client. An empty token falls back to
// unauthenticated requests with their lower rate limit.
func NewClient(token string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With().Str("component", "forge").Logger(),
	}
}

// NewClientWithBaseURL is NewClient pointed at a different API host, for tests.
func NewClientWithBaseURL(baseURL, token string, logger zerolog.Logger) *Client {
	c := NewClient(token, logger)
	c.baseURL = baseURL
	return c
}

// Repo fetches the metadata, contributor count, and top-level file listing
// for owner/repo.
func (c *Client) Repo(ctx context.Context, owner, repo string) (*artifact.RepoInfo, error) {
	var meta struct {
		FullName      string `json:"full_name"`
		Stars         int64  `json:"stargazers_count"`
		DefaultBranch string `json:"default_branch"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), &meta); err != nil {
		return nil, fmt.Errorf("repo %s/%s: %w", owner, repo, err)
	}

	contributors, err := c.contributorCount(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("repo %s/%s contributors: %w", owner, repo, err)
	}

	topLevel, err := c.topLevelPaths(ctx, owner, repo, meta.DefaultBranch)
	if err != nil {
		return nil, fmt.Errorf("repo %s/%s tree: %w", owner, repo, err)
	}

	c.logger.Debug().
		Str("repo", meta.FullName).
		Int("contributors", contributors).
		Msg("fetched repo metadata")

	return &artifact.RepoInfo{
		FullName:     meta.FullName,
		Stars:        meta.Stars,
		Contributors: contributors,
		TopLevel:     topLevel,
	}, nil
}

// contributorCount returns the number of contributors on the first page,
// capped at contributorsPageSize.
func (c *Client) contributorCount(ctx context.Context, owner, repo string) (int, error) {
	path := fmt.Sprintf("/repos/%s/%s/contributors?per_page=%d&anon=true",
		owner, repo, contributorsPageSize)

	var contributors []struct {
		Login string `json:"login"`
	}
	if err := c.getJSON(ctx, path, &contributors); err != nil {
		// Empty repos answer 204 which getJSON surfaces as a decode of nothing;
		// GitHub also answers 403 when the contributor list is too large to
		// compute. Neither should sink the whole audit.
		if strings.Contains(err.Error(), "error 403") {
			return contributorsPageSize, nil
		}
		return 0, err
	}
	return len(contributors), nil
}

// topLevelPaths lists the entries at the root of the default branch.
func (c *Client) topLevelPaths(ctx context.Context, owner, repo, branch string) ([]string, error) {
	if branch == "" {
		branch = "HEAD"
	}
	var tree struct {
		Tree []struct {
			Path string `json:"path"`
		} `json:"tree"`
	}
	path := fmt.Sprintf("/repos/%s/%s/git/trees/%s", owner, repo, branch)
	if err := c.getJSON(ctx, path, &tree); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(tree.Tree))
	for _, entry := range tree.Tree {
		paths = append(paths, entry.Path)
	}
	return paths, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("github API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode github response: %w", err)
	}
	return nil
}
