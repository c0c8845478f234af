// Package hub fetches model and dataset metadata from the Hugging Face Hub
// REST API.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/mlaudit/mlaudit/pkg/artifact"
)

const defaultBaseURL = "https://huggingface.co"

// readmeByteLimit caps how much of a model card we pull down. Cards are
// markdown text; anything past this adds nothing to scoring.
const readmeByteLimit = 1 << 20

// Client talks to the Hugging Face Hub API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a Hub client. The token is optional; when set it is sent
// as a bearer token, which raises rate limits and unlocks gated repos.
func NewClient(token string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With().Str("component", "hub").Logger(),
	}
}

// NewClientWithBaseURL is NewClient pointed at a different API host, for tests.
func NewClientWithBaseURL(baseURL, token string, logger zerolog.Logger) *Client {
	c := NewClient(token, logger)
	c.baseURL = baseURL
	return c
}

type modelResponse struct {
	ID           string          `json:"id"`
	Downloads    int64           `json:"downloads"`
	Likes        int64           `json:"likes"`
	Tags         []string        `json:"tags"`
	LastModified time.Time       `json:"lastModified"`
	ModelIndex   json.RawMessage `json:"model-index"`
	Siblings     []struct {
		Path string `json:"rfilename"`
		Size int64  `json:"size"`
	} `json:"siblings"`
}

// Model fetches metadata, the file listing, and the README for a model.
func (c *Client) Model(ctx context.Context, id string) (*artifact.ModelInfo, error) {
	var resp modelResponse
	path := fmt.Sprintf("/api/models/%s?blobs=true", id)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("model %s: %w", id, err)
	}

	info := &artifact.ModelInfo{
		ID:            resp.ID,
		Downloads:     resp.Downloads,
		Likes:         resp.Likes,
		Tags:          resp.Tags,
		LastModified:  resp.LastModified,
		HasModelIndex: len(resp.ModelIndex) > 0 && string(resp.ModelIndex) != "null",
	}
	for _, s := range resp.Siblings {
		info.Files = append(info.Files, artifact.FileEntry{Path: s.Path, Size: s.Size})
	}

	readme, err := c.rawFile(ctx, "/"+id+"/raw/main/README.md")
	if err != nil {
		return nil, fmt.Errorf("model %s readme: %w", id, err)
	}
	info.Readme = readme

	c.logger.Debug().Str("model", id).Int("files", len(info.Files)).Msg("fetched model metadata")
	return info, nil
}

type datasetResponse struct {
	ID        string   `json:"id"`
	Downloads int64    `json:"downloads"`
	Likes     int64    `json:"likes"`
	Tags      []string `json:"tags"`
}

// Dataset fetches metadata and the README for a dataset.
func (c *Client) Dataset(ctx context.Context, id string) (*artifact.DatasetInfo, error) {
	var resp datasetResponse
	path := fmt.Sprintf("/api/datasets/%s", id)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", id, err)
	}

	readme, err := c.rawFile(ctx, "/datasets/"+id+"/raw/main/README.md")
	if err != nil {
		return nil, fmt.Errorf("dataset %s readme: %w", id, err)
	}

	return &artifact.DatasetInfo{
		ID:        resp.ID,
		Downloads: resp.Downloads,
		Likes:     resp.Likes,
		Tags:      resp.Tags,
		Readme:    readme,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("hub request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("hub API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode hub response: %w", err)
	}
	return nil
}

// rawFile downloads a file from a repo's main revision. A missing file is not
// an error; it returns an empty string so scoring can treat the README as
// absent.
func (c *Client) rawFile(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("hub request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("hub API error %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, readmeByteLimit))
	if err != nil {
		return "", fmt.Errorf("read file body: %w", err)
	}
	return string(body), nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
