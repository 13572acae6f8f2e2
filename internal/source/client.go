package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"longbox/internal/logging"
)

// Per-kind wire prefixes. The upstream addresses detail endpoints as
// "{prefix}-{id}".
const (
	prefixCharacter = 4005
	prefixIssue     = 4000
	prefixCreator   = 4040
	prefixArc       = 4045
	prefixVolume    = 4050
	prefixTeam      = 4060
)

const statusOK = 1

// Config carries client construction parameters.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client reads entities from the upstream metadata service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates an upstream source client.
func New(cfg Config, logger *slog.Logger, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("source base url required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("source api key required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	client := &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.WithComponent(logger, "source"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Character fetches one character by upstream id.
func (c *Client) Character(ctx context.Context, id int64) (*Character, error) {
	var out Character
	if err := c.getDetail(ctx, "character", prefixCharacter, id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Team fetches one team by upstream id.
func (c *Client) Team(ctx context.Context, id int64) (*Team, error) {
	var out Team
	if err := c.getDetail(ctx, "team", prefixTeam, id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Creator fetches one creator by upstream id.
func (c *Client) Creator(ctx context.Context, id int64) (*Creator, error) {
	var out Creator
	if err := c.getDetail(ctx, "person", prefixCreator, id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Arc fetches one story arc by upstream id.
func (c *Client) Arc(ctx context.Context, id int64) (*Arc, error) {
	var out Arc
	if err := c.getDetail(ctx, "story_arc", prefixArc, id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Volume fetches one series by upstream id.
func (c *Client) Volume(ctx context.Context, id int64) (*Volume, error) {
	var out Volume
	if err := c.getDetail(ctx, "volume", prefixVolume, id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Issue fetches one issue by upstream id.
func (c *Client) Issue(ctx context.Context, id int64) (*Issue, error) {
	var out Issue
	if err := c.getDetail(ctx, "issue", prefixIssue, id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchVolumes finds series by name.
func (c *Client) SearchVolumes(ctx context.Context, name string) ([]Volume, error) {
	params := c.baseParams()
	params.Set("resources", "volume")
	params.Set("query", name)
	var out []Volume
	if err := c.get(ctx, c.baseURL+"/search/", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// VolumeIssues lists every issue of a series, following upstream pagination.
func (c *Client) VolumeIssues(ctx context.Context, volumeID int64) ([]Issue, error) {
	var all []Issue
	for offset := 0; ; {
		params := c.baseParams()
		params.Set("filter", fmt.Sprintf("volume:%d", volumeID))
		params.Set("sort", "cover_date:asc")
		params.Set("offset", fmt.Sprintf("%d", offset))

		var page []Issue
		total, err := c.getPage(ctx, c.baseURL+"/issues/", params, &page)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		offset += len(page)
		if len(page) == 0 || offset >= total {
			break
		}
	}
	return all, nil
}

func (c *Client) getDetail(ctx context.Context, endpoint string, prefix int, id int64, out any) error {
	target := fmt.Sprintf("%s/%s/%d-%d/", c.baseURL, endpoint, prefix, id)
	return c.get(ctx, target, c.baseParams(), out)
}

func (c *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")
	return params
}

type envelope struct {
	StatusCode           int             `json:"status_code"`
	Error                string          `json:"error"`
	NumberOfTotalResults int             `json:"number_of_total_results"`
	Results              json.RawMessage `json:"results"`
}

func (c *Client) get(ctx context.Context, target string, params url.Values, out any) error {
	_, err := c.getPage(ctx, target, params, out)
	return err
}

// getPage performs one GET and unwraps the response envelope, returning the
// upstream's total result count for pagination.
func (c *Client) getPage(ctx context.Context, target string, params url.Values, out any) (int, error) {
	var env envelope
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target+"?"+params.Encode(), nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("source request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("source server error: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(&ServiceError{StatusCode: resp.StatusCode})
		}
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return backoff.Permanent(fmt.Errorf("decode source response: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return 0, err
	}
	if env.StatusCode != statusOK {
		return 0, &ServiceError{StatusCode: env.StatusCode, Message: env.Error}
	}
	if err := json.Unmarshal(env.Results, out); err != nil {
		return 0, fmt.Errorf("decode source results: %w", err)
	}
	return env.NumberOfTotalResults, nil
}
