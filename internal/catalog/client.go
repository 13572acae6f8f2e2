package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"longbox/internal/logging"
)

// Resource names a destination endpoint.
type Resource string

const (
	ResourceCharacter Resource = "character"
	ResourceTeam      Resource = "team"
	ResourceArc       Resource = "arc"
	ResourceCreator   Resource = "creator"
	ResourceIssue     Resource = "issue"
	ResourceSeries    Resource = "series"
	ResourceRole      Resource = "role"
	ResourcePublisher Resource = "publisher"
	resourceSeriesTyp Resource = "series_type"
	resourceCredit    Resource = "credit"
)

// SearchResult is a single match from a destination name search.
type SearchResult struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// IssueResult is a single match from a destination issue search. The Name
// field carries the full display label, "Series (Year) #Number".
type IssueResult struct {
	ID   int64  `json:"id"`
	Name string `json:"issue"`
}

// SeriesResult is a single match from a destination series search.
type SeriesResult struct {
	ID         int64  `json:"id"`
	Name       string `json:"series"`
	IssueCount int    `json:"issue_count"`
}

// NamedItem is a vocabulary entry (role, publisher, series type).
type NamedItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// IssueDetail is the slice of a destination issue record consulted before an
// update. A patch of a list field replaces it wholesale, so the current lists
// have to be read back and extended rather than overwritten.
type IssueDetail struct {
	ID         int64       `json:"id"`
	Characters []NamedItem `json:"characters"`
	Teams      []NamedItem `json:"teams"`
	Arcs       []NamedItem `json:"arcs"`
}

// Config carries client construction parameters.
type Config struct {
	BaseURL        string
	User           string
	Password       string
	CallsPerMinute int
	Timeout        time.Duration
	MaxRetries     int
}

// Client provides access to the destination catalog service.
type Client struct {
	baseURL    string
	user       string
	password   string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries uint64
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

// New creates a destination catalog client.
func New(cfg Config, logger *slog.Logger, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("catalog base url required")
	}
	if cfg.User == "" || cfg.Password == "" {
		return nil, errors.New("catalog credentials required")
	}
	if cfg.CallsPerMinute <= 0 {
		return nil, errors.New("catalog rate ceiling must be positive")
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
		user:       cfg.User,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(cfg.CallsPerMinute)/60.0), 1),
		maxRetries: uint64(cfg.MaxRetries),
		logger:     logging.WithComponent(logger, "catalog"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search performs a name search against a resource endpoint.
func (c *Client) Search(ctx context.Context, res Resource, name string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("name", name)
	var page struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.getJSON(ctx, res, params, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// SearchIssues finds issues by series name and issue number.
func (c *Client) SearchIssues(ctx context.Context, seriesName, number string) ([]IssueResult, error) {
	params := url.Values{}
	params.Set("series_name", seriesName)
	params.Set("number", number)
	var page struct {
		Results []IssueResult `json:"results"`
	}
	if err := c.getJSON(ctx, ResourceIssue, params, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// SearchSeries finds series by name.
func (c *Client) SearchSeries(ctx context.Context, name string) ([]SeriesResult, error) {
	params := url.Values{}
	params.Set("name", name)
	var page struct {
		Results []SeriesResult `json:"results"`
	}
	if err := c.getJSON(ctx, ResourceSeries, params, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Issue fetches one destination issue record.
func (c *Client) Issue(ctx context.Context, id int64) (*IssueDetail, error) {
	var detail IssueDetail
	endpoint := fmt.Sprintf("%s/%s/%d/", c.baseURL, ResourceIssue, id)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, "", &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Roles returns the destination's credit role vocabulary.
func (c *Client) Roles(ctx context.Context) ([]NamedItem, error) {
	return c.listNamed(ctx, ResourceRole)
}

// Publishers returns the destination's publisher list.
func (c *Client) Publishers(ctx context.Context) ([]NamedItem, error) {
	return c.listNamed(ctx, ResourcePublisher)
}

// SeriesTypes returns the destination's series type vocabulary.
func (c *Client) SeriesTypes(ctx context.Context) ([]NamedItem, error) {
	return c.listNamed(ctx, resourceSeriesTyp)
}

func (c *Client) listNamed(ctx context.Context, res Resource) ([]NamedItem, error) {
	var page struct {
		Results []NamedItem `json:"results"`
	}
	if err := c.getJSON(ctx, res, nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Create validates and submits a typed payload, returning the new destination
// id. The rate limiter is consulted before the request leaves the process.
func (c *Client) Create(ctx context.Context, payload Payload) (int64, error) {
	if err := payload.Validate(); err != nil {
		return 0, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limiter: %w", err)
	}

	form := payload.encode()
	body, contentType, err := encodeMultipart(form)
	if err != nil {
		return 0, err
	}

	var created struct {
		ID int64 `json:"id"`
	}
	endpoint := fmt.Sprintf("%s/%s/", c.baseURL, payload.resource())
	if err := c.do(ctx, http.MethodPost, endpoint, body, contentType, &created); err != nil {
		return 0, err
	}
	c.logger.Debug("resource created",
		logging.String("resource", string(payload.resource())),
		logging.Int64("id", created.ID),
	)
	return created.ID, nil
}

// CreateCredits posts a batch of credit records.
func (c *Client) CreateCredits(ctx context.Context, credits []CreditPayload) error {
	if len(credits) == 0 {
		return nil
	}
	for _, credit := range credits {
		if err := credit.Validate(); err != nil {
			return err
		}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(credits)
	if err != nil {
		return fmt.Errorf("encode credits: %w", err)
	}
	endpoint := fmt.Sprintf("%s/%s/", c.baseURL, resourceCredit)
	return c.do(ctx, http.MethodPost, endpoint, body, "application/json", nil)
}

// PatchIssue updates fields on an existing destination issue.
func (c *Client) PatchIssue(ctx context.Context, id int64, patch IssuePatch) error {
	if patch.Empty() {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body := []byte(patch.encode().Encode())
	endpoint := fmt.Sprintf("%s/%s/%d/", c.baseURL, ResourceIssue, id)
	return c.do(ctx, http.MethodPatch, endpoint, body, "application/x-www-form-urlencoded", nil)
}

func (c *Client) getJSON(ctx context.Context, res Resource, params url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/%s/", c.baseURL, res)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	return c.do(ctx, http.MethodGet, endpoint, nil, "", out)
}

// do issues one HTTP request with bounded retry. Connection failures and
// server errors are retried; anything the destination rejects outright is
// surfaced as a permanent APIError.
func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, contentType string, out any) error {
	operation := func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.SetBasicAuth(c.user, c.password)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("catalog request: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if out == nil {
				return nil
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return backoff.Permanent(fmt.Errorf("decode catalog response: %w", err))
			}
			return nil
		case resp.StatusCode >= 500:
			return fmt.Errorf("catalog server error: status %d", resp.StatusCode)
		default:
			return backoff.Permanent(&APIError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)})
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	return backoff.Retry(operation, policy)
}

func readDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return strings.TrimSpace(string(raw))
}

func encodeMultipart(form formValues) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, values := range form.fields {
		for _, value := range values {
			if err := writer.WriteField(key, value); err != nil {
				return nil, "", fmt.Errorf("encode field %q: %w", key, err)
			}
		}
	}

	if form.imagePath != "" {
		file, err := os.Open(form.imagePath)
		if err != nil {
			return nil, "", fmt.Errorf("open image: %w", err)
		}
		defer file.Close()

		part, err := writer.CreateFormFile("image", filepath.Base(form.imagePath))
		if err != nil {
			return nil, "", fmt.Errorf("create image part: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, "", fmt.Errorf("copy image: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finish multipart body: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}
