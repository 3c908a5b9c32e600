package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public GitHub REST API root
const DefaultBaseURL = "https://api.github.com"

// maxErrorBody bounds how much of a failed response is drained for logging
const maxErrorBody = 4 << 10

// ErrDecode marks a 200 response whose body is not a list of gists
var ErrDecode = errors.New("malformed gists response")

// HTTPDoer is satisfied by *http.Client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Gist is the subset of a GitHub gist record the proxy reads
type Gist struct {
	ID      string `json:"id,omitempty"`
	HTMLURL string `json:"html_url"`
}

// StatusError is returned when the upstream answers with anything but 200
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github: unexpected status %d from %s", e.StatusCode, e.URL)
}

// Config holds GitHub client configuration
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// HTTPClient overrides the client built from Timeout
	HTTPClient HTTPDoer
	Logger     *zap.Logger
}

// Client lists public gists through the GitHub REST API
type Client struct {
	baseURL   string
	userAgent string
	http      HTTPDoer
	logger    *zap.Logger
}

// NewClient creates a new GitHub client
func NewClient(cfg *Config) (*Client, error) {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:   strings.TrimRight(base, "/"),
		userAgent: cfg.UserAgent,
		http:      doer,
		logger:    logger,
	}, nil
}

// GistsURL returns the endpoint listing the public gists of username
func (c *Client) GistsURL(username string) string {
	return fmt.Sprintf("%s/users/%s/gists", c.baseURL, url.PathEscape(username))
}

// ListGists fetches the first page of public gists for username.
// Records are returned in upstream order.
func (c *Client) ListGists(ctx context.Context, username string) ([]Gist, error) {
	endpoint := c.GistsURL(username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call GitHub: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Debug("github returned non-200",
			zap.String("username", username),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	var gists []Gist
	if err := json.NewDecoder(resp.Body).Decode(&gists); err != nil {
		return nil, fmt.Errorf("failed to decode gists: %w: %w", ErrDecode, err)
	}

	c.logger.Debug("github gists fetched",
		zap.String("username", username),
		zap.Int("count", len(gists)))

	return gists, nil
}
