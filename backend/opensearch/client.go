package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/poiesic/relevit/backend"
)

const defaultTimeout = 30 * time.Second

// Client executes search requests against a single index of an
// OpenSearch-compatible cluster over its REST API.
type Client struct {
	endpoint string
	index    string
	username string
	password string
	http     *http.Client
	logger   *slog.Logger
}

var _ backend.Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithBasicAuth sets credentials attached to every request.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) error {
		c.username = username
		c.password = password
		return nil
	}
}

// WithTimeout sets the per-request timeout.
// Default is 30 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.http.Timeout = timeout
		return nil
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		if client != nil {
			c.http = client
		}
		return nil
	}
}

// NewClient creates a client for the given index behind an
// OpenSearch-compatible endpoint.
func NewClient(endpoint, index string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}
	if index == "" {
		return nil, ErrIndexRequired
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: invalid URL %q", ErrEndpointRequired, endpoint)
	}

	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		index:    index,
		http:     &http.Client{Timeout: defaultTimeout},
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Search executes the request against the index's _search endpoint.
// Implements backend.Searcher.
func (c *Client) Search(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	body := map[string]any{
		"size": req.Size,
	}
	if req.Query != nil {
		body["query"] = req.Query.Source()
	}
	if req.From > 0 {
		body["from"] = req.From
	}
	if len(req.Sort) > 0 {
		body["sort"] = sortSource(req.Sort)
	}
	if len(req.Aggs) > 0 {
		aggs := make(map[string]any, len(req.Aggs))
		for name, agg := range req.Aggs {
			aggs[name] = agg.Source()
		}
		body["aggs"] = aggs
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	start := time.Now()
	raw, err := c.do(ctx, http.MethodPost, c.endpoint+"/"+c.index+"/_search", payload)
	if err != nil {
		return nil, err
	}

	resp, err := decodeSearchResponse(raw)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("search request complete",
		"index", c.index,
		"hits", len(resp.Hits),
		"total", resp.Total,
		"duration", time.Since(start))

	return resp, nil
}

// ClusterInfo describes the engine behind the endpoint.
type ClusterInfo struct {
	ClusterName  string
	NodeName     string
	Distribution string
	Version      string
}

// Info fetches name and version details from the cluster root endpoint.
func (c *Client) Info(ctx context.Context) (*ClusterInfo, error) {
	raw, err := c.do(ctx, http.MethodGet, c.endpoint+"/", nil)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Name        string `json:"name"`
		ClusterName string `json:"cluster_name"`
		Version     struct {
			Distribution string `json:"distribution"`
			Number       string `json:"number"`
		} `json:"version"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding cluster info: %v", backend.ErrUnavailable, err)
	}

	return &ClusterInfo{
		ClusterName:  parsed.ClusterName,
		NodeName:     parsed.Name,
		Distribution: parsed.Version.Distribution,
		Version:      parsed.Version.Number,
	}, nil
}

// do sends one HTTP request and maps failures onto the backend error
// taxonomy: transport errors and 5xx responses are ErrUnavailable, other
// non-2xx responses are ErrQueryRejected.
func (c *Client) do(ctx context.Context, method, rawURL string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", backend.ErrUnavailable, err)
	}

	if resp.StatusCode/100 != 2 {
		reason := errorReason(raw)
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: status %d: %s", backend.ErrUnavailable, resp.StatusCode, reason)
		}
		return nil, fmt.Errorf("%w: status %d: %s", backend.ErrQueryRejected, resp.StatusCode, reason)
	}

	return raw, nil
}

func sortSource(sorts []backend.Sort) []map[string]any {
	out := make([]map[string]any, len(sorts))
	for i, s := range sorts {
		spec := map[string]any{"order": "asc"}
		if s.Desc {
			spec["order"] = "desc"
		}
		if s.UnmappedType != "" {
			spec["unmapped_type"] = s.UnmappedType
		}
		out[i] = map[string]any{s.Field: spec}
	}
	return out
}

// errorReason extracts the engine's error description from a failure body,
// falling back to the raw body when it isn't the usual error envelope.
func errorReason(raw []byte) string {
	var parsed struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error.Reason != "" {
		if parsed.Error.Type != "" {
			return parsed.Error.Type + ": " + parsed.Error.Reason
		}
		return parsed.Error.Reason
	}

	text := strings.TrimSpace(string(raw))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
