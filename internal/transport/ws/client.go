// Package ws queries the MusicBrainz XML/JSON web service (WS/2) search API.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/request"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/result"
	"github.com/kailas-cloud/entitysearch/internal/metrics"
)

const backendLabel = "ws"

// DefaultBaseURL is the public MusicBrainz web service root.
const DefaultBaseURL = "https://musicbrainz.org/ws/2"

// Config holds web service client settings.
type Config struct {
	BaseURL   string
	UserAgent string
	// Timeout bounds one request; zero means no timeout.
	Timeout time.Duration
}

// Client is a WS/2 search backend. It never retries.
type Client struct {
	http      *http.Client
	base      *url.URL
	userAgent string
}

// New creates a client. httpClient may be nil.
func New(cfg Config, httpClient *http.Client) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", raw)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{http: httpClient, base: base, userAgent: cfg.UserAgent}, nil
}

// URL builds the search URL of req.
func (c *Client) URL(req request.Request) string {
	u := *c.base
	u.Path = c.base.Path + "/" + req.Kind().Resource()
	q := url.Values{}
	q.Set("fmt", "json")
	q.Set("query", req.Query())
	q.Set("offset", strconv.Itoa(req.Offset()))
	q.Set("limit", strconv.Itoa(req.Limit()))
	u.RawQuery = q.Encode()
	return u.String()
}

// Search runs req against the web service.
func (c *Client) Search(ctx context.Context, req request.Request) (result.Response, error) {
	start := time.Now()
	entity := string(req.Kind())
	resp, err := c.search(ctx, req)
	metrics.BackendRequestDuration.WithLabelValues(backendLabel, entity).Observe(time.Since(start).Seconds())
	metrics.BackendRequestsTotal.WithLabelValues(backendLabel, entity, statusLabel(err)).Inc()
	return resp, err
}

func (c *Client) search(ctx context.Context, req request.Request) (result.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(req), http.NoBody)
	if err != nil {
		return result.Response{}, fmt.Errorf("%w: build request: %w", domain.ErrBackend, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return result.Response{}, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return result.Response{}, fmt.Errorf("%w: read body: %w", domain.ErrBackend, err)
	}
	if httpResp.StatusCode != http.StatusOK {
		statusErr := domain.NewBackendStatus(httpResp.StatusCode, string(body))
		if httpResp.StatusCode == http.StatusTooManyRequests || httpResp.StatusCode == http.StatusServiceUnavailable {
			return result.Response{}, fmt.Errorf("%w: %w", domain.ErrRateLimited, statusErr)
		}
		return result.Response{}, statusErr
	}
	return Decode(req.Kind().Plural(), body)
}

// Decode extracts the hits listed under plural and the total count, found
// under "count" or "<plural>-count".
func Decode(plural string, body []byte) (result.Response, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return result.Response{}, fmt.Errorf("%w: decode response: %w", domain.ErrBackend, err)
	}

	var out result.Response
	if raw, ok := doc[plural]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &out.Items); err != nil {
			return result.Response{}, fmt.Errorf("%w: decode %s: %w", domain.ErrBackend, plural, err)
		}
	}
	for _, key := range []string{"count", plural + "-count"} {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &out.Count); err != nil {
			return result.Response{}, fmt.Errorf("%w: decode %s: %w", domain.ErrBackend, key, err)
		}
		break
	}
	if out.Items == nil {
		out.Items = []json.RawMessage{}
	}
	return out, nil
}

// Ping checks that the web service answers.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.base.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("build ping: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("ping: status %d", resp.StatusCode)
	}
	return nil
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "error"
}
