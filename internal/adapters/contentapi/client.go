// Package contentapi provides a REST client for the content store API.
// The analysis worker and any out-of-process watcher use it instead of
// a direct database handle
package contentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/logger"
	andomain "lectern/internal/services/analysis/domain"
)

const (
	defaultTimeout = 10 * time.Second
	defaultUA      = "lectern-contentapi"
	apiPrefix      = "/api/v1"
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client is a thin JSON client over the content endpoints
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
	now  func() time.Time
}

// NewClient creates a Client with sane defaults.
// BaseURL is required and points at the API root, without the /api/v1 prefix
func NewClient(o Options) *Client {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("contentapi"),
		now:  time.Now,
	}
}

// envelope mirrors the API's standard response body
type envelope struct {
	StatusCode int             `json:"status_code"`
	Status     string          `json:"status"`
	Error      string          `json:"error,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// FetchContent implements the analysis fetcher over the REST API
func (c *Client) FetchContent(ctx context.Context, id string) (andomain.Snapshot, error) {
	var snap andomain.Snapshot
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/content/"+id, nil, &snap); err != nil {
		return andomain.Snapshot{}, err
	}
	return snap, nil
}

// UpdateTags replaces the stored flat tag list for id
func (c *Client) UpdateTags(ctx context.Context, id string, tags []string) error {
	body := struct {
		Tags []string `json:"tags"`
	}{Tags: tags}
	return c.do(ctx, http.MethodPut, apiPrefix+"/content/"+id+"/tags", body, nil)
}

// do issues one JSON request and decodes the envelope's data into out
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return perr.JSONErrf("encode request: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.opts.BaseURL+path, body)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "contentapi new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return perr.Transportf("contentapi %s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", c.now().Sub(start)).
		Msg("contentapi response")

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return perr.Transportf("contentapi read body: %v", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return perr.JSONErrf("contentapi decode envelope: %v", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return perr.NotFoundf("content %q not found", path)
	case resp.StatusCode >= 500:
		return perr.ServerErrf("contentapi status %d: %s", resp.StatusCode, env.Error)
	case resp.StatusCode >= 400:
		return perr.InvalidArgf("contentapi status %d: %s", resp.StatusCode, env.Error)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return perr.JSONErrf("contentapi decode data: %v", err)
		}
	}
	return nil
}
