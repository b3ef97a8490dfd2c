package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

var (
	ErrNotConfigured  = errors.New("supabase url or api key not configured")
	ErrUserIDRequired = errors.New("user id is required")
)

// StatusError is returned for non-2xx PostgREST responses so read paths can
// distinguish remote rejection from transport failure.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("supabase request failed: status %d: %s", e.Code, e.Body)
}

// Client talks to a PostgREST-style streaming-link database. It is constructed
// explicitly and injected into every consumer; there is no package-level
// instance.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	timeout time.Duration

	streamsTable string
}

// New creates a client for the given project REST endpoint. A nil httpc gets a
// default client; the per-call timeout is applied on top via context.
func New(baseURL, apiKey string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:      strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:       strings.TrimSpace(apiKey),
		httpc:        httpc,
		timeout:      defaultTimeout,
		streamsTable: "movie_streams",
	}
}

// SetStreamsTable overrides the table the catalog reads from. Empty input is
// ignored and the default kept.
func (c *Client) SetStreamsTable(table string) {
	if t := strings.TrimSpace(table); t != "" {
		c.streamsTable = t
	}
}

func (c *Client) configured() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

// do performs one PostgREST request. A non-nil rangeHdr enables item-range
// pagination; extra headers (Prefer, Range-Unit) ride along untouched.
func (c *Client) do(ctx context.Context, method, table string, query url.Values, headers map[string]string, body, out any) error {
	if !c.configured() {
		return ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/rest/v1/" + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", table, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", table, err)
	}
	return nil
}

func rangeHeaders(offset, limit int) map[string]string {
	return map[string]string{
		"Range-Unit": "items",
		"Range":      fmt.Sprintf("%d-%d", offset, offset+limit-1),
	}
}

func eq(v string) string { return "eq." + v }
