// Package baas reads and writes rank rows through a PostgREST-style backend-as-a-service API.
// Every failure surfaces as a *FetchError; nothing here falls back silently.
package baas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/Ajinkya236/course-questing-72-sub001/pkg/config"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/httputil"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/logger"
)

// maxErrorBody caps how much of an error response is kept for the message
const maxErrorBody = 512

// Client talks to the BaaS REST endpoint
type Client struct {
	http    *httputil.Client
	limiter *rate.Limiter
	baseURL string
	logger  *logger.Logger
}

// NewClient creates a new BaaS client
func NewClient(cfg config.BaaSConfig, log *logger.Logger) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	httpClient := httputil.NewWithTimeout(log, cfg.Timeout).
		WithHeader("apikey", cfg.AnonKey).
		WithHeader("Authorization", "Bearer "+cfg.AnonKey).
		WithHeader("Accept", "application/json")

	return &Client{
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		baseURL: strings.TrimRight(cfg.URL, "/"),
		logger:  log.WithComponent("baas"),
	}
}

// WithHTTPClient swaps the transport wrapper (tests disable retries this way)
func (c *Client) WithHTTPClient(h *httputil.Client) *Client {
	c.http = h
	return c
}

// Query narrows a select. Eq maps column to the value it must equal; Order is a PostgREST
// order clause such as "position.asc".
type Query struct {
	Eq    url.Values
	Order string
}

func (c *Client) tableURL(table string, q Query) string {
	params := url.Values{}
	params.Set("select", "*")
	for k, vs := range q.Eq {
		for _, v := range vs {
			params.Add(k, "eq."+v)
		}
	}
	if q.Order != "" {
		params.Set("order", q.Order)
	}
	return fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, params.Encode())
}

// Select fetches the rows of table matching q into dest
func (c *Client) Select(ctx context.Context, table string, q Query, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &FetchError{Table: table, Op: "select", Kind: KindTransport, Err: err}
	}

	resp, err := c.http.Get(ctx, c.tableURL(table, q), nil)
	if err != nil {
		return &FetchError{Table: table, Op: "select", Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, table, "select"); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &FetchError{Table: table, Op: "select", Kind: KindDecode, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

// Upsert writes rows to table, merging on the primary key
func (c *Client) Upsert(ctx context.Context, table string, rows interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &FetchError{Table: table, Op: "upsert", Kind: KindTransport, Err: err}
	}

	headers := http.Header{}
	headers.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	resp, err := c.http.PostJSON(ctx, fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table), headers, rows)
	if err != nil {
		return &FetchError{Table: table, Op: "upsert", Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, table, "upsert"); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func checkStatus(resp *http.Response, table, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &FetchError{
		Table:      table,
		Op:         op,
		Kind:       KindStatus,
		StatusCode: resp.StatusCode,
		Err:        errors.New(strings.TrimSpace(string(body))),
	}
}
