package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gsheets_io/internal/auth"
	"gsheets_io/internal/transport"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the Sheets REST endpoint
const DefaultBaseURL = "https://sheets.googleapis.com/v4"

// Version is reported in the User-Agent header. Overridden at link time.
var Version = "dev"

// Client is the entry point to the Sheets resource layer. The HTTP client and
// auth provider are shared by every resource it hands out.
type Client struct {
	http      transport.HTTPClient
	auth      auth.Provider
	baseURL   string
	userAgent string
	tracker   *APICallTracker
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API endpoint
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// NewClient creates a client. httpClient is used as given; wrap it in a
// transport.RetryingClient to get backoff on transient failures.
func NewClient(httpClient transport.HTTPClient, provider auth.Provider, opts ...Option) *Client {
	c := &Client{
		http:      httpClient,
		auth:      provider,
		baseURL:   DefaultBaseURL,
		userAgent: "gsheets_io/" + Version,
		tracker:   NewAPICallTracker(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Spreadsheets returns the resource for one spreadsheet
func (c *Client) Spreadsheets(spreadsheetID string) *SpreadsheetResource {
	return &SpreadsheetResource{client: c, spreadsheetID: spreadsheetID}
}

// CallTracker returns the per-operation call counter
func (c *Client) CallTracker() *APICallTracker {
	return c.tracker
}

// headers are built per call so an expired token is refreshed.
func (c *Client) headers(ctx context.Context) (transport.Headers, error) {
	authorization, err := c.auth.AuthorizationHeader(ctx)
	if err != nil {
		return nil, err
	}
	return transport.Headers{
		"Authorization": authorization,
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"User-Agent":    c.userAgent,
	}, nil
}

// call executes one API request and decodes a 200 response into out.
func (c *Client) call(ctx context.Context, op string, method transport.Method, url string, body interface{}, out interface{}) error {
	headers, err := c.headers(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req := &transport.Request{Method: method, URL: url, Headers: headers}
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		req.Body = string(encoded)
	}

	log.Debug().
		Str("op", op).
		Str("method", string(method)).
		Str("url", url).
		Msg("Calling Sheets API")

	resp, err := c.http.Execute(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.tracker.RecordCall(op)

	if resp.StatusCode != 200 {
		return newAPIError(resp)
	}

	if err := json.Unmarshal([]byte(resp.Body), out); err != nil {
		return &ParseError{Op: op, Body: resp.Body, Err: err}
	}
	return nil
}
