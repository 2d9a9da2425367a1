package transport

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Method is an HTTP method supported by the transport.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// Headers maps header names to a single value. Keys keep the case they were set with.
type Headers map[string]string

// Get returns the value for key, matching the name case-insensitively
func (h Headers) Get(key string) string {
	if v, ok := h[key]; ok {
		return v
	}
	for k, v := range h {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// Clone returns a copy of the headers
func (h Headers) Clone() Headers {
	if h == nil {
		return nil
	}
	out := make(Headers, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// Request is built per call and not reused.
type Request struct {
	Method  Method
	URL     string
	Headers Headers
	Body    string
}

// Response is the fully buffered result of a request.
type Response struct {
	StatusCode int
	Headers    Headers
	Body       string
}

// HTTPClient executes requests. Implementations return a *TransportError for
// DNS, dial, TLS or socket failures.
type HTTPClient interface {
	Execute(ctx context.Context, req *Request) (*Response, error)
}

var (
	// ErrTLSRequired is returned when a plain http URL is used without WithPlainHTTP.
	ErrTLSRequired = errors.New("https is required")

	// ErrNoMoreResponses is returned by MockClient when its queue is exhausted.
	ErrNoMoreResponses = errors.New("mock client: no more responses queued")
)

// OpProxyResolve marks a TransportError caused by proxy configuration.
const OpProxyResolve = "proxy resolve"

// TransportError reports a failure below the HTTP layer. StatusCode is set
// only when a proxy rejected a CONNECT request.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport %s failed (proxy status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Get executes a GET request
func Get(ctx context.Context, client HTTPClient, url string, headers Headers) (*Response, error) {
	return client.Execute(ctx, &Request{Method: MethodGet, URL: url, Headers: headers})
}

// Post executes a POST request
func Post(ctx context.Context, client HTTPClient, url string, headers Headers, body string) (*Response, error) {
	return client.Execute(ctx, &Request{Method: MethodPost, URL: url, Headers: headers, Body: body})
}

// Put executes a PUT request
func Put(ctx context.Context, client HTTPClient, url string, headers Headers, body string) (*Response, error) {
	return client.Execute(ctx, &Request{Method: MethodPut, URL: url, Headers: headers, Body: body})
}

// Delete executes a DELETE request
func Delete(ctx context.Context, client HTTPClient, url string, headers Headers) (*Response, error) {
	return client.Execute(ctx, &Request{Method: MethodDelete, URL: url, Headers: headers})
}
