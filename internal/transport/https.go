package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"gsheets_io/internal/config"

	"github.com/rs/zerolog/log"
)

// HTTPSClient is the real transport. TLS targets are dialed directly or
// through a CONNECT tunnel; plain http targets, when allowed, are sent to the
// proxy as absolute-URI requests.
type HTTPSClient struct {
	client         *http.Client
	proxy          *ProxyConfig
	tlsConfig      *tls.Config
	allowPlainHTTP bool
	timeout        time.Duration
	apiCallCount   int64
	apiCallMutex   sync.Mutex
}

// HTTPSOption configures an HTTPSClient
type HTTPSOption func(*HTTPSClient)

// WithProxy sets the explicit proxy used when the environment names none
func WithProxy(proxy *ProxyConfig) HTTPSOption {
	return func(c *HTTPSClient) {
		c.proxy = proxy
	}
}

// WithPlainHTTP allows http:// URLs
func WithPlainHTTP() HTTPSOption {
	return func(c *HTTPSClient) {
		c.allowPlainHTTP = true
	}
}

// WithTLSConfig overrides the TLS configuration, e.g. to trust a test CA
func WithTLSConfig(cfg *tls.Config) HTTPSOption {
	return func(c *HTTPSClient) {
		c.tlsConfig = cfg
	}
}

// WithTimeout sets the overall per-request timeout
func WithTimeout(timeout time.Duration) HTTPSOption {
	return func(c *HTTPSClient) {
		c.timeout = timeout
	}
}

// NewHTTPSClient creates the real transport
func NewHTTPSClient(opts ...HTTPSOption) *HTTPSClient {
	c := &HTTPSClient{
		timeout: config.DefaultResilienceConfig.SheetsRequest.Timeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{
		Timeout: c.timeout,
		Transport: &http.Transport{
			Proxy:               c.plainHTTPProxy,
			DialTLSContext:      c.dialTLS,
			TLSHandshakeTimeout: 10 * time.Second,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConns:        10,
		},
	}

	return c
}

// IncrementAPICall safely increments the API call counter
func (c *HTTPSClient) IncrementAPICall() {
	c.apiCallMutex.Lock()
	c.apiCallCount++
	c.apiCallMutex.Unlock()
}

// GetAPICallCount returns the number of completed round trips
func (c *HTTPSClient) GetAPICallCount() int64 {
	c.apiCallMutex.Lock()
	defer c.apiCallMutex.Unlock()
	return c.apiCallCount
}

// ResetAPICallCount resets the API call counter to zero
func (c *HTTPSClient) ResetAPICallCount() {
	c.apiCallMutex.Lock()
	c.apiCallCount = 0
	c.apiCallMutex.Unlock()
}

// plainHTTPProxy is consulted by net/http for every request. TLS targets are
// tunneled by dialTLS instead, so only http targets get a proxy here.
func (c *HTTPSClient) plainHTTPProxy(req *http.Request) (*url.URL, error) {
	if req.URL.Scheme != "http" {
		return nil, nil
	}
	proxy, err := ResolveProxy(req.URL, c.proxy)
	if err != nil || proxy == nil {
		return nil, err
	}
	return proxy.URL(), nil
}

func (c *HTTPSClient) dialTLS(ctx context.Context, network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, &TransportError{Op: "dial", Err: err}
	}

	proxy, err := ResolveProxy(&url.URL{Scheme: "https", Host: addr}, c.proxy)
	if err != nil {
		return nil, &TransportError{Op: OpProxyResolve, Err: err}
	}
	if proxy != nil {
		return dialTunnel(ctx, proxy, addr, c.tlsConfig)
	}

	cfg := &tls.Config{}
	if c.tlsConfig != nil {
		cfg = c.tlsConfig.Clone()
	}
	if cfg.ServerName == "" {
		cfg.ServerName = host
	}

	dialer := &tls.Dialer{Config: cfg}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, &TransportError{Op: "tls dial", Err: err}
	}
	return conn, nil
}

// Execute sends req and buffers the full response.
func (c *HTTPSClient) Execute(ctx context.Context, req *Request) (*Response, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL %q: %w", req.URL, err)
	}
	switch u.Scheme {
	case "https":
	case "http":
		if !c.allowPlainHTTP {
			return nil, fmt.Errorf("%w: %s", ErrTLSRequired, req.URL)
		}
	default:
		return nil, fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("request URL %q has no host", req.URL)
	}

	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if body != nil && req.Headers.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		log.Debug().
			Err(err).
			Str("method", string(req.Method)).
			Str("url", req.URL).
			Msg("HTTP request failed")

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("request aborted: %w", ctxErr)
		}
		var transportErr *TransportError
		if errors.As(err, &transportErr) {
			return nil, transportErr
		}
		return nil, &TransportError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read", Err: err}
	}

	c.IncrementAPICall()

	headers := make(Headers, len(resp.Header))
	for k, v := range resp.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	log.Debug().
		Str("method", string(req.Method)).
		Str("url", req.URL).
		Int("status", resp.StatusCode).
		Int("bytes", len(respBody)).
		Msg("HTTP request completed")

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    headers,
		Body:       string(respBody),
	}, nil
}
