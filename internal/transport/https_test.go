package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProxyEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"HTTPS_PROXY", "https_proxy", "HTTP_PROXY", "http_proxy", "NO_PROXY", "no_proxy", "REQUEST_METHOD"} {
		t.Setenv(key, "")
	}
}

func trustServer(srv *httptest.Server) *tls.Config {
	pool := x509.NewCertPool()
	pool.AddCert(srv.Certificate())
	return &tls.Config{RootCAs: pool}
}

func TestHTTPSClientExecute(t *testing.T) {
	clearProxyEnv(t)

	var gotMethod, gotContentType, gotAuth, gotBody string
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Set("X-Request-Id", "abc")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"created":true}`))
	}))
	defer srv.Close()

	client := NewHTTPSClient(WithTLSConfig(trustServer(srv)))

	resp, err := Post(context.Background(), client, srv.URL+"/v4/spreadsheets", Headers{"Authorization": "Bearer tok"}, `{"a":1}`)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, `{"created":true}`, resp.Body)
	assert.Equal(t, "abc", resp.Headers.Get("X-Request-Id"))
	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "application/json", gotContentType, "content type defaults to JSON")
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, `{"a":1}`, gotBody)
	assert.Equal(t, int64(1), client.GetAPICallCount())

	client.ResetAPICallCount()
	assert.Equal(t, int64(0), client.GetAPICallCount())
}

func TestHTTPSClientContentTypeFromHeaders(t *testing.T) {
	clearProxyEnv(t)

	var gotContentType string
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
	}))
	defer srv.Close()

	client := NewHTTPSClient(WithTLSConfig(trustServer(srv)))

	_, err := Post(context.Background(), client, srv.URL, Headers{"content-type": "application/x-www-form-urlencoded"}, "a=b")
	require.NoError(t, err)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
}

func TestHTTPSClientRequiresTLS(t *testing.T) {
	client := NewHTTPSClient()

	_, err := Get(context.Background(), client, "http://example.com/", nil)
	assert.True(t, errors.Is(err, ErrTLSRequired))

	_, err = Get(context.Background(), client, "ftp://example.com/", nil)
	assert.Error(t, err)

	_, err = Get(context.Background(), client, "https:///nohost", nil)
	assert.Error(t, err)
}

func TestHTTPSClientPlainHTTPAllowed(t *testing.T) {
	clearProxyEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain"))
	}))
	defer srv.Close()

	client := NewHTTPSClient(WithPlainHTTP())

	resp, err := Get(context.Background(), client, srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "plain", resp.Body)
}

func TestHTTPSClientConnectionRefused(t *testing.T) {
	clearProxyEnv(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	listener.Close()

	client := NewHTTPSClient(WithTimeout(5 * time.Second))

	_, err = Get(context.Background(), client, "https://"+addr+"/", nil)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "tls dial", transportErr.Op)
}

func TestHTTPSClientUntrustedCertificate(t *testing.T) {
	clearProxyEnv(t)

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	client := NewHTTPSClient()

	_, err := Get(context.Background(), client, srv.URL, nil)

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}
