package transport

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/http/httpproxy"
)

const defaultProxyPort = 80

// ProxyConfig describes an HTTP forward proxy.
type ProxyConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Address returns host:port
func (p *ProxyConfig) Address() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// URL returns the proxy as an http URL including credentials.
func (p *ProxyConfig) URL() *url.URL {
	u := &url.URL{Scheme: "http", Host: p.Address()}
	if p.Username != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u
}

// ParseProxy parses host, host:port or scheme://host:port. Explicit username
// and password override credentials embedded in the value. The port defaults to 80.
func ParseProxy(value, username, password string) (*ProxyConfig, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("proxy address is empty")
	}

	if !strings.Contains(value, "://") {
		value = "http://" + value
	}

	u, err := url.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy address %q: %w", value, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("proxy address %q has no host", value)
	}

	port := defaultProxyPort
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid proxy port %q", p)
		}
	} else if strings.HasSuffix(u.Host, ":") {
		return nil, fmt.Errorf("invalid proxy port in %q", value)
	}

	cfg := &ProxyConfig{Host: host, Port: port}
	if u.User != nil {
		cfg.Username = u.User.Username()
		cfg.Password, _ = u.User.Password()
	}
	if username != "" {
		cfg.Username = username
		cfg.Password = password
	}

	return cfg, nil
}

// ResolveProxy picks the proxy for target. Environment variables win over the
// explicit configuration; a NO_PROXY match means a direct connection. HTTPS
// targets fall back to HTTP_PROXY when HTTPS_PROXY is unset.
func ResolveProxy(target *url.URL, explicit *ProxyConfig) (*ProxyConfig, error) {
	env := httpproxy.FromEnvironment()
	if env.HTTPSProxy == "" {
		env.HTTPSProxy = env.HTTPProxy
	}

	if env.HTTPProxy != "" || env.HTTPSProxy != "" {
		proxyURL, err := env.ProxyFunc()(target)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy environment: %w", err)
		}
		if proxyURL != nil {
			password, _ := proxyURL.User.Password()
			return ParseProxy(proxyURL.Host, proxyURL.User.Username(), password)
		}
	}

	if noProxyMatches(env.NoProxy, target.Hostname()) {
		return nil, nil
	}

	return explicit, nil
}

// noProxyMatches applies NO_PROXY to the explicit configuration, which
// httpproxy never sees.
func noProxyMatches(noProxy, host string) bool {
	host = strings.ToLower(host)
	for _, entry := range strings.Split(noProxy, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		if entry == "*" {
			return true
		}
		if h, _, err := net.SplitHostPort(entry); err == nil {
			entry = h
		}
		entry = strings.TrimPrefix(entry, "*")
		if strings.HasPrefix(entry, ".") {
			if strings.HasSuffix(host, entry) || host == entry[1:] {
				return true
			}
			continue
		}
		if host == entry || strings.HasSuffix(host, "."+entry) {
			return true
		}
	}
	return false
}

// dialTunnel opens a CONNECT tunnel to target through proxy and performs the
// TLS handshake over it.
func dialTunnel(ctx context.Context, proxy *ProxyConfig, target string, tlsConfig *tls.Config) (net.Conn, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", proxy.Address())
	if err != nil {
		return nil, &TransportError{Op: "proxy dial", Err: err}
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	connectReq := &http.Request{
		Method: http.MethodConnect,
		URL:    &url.URL{Opaque: target},
		Host:   target,
		Header: make(http.Header),
	}
	if proxy.Username != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(proxy.Username + ":" + proxy.Password))
		connectReq.Header.Set("Proxy-Authorization", "Basic "+credentials)
	}

	log.Debug().
		Str("proxy", proxy.Address()).
		Str("target", target).
		Bool("authenticated", proxy.Username != "").
		Msg("Opening CONNECT tunnel")

	if err := connectReq.Write(conn); err != nil {
		conn.Close()
		return nil, &TransportError{Op: "proxy write", Err: err}
	}

	br := bufio.NewReader(conn)
	resp, err := http.ReadResponse(br, connectReq)
	if err != nil {
		conn.Close()
		return nil, &TransportError{Op: "proxy read", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		conn.Close()
		return nil, &TransportError{
			Op:         "proxy connect",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("CONNECT %s rejected: %s %s", target, resp.Status, strings.TrimSpace(string(body))),
		}
	}

	if br.Buffered() > 0 {
		conn.Close()
		return nil, &TransportError{Op: "proxy connect", Err: fmt.Errorf("unexpected data after CONNECT response")}
	}

	_ = conn.SetDeadline(time.Time{})

	host, _, err := net.SplitHostPort(target)
	if err != nil {
		conn.Close()
		return nil, &TransportError{Op: "tls", Err: err}
	}

	cfg := &tls.Config{}
	if tlsConfig != nil {
		cfg = tlsConfig.Clone()
	}
	if cfg.ServerName == "" {
		cfg.ServerName = host
	}

	tlsConn := tls.Client(conn, cfg)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, &TransportError{Op: "tls handshake", Err: err}
	}

	return tlsConn, nil
}
