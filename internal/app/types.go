package app

import (
	"gsheets_io/internal/auth"
	"gsheets_io/internal/config"
	"gsheets_io/internal/transport"
)

// CredentialSource names where the credential was read from
type CredentialSource string

const (
	SourceKeyFile        CredentialSource = "key_file"
	SourceServiceAccount CredentialSource = "service_account"
	SourceOAuthToken     CredentialSource = "oauth_token"
	SourceBearerToken    CredentialSource = "token"
)

// Environment variables read by LoadConfig
const (
	EnvToken             = "GSHEETS_TOKEN"
	EnvOAuthToken        = "GSHEETS_OAUTH_TOKEN"
	EnvEmail             = "GSHEETS_EMAIL"
	EnvPrivateKey        = "GSHEETS_PRIVATE_KEY"
	EnvKeyFile           = "GSHEETS_KEY_FILE"
	EnvProxy             = "GSHEETS_HTTP_PROXY"
	EnvProxyUsername     = "GSHEETS_HTTP_PROXY_USERNAME"
	EnvProxyPassword     = "GSHEETS_HTTP_PROXY_PASSWORD"
	EnvBaseURL           = "GSHEETS_BASE_URL"
	EnvRequestsPerSecond = "GSHEETS_REQUESTS_PER_SECOND"
)

// Config holds application configuration
type Config struct {
	Credential       auth.Credential
	CredentialSource CredentialSource
	Proxy            *transport.ProxyConfig
	BaseURL          string
	RateLimit        config.RateLimitConfig
}
