package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"gsheets_io/internal/encoding"
	"gsheets_io/internal/transport"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	// TokenURL is Google's OAuth 2.0 token endpoint
	TokenURL = "https://oauth2.googleapis.com/token"
	// SpreadsheetsScope grants read/write access to spreadsheets
	SpreadsheetsScope = "https://www.googleapis.com/auth/spreadsheets"

	jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	jwtHeader          = `{"alg":"RS256","typ":"JWT"}`
	jwtLifetime        = 30 * time.Minute
	defaultExpiresIn   = 1800
	expirySafetyMargin = 60 * time.Second
)

// ServiceAccountAuth exchanges a self-signed JWT for an access token and
// caches it until shortly before it expires.
type ServiceAccountAuth struct {
	http       transport.HTTPClient
	email      string
	privateKey string
	tokenURL   string
	scope      string
	now        func() time.Time

	mu    sync.Mutex
	token *oauth2.Token
}

// ServiceAccountOption configures a ServiceAccountAuth
type ServiceAccountOption func(*ServiceAccountAuth)

// WithTokenURL overrides the token endpoint
func WithTokenURL(tokenURL string) ServiceAccountOption {
	return func(a *ServiceAccountAuth) {
		a.tokenURL = tokenURL
	}
}

// WithScope overrides the requested OAuth scope
func WithScope(scope string) ServiceAccountOption {
	return func(a *ServiceAccountAuth) {
		a.scope = scope
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) ServiceAccountOption {
	return func(a *ServiceAccountAuth) {
		a.now = now
	}
}

// NewServiceAccountAuth creates a service account provider. Literal "\n"
// sequences in privateKey are accepted in place of newlines.
func NewServiceAccountAuth(httpClient transport.HTTPClient, email, privateKey string, opts ...ServiceAccountOption) *ServiceAccountAuth {
	a := &ServiceAccountAuth{
		http:       httpClient,
		email:      email,
		privateKey: privateKey,
		tokenURL:   TokenURL,
		scope:      SpreadsheetsScope,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AuthorizationHeader returns "Bearer <token>", refreshing the cached token
// when it is missing or expired.
func (a *ServiceAccountAuth) AuthorizationHeader(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token == nil || a.token.AccessToken == "" || !a.now().Before(a.token.Expiry) {
		log.Debug().
			Str("email", a.email).
			Bool("had_token", a.token != nil).
			Msg("Refreshing service account access token")

		signed, err := a.CreateJWT()
		if err != nil {
			return "", err
		}
		token, err := a.ExchangeJWTForToken(ctx, signed)
		if err != nil {
			return "", err
		}
		a.token = token
	}

	return "Bearer " + a.token.AccessToken, nil
}

type jwtClaims struct {
	Iss   string `json:"iss"`
	Scope string `json:"scope"`
	Aud   string `json:"aud"`
	Iat   int64  `json:"iat"`
	Exp   int64  `json:"exp"`
}

// CreateJWT builds and signs the RS256 assertion sent to the token endpoint.
func (a *ServiceAccountAuth) CreateJWT() (string, error) {
	iat := a.now().Unix()
	claims, err := json.Marshal(jwtClaims{
		Iss:   a.email,
		Scope: a.scope,
		Aud:   a.tokenURL,
		Iat:   iat,
		Exp:   iat + int64(jwtLifetime/time.Second),
	})
	if err != nil {
		return "", &CredentialError{Op: "sign", Err: fmt.Errorf("failed to encode claims: %w", err)}
	}

	signingInput := encoding.Base64URLEncodeString(jwtHeader) + "." + encoding.Base64URLEncode(claims)

	pemKey := strings.ReplaceAll(a.privateKey, `\n`, "\n")
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pemKey))
	if err != nil {
		return "", &CredentialError{Op: "sign", Err: fmt.Errorf("failed to parse private key: %w", err)}
	}

	signature, err := jwt.SigningMethodRS256.Sign(signingInput, key)
	if err != nil {
		return "", &CredentialError{Op: "sign", Err: fmt.Errorf("failed to sign JWT: %w", err)}
	}

	return signingInput + "." + encoding.Base64URLEncode(signature), nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ExchangeJWTForToken posts the assertion to the token endpoint. The returned
// token expires a safety margin before the server-reported lifetime.
func (a *ServiceAccountAuth) ExchangeJWTForToken(ctx context.Context, assertion string) (*oauth2.Token, error) {
	body := "grant_type=" + jwtBearerGrantType + "&assertion=" + assertion

	resp, err := transport.Post(ctx, a.http, a.tokenURL, transport.Headers{
		"Content-Type": "application/x-www-form-urlencoded",
	}, body)
	if err != nil {
		return nil, &CredentialError{Op: "exchange", Err: err}
	}

	if resp.StatusCode != 200 {
		return nil, &CredentialError{
			Op:  "exchange",
			Err: fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, resp.Body),
		}
	}

	var parsed tokenResponse
	if err := json.Unmarshal([]byte(resp.Body), &parsed); err != nil {
		return nil, &CredentialError{
			Op:  "exchange",
			Err: fmt.Errorf("failed to parse token response: %w: %s", err, resp.Body),
		}
	}
	if parsed.AccessToken == "" {
		return nil, &CredentialError{
			Op:  "exchange",
			Err: fmt.Errorf("token response missing 'access_token': %s", resp.Body),
		}
	}

	expiresIn := parsed.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = defaultExpiresIn
	}
	tokenType := parsed.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	log.Debug().
		Str("email", a.email).
		Int64("expires_in", expiresIn).
		Msg("Obtained service account access token")

	return &oauth2.Token{
		AccessToken: parsed.AccessToken,
		TokenType:   tokenType,
		Expiry:      a.now().Add(time.Duration(expiresIn)*time.Second - expirySafetyMargin),
	}, nil
}
