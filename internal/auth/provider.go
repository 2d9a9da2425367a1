package auth

import (
	"context"
	"fmt"

	"gsheets_io/internal/transport"

	"golang.org/x/oauth2"
)

// Provider produces the Authorization header value for Sheets requests.
type Provider interface {
	AuthorizationHeader(ctx context.Context) (string, error)
}

// Compile-time interface compliance checks
var (
	_ Provider = (*BearerTokenAuth)(nil)
	_ Provider = (*OAuthAuth)(nil)
	_ Provider = (*ServiceAccountAuth)(nil)
)

// CredentialError reports a missing credential field, a JWT signing failure
// or a rejected token exchange. These are never retried.
type CredentialError struct {
	Op  string
	Err error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("auth %s failed: %v", e.Op, e.Err)
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

// BearerTokenAuth returns a static token. An empty token is allowed.
type BearerTokenAuth struct {
	token string
}

// NewBearerTokenAuth creates a static bearer provider
func NewBearerTokenAuth(token string) *BearerTokenAuth {
	return &BearerTokenAuth{token: token}
}

// AuthorizationHeader returns "Bearer <token>"
func (a *BearerTokenAuth) AuthorizationHeader(ctx context.Context) (string, error) {
	return "Bearer " + a.token, nil
}

// OAuthAuth wraps an OAuth access token obtained elsewhere.
type OAuthAuth struct {
	source oauth2.TokenSource
}

// NewOAuthAuth creates a provider around a static access token
func NewOAuthAuth(accessToken string) *OAuthAuth {
	return &OAuthAuth{
		source: oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: accessToken,
			TokenType:   "Bearer",
		}),
	}
}

// AuthorizationHeader returns "Bearer <token>"
func (a *OAuthAuth) AuthorizationHeader(ctx context.Context) (string, error) {
	token, err := a.source.Token()
	if err != nil {
		return "", &CredentialError{Op: "oauth token", Err: err}
	}
	return "Bearer " + token.AccessToken, nil
}

// Credential is one of BearerToken, OAuthToken or ServiceAccount.
type Credential interface {
	credential()
}

// BearerToken is a raw bearer token
type BearerToken struct {
	Token string
}

// OAuthToken is an OAuth access token
type OAuthToken struct {
	Token string
}

// ServiceAccount is a Google service account identity. TokenURL is optional.
type ServiceAccount struct {
	Email      string
	PrivateKey string
	TokenURL   string
}

func (BearerToken) credential()    {}
func (OAuthToken) credential()     {}
func (ServiceAccount) credential() {}

// NewProvider builds the provider matching cred. The HTTP client is only used
// by service accounts, for the token exchange.
func NewProvider(cred Credential, httpClient transport.HTTPClient) (Provider, error) {
	switch c := cred.(type) {
	case BearerToken:
		return NewBearerTokenAuth(c.Token), nil
	case OAuthToken:
		return NewOAuthAuth(c.Token), nil
	case ServiceAccount:
		if c.Email == "" {
			return nil, &CredentialError{Op: "credential", Err: fmt.Errorf("service account email is required")}
		}
		if c.PrivateKey == "" {
			return nil, &CredentialError{Op: "credential", Err: fmt.Errorf("service account private key is required")}
		}
		if httpClient == nil {
			return nil, &CredentialError{Op: "credential", Err: fmt.Errorf("service account requires an HTTP client")}
		}
		var opts []ServiceAccountOption
		if c.TokenURL != "" {
			opts = append(opts, WithTokenURL(c.TokenURL))
		}
		return NewServiceAccountAuth(httpClient, c.Email, c.PrivateKey, opts...), nil
	case nil:
		return nil, &CredentialError{Op: "credential", Err: fmt.Errorf("no credential provided")}
	default:
		return nil, &CredentialError{Op: "credential", Err: fmt.Errorf("unsupported credential type %T", cred)}
	}
}
