package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gsheets_io/internal/auth"
	"gsheets_io/internal/config"
	"gsheets_io/internal/sheets"
	"gsheets_io/internal/transport"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	// Configure logging
	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// loadCredential picks the most specific credential present: a key file,
// then an email and private key, then an OAuth token, then a bearer token.
func loadCredential() (auth.Credential, CredentialSource, error) {
	if path := os.Getenv(EnvKeyFile); path != "" {
		cred, err := auth.LoadServiceAccountKeyFile(path)
		if err != nil {
			return nil, "", err
		}
		return cred, SourceKeyFile, nil
	}

	email := os.Getenv(EnvEmail)
	privateKey := os.Getenv(EnvPrivateKey)
	if email != "" || privateKey != "" {
		if email == "" {
			return nil, "", fmt.Errorf("%s environment variable is required when %s is set", EnvEmail, EnvPrivateKey)
		}
		if privateKey == "" {
			return nil, "", fmt.Errorf("%s environment variable is required when %s is set", EnvPrivateKey, EnvEmail)
		}
		return auth.ServiceAccount{Email: email, PrivateKey: privateKey}, SourceServiceAccount, nil
	}

	if token := os.Getenv(EnvOAuthToken); token != "" {
		return auth.OAuthToken{Token: token}, SourceOAuthToken, nil
	}
	if token := os.Getenv(EnvToken); token != "" {
		return auth.BearerToken{Token: token}, SourceBearerToken, nil
	}

	return nil, "", fmt.Errorf("no credentials: set %s, %s and %s, %s, or %s",
		EnvKeyFile, EnvEmail, EnvPrivateKey, EnvOAuthToken, EnvToken)
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cred, source, err := loadCredential()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Credential:       cred,
		CredentialSource: source,
		BaseURL:          os.Getenv(EnvBaseURL),
	}

	if value := os.Getenv(EnvProxy); value != "" {
		proxy, err := transport.ParseProxy(value, os.Getenv(EnvProxyUsername), os.Getenv(EnvProxyPassword))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvProxy, err)
		}
		cfg.Proxy = proxy
	}

	if value := os.Getenv(EnvRequestsPerSecond); value != "" {
		rps, err := cast.ToFloat64E(value)
		if err != nil || rps < 0 {
			return nil, fmt.Errorf("invalid %s %q: expected a non-negative number", EnvRequestsPerSecond, value)
		}
		cfg.RateLimit = config.RateLimitConfig{
			RequestsPerSecond: rps,
			Burst:             config.DefaultResilienceConfig.RateLimit.Burst,
		}
	}

	return cfg, nil
}

// NewSheetsClient assembles the transport stack: the HTTPS client is shared by
// the token exchange and, behind the retrying layer, by every Sheets call.
func NewSheetsClient(cfg *Config) (*sheets.Client, *transport.HTTPSClient, error) {
	var httpsOpts []transport.HTTPSOption
	if cfg.Proxy != nil {
		httpsOpts = append(httpsOpts, transport.WithProxy(cfg.Proxy))
	}
	httpsClient := transport.NewHTTPSClient(httpsOpts...)

	provider, err := auth.NewProvider(cfg.Credential, httpsClient)
	if err != nil {
		return nil, nil, err
	}

	retrying := transport.NewRetryingClient(httpsClient, transport.WithRateLimit(cfg.RateLimit))

	var clientOpts []sheets.Option
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, sheets.WithBaseURL(cfg.BaseURL))
	}

	log.Debug().
		Str("credential", string(cfg.CredentialSource)).
		Bool("proxy", cfg.Proxy != nil).
		Float64("requests_per_second", cfg.RateLimit.RequestsPerSecond).
		Msg("Created Sheets client")

	return sheets.NewClient(retrying, provider, clientOpts...), httpsClient, nil
}
