package auth

import (
	"encoding/json"
	"fmt"
	"os"
)

type serviceAccountKey struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// ParseServiceAccountKey reads a Google service account JSON key.
func ParseServiceAccountKey(data []byte) (ServiceAccount, error) {
	var key serviceAccountKey
	if err := json.Unmarshal(data, &key); err != nil {
		return ServiceAccount{}, &CredentialError{Op: "credential", Err: fmt.Errorf("invalid service account key: %w", err)}
	}
	if key.Type != "" && key.Type != "service_account" {
		return ServiceAccount{}, &CredentialError{Op: "credential", Err: fmt.Errorf("unexpected key type %q", key.Type)}
	}
	if key.ClientEmail == "" || key.PrivateKey == "" {
		return ServiceAccount{}, &CredentialError{Op: "credential", Err: fmt.Errorf("service account key requires client_email and private_key")}
	}

	return ServiceAccount{
		Email:      key.ClientEmail,
		PrivateKey: key.PrivateKey,
		TokenURL:   key.TokenURI,
	}, nil
}

// LoadServiceAccountKeyFile reads and parses a key file
func LoadServiceAccountKeyFile(path string) (ServiceAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ServiceAccount{}, fmt.Errorf("failed to read service account key file: %w", err)
	}
	return ParseServiceAccountKey(data)
}
