package encoding

import (
	"encoding/base64"
	"fmt"
)

// Base64URLEncode encodes data with the URL-safe alphabet and no padding,
// as JWT segments require.
func Base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// Base64URLEncodeString encodes the bytes of s.
func Base64URLEncodeString(s string) string {
	return Base64URLEncode([]byte(s))
}

// Base64URLDecode reverses Base64URLEncode. Padding is not accepted.
func Base64URLDecode(s string) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64url input: %w", err)
	}
	return data, nil
}
