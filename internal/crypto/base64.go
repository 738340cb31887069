package crypto

import (
	"encoding/base64"
)

// ToBase64URL encodes bytes to URL-safe base64, keeping '=' padding.
// This is the standard alphabet with '+' mapped to '-' and '/' to '_'.
func ToBase64URL(data []byte) string {
	return base64.URLEncoding.EncodeToString(data)
}

// FromBase64URL decodes padded URL-safe base64.
func FromBase64URL(s string) ([]byte, error) {
	return base64.URLEncoding.DecodeString(s)
}

// DecodeBase64 decodes base64 in any of the URL-safe or standard alphabets,
// with or without padding.
func DecodeBase64(s string) ([]byte, error) {
	// Padded URL-safe first, it is what the login protocol emits
	data, err := base64.URLEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}

	data, err = base64.RawURLEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}

	data, err = base64.RawStdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}

	return base64.StdEncoding.DecodeString(s)
}

// ToBase64 encodes bytes to standard base64 with padding.
func ToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// FromBase64 decodes standard base64 (with padding) to bytes.
func FromBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
