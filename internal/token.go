package internal

import (
	"crypto/rand"
	"encoding/base64"
)

const tokenRawSize = 32

// NewToken returns a 256-bit random token encoded as unpadded base64url.
// Used for both session and CSRF tokens.
func NewToken() (string, error) {
	raw := make([]byte, tokenRawSize)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
