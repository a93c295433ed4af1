package state

import (
	"crypto/rand"
	"encoding/base64"
)

// 48 random bytes encode to 64 base64url characters.
const nonceBytes = 48

func newNonce() (string, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
