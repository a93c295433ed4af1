// Package signature implements the two keyed-hash checks of the install
// protocol: the hex HMAC over OAuth callback query parameters and the base64
// HMAC over raw webhook bodies. Both compare in constant time and fail closed
// on an empty secret.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Canonicalize renders query parameters into the signed message form: the
// hmac and signature fields are dropped, keys are sorted lexicographically,
// repeated values are comma-joined, and pairs are joined by "&".
func Canonicalize(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hmac" || k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+strings.Join(values[k], ","))
	}
	return strings.Join(parts, "&")
}

// SignQuery computes the hex HMAC-SHA-256 digest of the canonicalized
// parameters. Shopify sends this as the "hmac" query parameter.
func SignQuery(values url.Values, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(Canonicalize(values)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyQuery recomputes the callback signature and compares it to the hmac
// parameter. hmac.Equal rejects length mismatches without short-circuiting a
// byte-wise comparison.
func VerifyQuery(values url.Values, secret string) bool {
	given := values.Get("hmac")
	if given == "" || secret == "" {
		return false
	}
	return hmac.Equal([]byte(SignQuery(values, secret)), []byte(given))
}

// WebhookDigest computes the base64 HMAC-SHA-256 digest of a raw webhook
// body. The body must be the exact bytes received; parsing and re-encoding
// would break the comparison.
func WebhookDigest(raw []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(raw)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyWebhook compares the received signature header against the digest of
// the raw body in constant time.
func VerifyWebhook(raw []byte, given, secret string) bool {
	if given == "" || secret == "" {
		return false
	}
	return hmac.Equal([]byte(WebhookDigest(raw, secret)), []byte(given))
}
