// Package shop validates merchant shop domains. Every handler runs a shop
// value through Normalize+Valid before touching any store or network; the
// normalized domain is the primary key for all persisted state.
package shop

import (
	"regexp"
	"strings"
)

// PlatformDomain is the suffix every installable shop domain carries.
const PlatformDomain = "myshopify.com"

// Matches "<label>.myshopify.com" where label is alphanumerics/hyphens and
// does not start with a hyphen. Input is lowercased first, so the match is
// effectively case-insensitive.
var shopRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*\.` + regexp.QuoteMeta(PlatformDomain) + `$`)

// Normalize trims and lowercases a raw shop parameter.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Valid reports whether s is a well-formed shop domain. Callers should pass
// the Normalize'd value.
func Valid(s string) bool {
	return shopRe.MatchString(s)
}

// StateCookieName derives the per-shop anti-forgery cookie name, so two
// concurrent installs for different shops never clobber each other's cookie.
func StateCookieName(shop string) string {
	return "shopify_state_" + strings.ReplaceAll(shop, ".", "_")
}
