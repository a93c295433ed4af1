// Package problems defines the failure taxonomy of the OAuth flow and its
// mapping onto HTTP statuses. Handlers return *Error from verification steps
// and render it in one place, so the first failing step determines the
// response and no later step runs.
package problems

import "net/http"

type Kind string

const (
	MissingParameters   Kind = "missing_parameters"
	InvalidTenant       Kind = "invalid_tenant"
	StaleRequest        Kind = "stale_request"
	AuthenticityFailure Kind = "authenticity_failure"
	ForgerySuspected    Kind = "forgery_suspected"
	ExchangeFailed      Kind = "exchange_failed"
	MethodNotAllowed    Kind = "method_not_allowed"
	MalformedEvent      Kind = "malformed_event"
	StoreFailure        Kind = "store_failure"
	Unexpected          Kind = "unexpected"
)

// Status maps a kind to its response status. Validation failures are client
// errors; signature and anti-forgery failures are forbidden (except webhook
// signatures, which Shopify expects as 401); store and unknown failures are
// generic 500s.
func (k Kind) Status() int {
	switch k {
	case MissingParameters, InvalidTenant, StaleRequest, ExchangeFailed, MalformedEvent:
		return http.StatusBadRequest
	case AuthenticityFailure, ForgerySuspected:
		return http.StatusForbidden
	case MethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a terse client-safe message. Msg must never contain secret
// material; internal detail belongs in logs, not responses.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return string(e.Kind) + ": " + e.Msg }

func E(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}
