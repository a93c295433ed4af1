// Package state binds a shop domain to its pending anti-forgery token for
// the duration of one install round trip. Tokens are single-use: Consume is
// an atomic compare-and-clear, so two callbacks racing with the same token
// yield at most one success.
package state

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("state not found or expired")
	ErrMismatch = errors.New("state mismatch")
)

type Store interface {
	// Save binds shop -> state for ttl, replacing any previous binding.
	Save(ctx context.Context, shop, state string, ttl time.Duration) error
	// Consume clears the binding iff the stored value equals state.
	// Returns ErrNotFound when no live binding exists, ErrMismatch when the
	// value differs (the binding is left in place to expire).
	Consume(ctx context.Context, shop, state string) error
}

// NewNonce returns a fresh URL-safe anti-forgery token.
func NewNonce() (string, error) { return newNonce() }
