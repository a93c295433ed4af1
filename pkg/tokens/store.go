// Package tokens persists per-shop access tokens, keyed by the shop domain.
// One record per shop; Put is last-write-wins. Backends: in-memory (dev),
// Redis hashes (the layout the original deployment used), and Postgres.
package tokens

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("token not found")

// Record is the stored outcome of one successful install.
type Record struct {
	Shop        string    `json:"shop"`
	Token       string    `json:"token"`
	Scope       string    `json:"scope"`
	InstalledAt time.Time `json:"installed_at"`
}

type Store interface {
	// Put upserts the record for shop, stamping the current time.
	Put(ctx context.Context, shop, token, scope string) error
	// Get returns the record for shop, or ErrNotFound.
	Get(ctx context.Context, shop string) (Record, error)
	// List returns all records, or just the one matching shopFilter when set.
	// Absent filter matches are simply omitted, not an error.
	List(ctx context.Context, shopFilter string) ([]Record, error)
	// Delete removes the record for shop. Deleting an absent record is a
	// no-op so uninstall webhooks stay safe to retry.
	Delete(ctx context.Context, shop string) error
}
