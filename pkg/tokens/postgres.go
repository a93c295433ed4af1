// pkg/tokens/postgres.go
package tokens

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// pgStore implements Store backed by PostgreSQL.
type pgStore struct {
	dbPool *pgxpool.Pool
	log    *zap.SugaredLogger
}

// NewPostgresStore constructs a PostgreSQL-backed token store.
func NewPostgresStore(dbPool *pgxpool.Pool, log *zap.SugaredLogger) Store {
	return &pgStore{dbPool: dbPool, log: log}
}

// EnsureSchema creates the token table if it does not already exist.
// Safe to call repeatedly (idempotent).
func EnsureSchema(ctx context.Context, dbPool *pgxpool.Pool) error {
	_, err := dbPool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS shop_tokens (
  shop text PRIMARY KEY,
  token text NOT NULL,
  scope text NOT NULL DEFAULT '',
  installed_at timestamptz NOT NULL DEFAULT NOW()
);
`)
	return err
}

func (p *pgStore) Put(ctx context.Context, shop, token, scope string) error {
	_, err := p.dbPool.Exec(ctx, `INSERT INTO shop_tokens(shop,token,scope,installed_at)
	  VALUES ($1,$2,$3,NOW())
	  ON CONFLICT (shop) DO UPDATE SET token=EXCLUDED.token,scope=EXCLUDED.scope,installed_at=EXCLUDED.installed_at`,
		shop, token, scope)
	return err
}

func (p *pgStore) Get(ctx context.Context, shop string) (Record, error) {
	row := p.dbPool.QueryRow(ctx, `SELECT shop,token,scope,installed_at FROM shop_tokens WHERE shop=$1`, shop)
	var rec Record
	if err := row.Scan(&rec.Shop, &rec.Token, &rec.Scope, &rec.InstalledAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

func (p *pgStore) List(ctx context.Context, shopFilter string) ([]Record, error) {
	if shopFilter != "" {
		rec, err := p.Get(ctx, shopFilter)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []Record{rec}, nil
	}
	rows, err := p.dbPool.Query(ctx, `SELECT shop,token,scope,installed_at FROM shop_tokens ORDER BY shop`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Shop, &rec.Token, &rec.Scope, &rec.InstalledAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *pgStore) Delete(ctx context.Context, shop string) error {
	_, err := p.dbPool.Exec(ctx, `DELETE FROM shop_tokens WHERE shop=$1`, shop)
	return err
}
