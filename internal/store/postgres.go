package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-scout/internal/db"
)

// PostgresBlobs implements Blobs using pgxpool.
type PostgresBlobs struct {
	pool db.Pool
}

// NewPostgres creates a PostgresBlobs with a small connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresBlobs, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MinConns = 1
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresBlobs{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS lead_blobs (
	key        TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

var putBlobSQL = func() string {
	q, err := db.UpsertSQL(db.UpsertConfig{
		Table:        "lead_blobs",
		Columns:      []string{"key", "data", "updated_at"},
		ConflictKeys: []string{"key"},
	})
	if err != nil {
		panic(err)
	}
	return q
}()

func (s *PostgresBlobs) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresBlobs) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM lead_blobs WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get blob %s", key)
	}
	return data, nil
}

func (s *PostgresBlobs) Put(ctx context.Context, key string, data []byte) error {
	if _, err := s.pool.Exec(ctx, putBlobSQL, key, data, time.Now().UTC()); err != nil {
		return eris.Wrapf(err, "postgres: put blob %s", key)
	}
	return nil
}
