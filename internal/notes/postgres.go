package notes

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresStore keeps notes in a single table keyed by the normalized topic.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresStore connects, verifies the connection and creates the notes
// table when it does not exist.
func NewPostgresStore(ctx context.Context, dsn, table string) (*PostgresStore, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid notes table name %q", table)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	s := &PostgresStore{pool: pool, table: table}
	if err := s.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	key        TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, s.table))
	if err != nil {
		return fmt.Errorf("create notes table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Write(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`INSERT INTO %s (key, content, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at`, s.table),
		key, value)
	if err != nil {
		return fmt.Errorf("write note %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Read(ctx context.Context, key string) (string, error) {
	var content string
	err := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT content FROM %s WHERE key = $1`, s.table), key).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read note %s: %w", key, err)
	}
	return content, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
