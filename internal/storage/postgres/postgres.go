package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/retry-go"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool wraps pgxpool.Pool for dependency injection.
type Pool struct {
	*pgxpool.Pool
}

// NewPool creates a Postgres connection pool with shopspring decimal codecs
// registered on every connection. The initial ping is retried so a run does
// not die on a database that is still coming up.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	config.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	err = retry.Do(
		func() error { return pool.Ping(ctx) },
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.MaxDelay(10*time.Second),
		retry.Context(ctx),
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Close closes the connection pool.
func (p *Pool) Close() {
	p.Pool.Close()
}

func isNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
