package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver for goose
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresRequests is the durable request ledger. Carts stay in memory even
// when Postgres is configured: drafts are conversation-scoped scratch state,
// while the finalized ledger is the record worth keeping.
type PostgresRequests struct {
	pool *pgxpool.Pool
}

// OpenPostgresRequests connects, runs pending migrations, and returns the
// ledger. The caller owns Close.
func OpenPostgresRequests(ctx context.Context, databaseURL string) (*PostgresRequests, error) {
	if err := migrate(databaseURL); err != nil {
		return nil, fmt.Errorf("migrate request ledger: %w", err)
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect request ledger: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping request ledger: %w", err)
	}
	return &PostgresRequests{pool: pool}, nil
}

func migrate(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

func (p *PostgresRequests) Close() {
	p.pool.Close()
}

// Ping reports whether the pool can reach the database.
func (p *PostgresRequests) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresRequests) Put(ctx context.Context, req Request) error {
	items, err := json.Marshal(req.Items)
	if err != nil {
		return fmt.Errorf("encode request items: %w", err)
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO requests (id, citizen_id, items, status, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status`,
		req.ID, req.CitizenID, items, req.Status, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("put request %s: %w", req.ID, err)
	}
	return nil
}

func (p *PostgresRequests) Get(ctx context.Context, id string) (Request, bool, error) {
	var (
		req      Request
		rawItems []byte
	)
	row := p.pool.QueryRow(ctx,
		`SELECT id, citizen_id, items, status, created_at FROM requests WHERE id = $1`, id)
	err := row.Scan(&req.ID, &req.CitizenID, &rawItems, &req.Status, &req.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return Request{}, false, nil
	}
	if err != nil {
		return Request{}, false, fmt.Errorf("get request %s: %w", id, err)
	}
	if len(rawItems) > 0 {
		if err := json.Unmarshal(rawItems, &req.Items); err != nil {
			return Request{}, false, fmt.Errorf("decode request items %s: %w", id, err)
		}
	}
	return req, true, nil
}

func (p *PostgresRequests) SetStatus(ctx context.Context, id, status string) error {
	_, err := p.pool.Exec(ctx, `UPDATE requests SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set request %s status: %w", id, err)
	}
	return nil
}
