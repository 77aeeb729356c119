package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGXGateway runs catalog queries on a pgx connection pool.
type PGXGateway struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPGXGateway(db *pgxpool.Pool, timeout time.Duration) *PGXGateway {
	return &PGXGateway{db: db, timeout: timeout}
}

func (g *PGXGateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}

func (g *PGXGateway) Dialect() string { return DialectPostgres }

func (g *PGXGateway) Execute(ctx context.Context, query string, args ...any) ([]Row, error) {
	timeoutCtx, cancel := g.withTimeout(ctx)
	defer cancel()

	rows, err := g.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, upstreamErr("query", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}

	var out []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, upstreamErr("scan", err)
		}
		out = append(out, newRow(names, values))
	}
	if err := rows.Err(); err != nil {
		return nil, upstreamErr("rows", err)
	}
	return out, nil
}
