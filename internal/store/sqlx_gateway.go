package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLXGateway runs catalog queries through database/sql via sqlx. It backs
// the sqlite development catalog and test fixtures.
type SQLXGateway struct {
	db      *sqlx.DB
	dialect string
	timeout time.Duration
}

func NewSQLXGateway(db *sqlx.DB, dialect string, timeout time.Duration) *SQLXGateway {
	return &SQLXGateway{db: db, dialect: dialect, timeout: timeout}
}

func (g *SQLXGateway) Dialect() string { return g.dialect }

func (g *SQLXGateway) Execute(ctx context.Context, query string, args ...any) ([]Row, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	rows, err := g.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, upstreamErr("query", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, upstreamErr("columns", err)
	}

	var out []Row
	for rows.Next() {
		m := make(map[string]any, len(cols))
		if err := rows.MapScan(m); err != nil {
			return nil, upstreamErr("scan", err)
		}
		values := make([]any, len(cols))
		for i, c := range cols {
			values[i] = m[c]
		}
		out = append(out, newRow(cols, values))
	}
	if err := rows.Err(); err != nil {
		return nil, upstreamErr("rows", err)
	}
	return out, nil
}
