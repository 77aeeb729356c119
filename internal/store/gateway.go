// Package store is the catalog query gateway: it runs parameterized read
// queries against the catalog store and returns rows as name→value maps.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bibresolver/internal/entity"
)

// Dialect names understood by goqu.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

const timeLayout = "2006-01-02 15:04:05"

// Row maps a lower-cased column name to nil or a right-trimmed string.
type Row map[string]any

// String returns the column value, or "" for NULL and missing columns.
func (r Row) String(col string) string {
	if s, ok := r[col].(string); ok {
		return s
	}
	return ""
}

// IsNull reports whether the column is NULL or absent.
func (r Row) IsNull(col string) bool {
	return r[col] == nil
}

// Gateway executes read queries against the catalog store.
type Gateway interface {
	Execute(ctx context.Context, query string, args ...any) ([]Row, error)
	// Dialect is the goqu dialect the gateway's placeholders follow.
	Dialect() string
}

func newRow(names []string, values []any) Row {
	row := make(Row, len(names))
	for i, name := range names {
		var v any
		if i < len(values) {
			v = values[i]
		}
		row[strings.ToLower(name)] = normalizeValue(v)
	}
	return row
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return strings.TrimRight(t, " \t\r\n")
	case []byte:
		return strings.TrimRight(string(t), " \t\r\n")
	case time.Time:
		return t.Format(timeLayout)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.Format(timeLayout)
	case fmt.Stringer:
		return strings.TrimRight(t.String(), " \t\r\n")
	default:
		return fmt.Sprint(t)
	}
}

func upstreamErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", entity.ErrUpstreamUnavailable, op, err)
}
