package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Tx is the subset of pgx.Tx / *pgxpool.Pool that repositories use.
type Tx interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TransientStoreError is returned when a statement failed on a severed or
// unavailable connection twice in a row.
type TransientStoreError struct {
	Op    string
	Cause error
}

func (e *TransientStoreError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("store unavailable: %v", e.Cause)
	}
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Cause)
}

func (e *TransientStoreError) Unwrap() error { return e.Cause }
