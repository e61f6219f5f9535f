package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx operations repositories need. It is satisfied
// by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx, so the same repository code runs
// inside and outside a transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type contextKey string

const txKey contextKey = "db_tx"

// WithTx runs fn inside a database transaction. The open transaction is
// stashed in the context passed to fn, so any repository resolving its
// querier through FromContext joins it transparently. A WithTx call that
// finds a transaction already in the context joins it instead of opening a
// nested one; the outermost call owns commit and rollback.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	if TxFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// TxRunner runs a function inside a transaction scope. Services depend on
// this instead of the pool so tests can substitute a pass-through runner.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// PoolRunner returns a TxRunner backed by the pool.
func PoolRunner(pool *pgxpool.Pool) TxRunner {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return WithTx(ctx, pool, fn)
	}
}

// TxFromContext retrieves the open transaction from the context, or nil when
// the context carries none.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey).(pgx.Tx)
	return tx
}

// FromContext returns the querier a repository should use: the open
// transaction when the context carries one, otherwise the fallback (normally
// the pool).
func FromContext(ctx context.Context, fallback Querier) Querier {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return fallback
}
