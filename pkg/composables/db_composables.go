package composables

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/amas-erp/supplier-portal/pkg/constants"
	"github.com/amas-erp/supplier-portal/pkg/repo"
)

var (
	ErrNoTx   = errors.New("no transaction found in context")
	ErrNoPool = errors.New("no database pool found in context")
)

func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, constants.TxKey, tx)
}

func UseTx(ctx context.Context) (repo.Tx, error) {
	tx := ctx.Value(constants.TxKey)
	if tx == nil {
		pool, err := UsePool(ctx)
		if err != nil {
			return nil, err
		}
		return pool, nil
	}
	return tx.(repo.Tx), nil
}

func InTxScope(ctx context.Context) bool {
	tx, ok := ctx.Value(constants.TxKey).(pgx.Tx)
	return ok && tx != nil
}

func WithPool(ctx context.Context, pool *pgxpool.Pool) context.Context {
	return context.WithValue(ctx, constants.PoolKey, pool)
}

func UsePool(ctx context.Context) (*pgxpool.Pool, error) {
	pool := ctx.Value(constants.PoolKey)
	if pool == nil {
		return nil, ErrNoPool
	}
	return pool.(*pgxpool.Pool), nil
}

// InTx runs the given function in a transaction. Joins the transaction
// already present in ctx instead of opening a nested one.
func InTx(ctx context.Context, fn func(context.Context) error) error {
	if InTxScope(ctx) {
		return fn(ctx)
	}
	pool, err := UsePool(ctx)
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}

	txCtx := WithTx(ctx, tx)
	if err := fn(txCtx); err != nil {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			return errors.Join(err, rErr)
		}
		return err
	}
	return tx.Commit(ctx)
}

func InTxResult[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := InTx(ctx, func(txCtx context.Context) error {
		var innerErr error
		out, innerErr = fn(txCtx)
		return innerErr
	})
	return out, err
}

// Retry runs fn and, when it fails on a severed connection, resets the pool
// and runs it exactly once more. Inside a transaction fn runs once: the
// enclosing unit of work owns the retry.
func Retry(ctx context.Context, op string, fn func(context.Context) error) error {
	if InTxScope(ctx) {
		return fn(ctx)
	}
	err := fn(ctx)
	if !repo.IsTransient(err) {
		return err
	}

	logger := TryUseLogger(ctx).WithField("op", op)
	logger.WithError(err).Warn("store connection lost, reconnecting and retrying once")
	if pool, pErr := UsePool(ctx); pErr == nil {
		pool.Reset()
	}

	err = fn(ctx)
	if err == nil {
		return nil
	}
	if repo.IsTransient(err) {
		logger.WithError(err).Error("store still unavailable after reconnect")
		return &repo.TransientStoreError{Op: op, Cause: err}
	}
	return err
}

func TryUseLogger(ctx context.Context) *logrus.Entry {
	if logger, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry); ok && logger != nil {
		return logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
