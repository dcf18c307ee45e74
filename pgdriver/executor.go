package pgdriver

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tinywasm/bitorm"
)

// querier is the subset shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type base struct {
	ctx context.Context
	q   querier
}

func (b base) Exec(query string, args ...any) error {
	_, err := b.q.Exec(b.ctx, query, args...)
	return err
}

func (b base) QueryRow(query string, args ...any) bitorm.Scanner {
	return row{b.q.QueryRow(b.ctx, query, args...)}
}

func (b base) Query(query string, args ...any) (bitorm.Rows, error) {
	r, err := b.q.Query(b.ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows{r}, nil
}

// Executor runs bitorm plans on a pgx pool. All statements use the context
// given to NewExecutor.
type Executor struct {
	base
	pool *pgxpool.Pool
}

var (
	_ bitorm.TxExecutor      = (*Executor)(nil)
	_ bitorm.TxBoundExecutor = (*txExecutor)(nil)
)

// NewExecutor wraps pool. Closing the Executor closes the pool.
func NewExecutor(ctx context.Context, pool *pgxpool.Pool) *Executor {
	return &Executor{base: base{ctx: ctx, q: pool}, pool: pool}
}

// Close implements bitorm.Executor.
func (e *Executor) Close() error {
	e.pool.Close()
	return nil
}

// BeginTx implements bitorm.TxExecutor.
func (e *Executor) BeginTx() (bitorm.TxBoundExecutor, error) {
	tx, err := e.pool.Begin(e.ctx)
	if err != nil {
		return nil, err
	}
	return &txExecutor{base: base{ctx: e.ctx, q: tx}, tx: tx}, nil
}

type txExecutor struct {
	base
	tx pgx.Tx
}

func (t *txExecutor) Close() error    { return nil }
func (t *txExecutor) Commit() error   { return t.tx.Commit(t.ctx) }
func (t *txExecutor) Rollback() error { return t.tx.Rollback(t.ctx) }

type row struct {
	r pgx.Row
}

func (r row) Scan(dest ...any) error {
	err := r.r.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return bitorm.ErrNotFound
	}
	return err
}

type rows struct {
	pgx.Rows
}

func (r rows) Close() error {
	r.Rows.Close()
	return nil
}
