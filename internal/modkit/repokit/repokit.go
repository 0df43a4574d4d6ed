// Package repokit binds repositories to a pool or a transaction
package repokit

import (
	"context"

	"membersearch/internal/platform/store"
)

type (
	// Queryer is what a bound repo issues statements against
	Queryer = store.RowQuerier

	// TxRunner opens transactions over a pool
	TxRunner = store.TxRunner
)

// Binder yields a repo bound to q, which is the pool or an open transaction
type Binder[T any] interface {
	Bind(q Queryer) T
}

// BindFunc adapts a plain constructor to Binder
type BindFunc[T any] func(Queryer) T

// Bind calls f
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// WithTx runs fn with repo bound inside one transaction
func WithTx[T any](ctx context.Context, tx TxRunner, b Binder[T], fn func(repo T) error) error {
	return tx.Tx(ctx, func(q Queryer) error { return fn(b.Bind(q)) })
}
