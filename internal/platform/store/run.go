package store

import "context"

// SnapshotRunner is implemented by backends that can open a read only
// transaction pinned to a single snapshot
type SnapshotRunner interface {
	ReadTx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Snapshot calls fn inside a read only snapshot when tx supports one and
// falls back to a plain transaction otherwise
// the session is released on every exit path, rollback on error
func Snapshot(ctx context.Context, tx TxRunner, fn func(ctx context.Context, q RowQuerier) error) error {
	run := func(q RowQuerier) error { return fn(ctx, q) }
	if s, ok := tx.(SnapshotRunner); ok {
		return s.ReadTx(ctx, run)
	}
	return tx.Tx(ctx, run)
}
