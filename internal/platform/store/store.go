// Package store holds the postgres seam repositories run against
package store

import (
	"context"
	"errors"
	"fmt"

	"membersearch/internal/platform/logger"
	"membersearch/internal/platform/store/pg"
)

// Store owns the opened backends, the zero value has none
type Store struct {
	// Log is handed to the sql tracer, zero value discards
	Log logger.Logger

	// PG is nil unless Config.PG.Enabled
	PG TxRunner

	tracers []pg.QueryTracer
}

// Row is one scannable result row
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates a result set, Columns names the fields in order
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what a statement did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier issues statements, either on the pool or inside a transaction
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner is a RowQuerier that can also scope fn to one transaction
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Pinger reports whether a backend answers
type Pinger interface{ Ping(context.Context) error }

// Open applies opts then opens each enabled backend
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	if cfg.PG.Enabled {
		r, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.PG = r
	}
	return s, nil
}

// Guard pings every backend that supports it
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	if p, ok := s.PG.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
	}
	return nil
}

// Close releases every backend, safe on a zero Store
func (s *Store) Close(context.Context) error {
	if c, ok := s.PG.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
