package store

import (
	"membersearch/internal/platform/logger"
	"membersearch/internal/platform/store/pg"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithQueryTracer adds a tracer that sees every postgres statement
// alongside the sql logger enabled by PGConfig.LogSQL
func WithQueryTracer(t pg.QueryTracer) Option {
	return func(s *Store) error {
		if t != nil {
			s.tracers = append(s.tracers, t)
		}
		return nil
	}
}
