// Package modkit mounts API modules onto a router
package modkit

import (
	"net/http"
	"strings"

	"membersearch/internal/modkit/httpkit"
	"membersearch/internal/platform/config"
	"membersearch/internal/platform/logger"
	"membersearch/internal/platform/store"
)

// Deps holds the shared dependencies handed to every module
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  store.TxRunner
}

// Module is a named set of routes mounted under a prefix
type Module interface {
	Name() string
	Prefix() string
	MountRoutes(r httpkit.Router)
}

// Option adjusts a Base before it is mounted
type Option func(*Base)

// WithPrefix overrides the default mount prefix
func WithPrefix(prefix string) Option {
	return func(b *Base) { b.prefix = prefix }
}

// WithMiddlewares appends per module middleware in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Base) { b.mw = append(b.mw, mw...) }
}

// WithRoutes registers extra routes after the module's own
func WithRoutes(fn func(httpkit.Router)) Option {
	return func(b *Base) { b.extra = append(b.extra, fn) }
}

// Base implements Module for a register func
type Base struct {
	name     string
	prefix   string
	mw       []func(http.Handler) http.Handler
	register func(httpkit.Router)
	extra    []func(httpkit.Router)
}

// New builds a module, panicking on a blank name or root prefix
func New(name, prefix string, register func(httpkit.Router), opts ...Option) *Base {
	b := &Base{name: strings.TrimSpace(name), prefix: prefix, register: register}
	for _, o := range opts {
		o(b)
	}
	if b.name == "" {
		panic("modkit: module name is required")
	}
	b.prefix = cleanPrefix(b.prefix)
	return b
}

// Name returns the module name
func (b *Base) Name() string { return b.name }

// Prefix returns the normalized mount prefix
func (b *Base) Prefix() string { return b.prefix }

// MountRoutes mounts the module under its prefix
func (b *Base) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, b.prefix, b.mw, func(sub httpkit.Router) {
		if b.register != nil {
			b.register(sub)
		}
		for _, fn := range b.extra {
			fn(sub)
		}
	})
}

// cleanPrefix yields a single leading slash and no trailing one
func cleanPrefix(s string) string {
	s = "/" + strings.Trim(strings.TrimSpace(s), "/")
	if s == "/" {
		panic("modkit: module prefix must not be the root")
	}
	return s
}
