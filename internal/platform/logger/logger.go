// Package logger owns the process root zerolog logger and the request
// scoped children built from context
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"membersearch/internal/core/version"
	"membersearch/internal/platform/config/raw"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is zerolog's logger, aliased so call sites import one package
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level      string // zerolog level name, unknown names mean debug
	Format     string // console or json
	Service    string
	Component  string
	Writer     io.Writer // os.Stdout when nil
	WithCaller bool
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE, LOG_COMPONENT and LOG_CALLER
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	return Options{
		Level:      env.Get("LEVEL", "debug"),
		Format:     strings.ToLower(env.Get("FORMAT", "console")),
		Service:    env.Get("SERVICE", ""),
		Component:  env.Get("COMPONENT", ""),
		WithCaller: env.GetBool("CALLER", false),
	}
}

var (
	once sync.Once
	root atomic.Pointer[Logger]
)

// Get returns the root logger, initialising it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Init builds the root logger, only the first call has any effect
func Init(opt Options) {
	once.Do(func() { root.Store(build(opt)) })
}

func build(opt Options) *Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: !isTerminal(w)}
	}

	ctx := zerolog.New(w).Level(parseLevel(opt.Level)).With().
		Timestamp().
		Str("version", version.Info().Version)
	if opt.Service != "" {
		ctx = ctx.Str("service", opt.Service)
	}
	if opt.Component != "" {
		ctx = ctx.Str("component", opt.Component)
	}
	if opt.WithCaller {
		ctx = ctx.Caller()
	}
	l := ctx.Logger()
	return &l
}

// isTerminal is false for buffers, pipes and files so they get plain text
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.DebugLevel
	}
	return lvl
}

type ctxKey uint8

const (
	keyRequestID ctxKey = iota
	keyOp
)

// WithRequest stores the request id and the operation name, e.g. the
// search shape, for C to pick up. Empty values are skipped
func WithRequest(ctx context.Context, reqID, op string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, keyRequestID, reqID)
	}
	if op != "" {
		ctx = context.WithValue(ctx, keyOp, op)
	}
	return ctx
}

// C returns the root logger with request_id and op from ctx
func C(ctx context.Context) *Logger {
	b := Get().With()
	if s, _ := ctx.Value(keyRequestID).(string); s != "" {
		b = b.Str("request_id", s)
	}
	if s, _ := ctx.Value(keyOp).(string); s != "" {
		b = b.Str("op", s)
	}
	l := b.Logger()
	return &l
}

// Named returns the root logger tagged with component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
