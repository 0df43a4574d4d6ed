package pg

import (
	"context"
	"strings"

	"membersearch/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent is one traced round trip
type QueryEvent struct {
	RequestID string
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives an event per executed statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// QueryTracerFunc adapts a func to QueryTracer
type QueryTracerFunc func(ctx context.Context, ev QueryEvent)

// OnQuery calls f
func (f QueryTracerFunc) OnQuery(ctx context.Context, ev QueryEvent) { f(ctx, ev) }

type queryNameKey struct{}

// WithQueryName labels every statement issued with ctx
// content and count reads are tagged separately so their cost is attributed
func WithQueryName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, queryNameKey{}, name)
}

// QueryName returns the label set by WithQueryName or ""
func QueryName(ctx context.Context) string {
	s, _ := ctx.Value(queryNameKey{}).(string)
	return s
}

// Tracer logs every statement at info, slow ones at warn,
// regardless of the root level so LogSQL works on its own
func Tracer(root logger.Logger) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	elapsedMs := float64(ev.ElapsedUS) / 1000.0
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	if name := QueryName(ctx); name != "" {
		evt = evt.Str("query", name)
	}
	if ev.RequestID != "" {
		evt = evt.Str("request_id", ev.RequestID)
	}

	evt.Float64("elapsed_ms", elapsedMs).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("pg query")
}

// compact folds SQL whitespace so a statement fits one log line
func compact(s string) string { return strings.Join(strings.Fields(s), " ") }

// Tracers fans one event out to every non nil tracer
// nil when none remain
func Tracers(ts ...QueryTracer) QueryTracer {
	var out multiTracer
	for _, t := range ts {
		if t != nil {
			out = append(out, t)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	default:
		return out
	}
}

type multiTracer []QueryTracer

func (m multiTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	for _, t := range m {
		t.OnQuery(ctx, ev)
	}
}
