package paging

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ContentFunc fetches at most r.Limit rows starting at r.Offset
// it must issue exactly one read and never count
type ContentFunc[T any] func(ctx context.Context, r Request) ([]T, error)

// CountFunc counts every row the content filter matches
type CountFunc func(ctx context.Context) (int64, error)

// Outcome says what happened to the count query
type Outcome int

const (
	// CountRan means the count query ran and its result is the total
	CountRan Outcome = iota
	// CountSkipped means the page was short and the total was inferred
	CountSkipped
	// CountDiscarded means a concurrent count was cancelled or its result dropped
	CountDiscarded
)

func (o Outcome) String() string {
	switch o {
	case CountSkipped:
		return "skipped"
	case CountDiscarded:
		return "discarded"
	default:
		return "ran"
	}
}

// Observer is told the count outcome of every successful Paginate call
type Observer func(ctx context.Context, o Outcome, r Request, n int)

type options struct {
	concurrent bool
	observe    Observer
}

// Option tunes Paginate
type Option func(*options)

// WithConcurrentCount starts the count alongside the content read
// content and count must then not share a single session
func WithConcurrentCount(on bool) Option {
	return func(o *options) { o.concurrent = on }
}

// WithObserver installs an outcome hook
func WithObserver(fn Observer) Option {
	return func(o *options) { o.observe = fn }
}

// NeedsCount reports whether a page holding n rows out of limit requires a
// count query, a short or empty page proves nothing lies beyond it
func NeedsCount(n, limit int) bool {
	return n > 0 && n >= limit
}

// InferredTotal is the total implied by a short page
func InferredTotal(offset int64, n int) int64 {
	return offset + int64(n)
}

// Paginate runs content, then count when NeedsCount says so
// errors from either call are returned unchanged and never produce a page
func Paginate[T any](ctx context.Context, r Request, content ContentFunc[T], count CountFunc, opts ...Option) (Page[T], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := r.Validate(); err != nil {
		return Page[T]{}, err
	}

	var (
		page    Page[T]
		outcome Outcome
		err     error
	)
	if o.concurrent {
		page, outcome, err = paginateConcurrent(ctx, r, content, count)
	} else {
		page, outcome, err = paginateSequential(ctx, r, content, count)
	}
	if err != nil {
		return Page[T]{}, err
	}
	if o.observe != nil {
		o.observe(ctx, outcome, r, len(page.Content))
	}
	return page, nil
}

func paginateSequential[T any](ctx context.Context, r Request, content ContentFunc[T], count CountFunc) (Page[T], Outcome, error) {
	rows, err := content(ctx, r)
	if err != nil {
		return Page[T]{}, CountSkipped, err
	}
	if !NeedsCount(len(rows), r.Limit) {
		return Page[T]{Content: rows, Total: InferredTotal(r.Offset, len(rows)), Request: r}, CountSkipped, nil
	}
	total, err := count(ctx)
	if err != nil {
		return Page[T]{}, CountRan, err
	}
	return Page[T]{Content: rows, Total: total, Request: r, Counted: true}, CountRan, nil
}

func paginateConcurrent[T any](ctx context.Context, r Request, content ContentFunc[T], count CountFunc) (Page[T], Outcome, error) {
	g, gctx := errgroup.WithContext(ctx)
	countCtx, cancelCount := context.WithCancel(gctx)
	defer cancelCount()

	var (
		rows     []T
		total    int64
		countErr error
	)

	g.Go(func() error {
		got, err := content(gctx, r)
		if err != nil {
			return err
		}
		if !NeedsCount(len(got), r.Limit) {
			cancelCount()
		}
		rows = got
		return nil
	})
	g.Go(func() error {
		// never fails the group, the verdict waits for content
		total, countErr = count(countCtx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Page[T]{}, CountDiscarded, err
	}
	if !NeedsCount(len(rows), r.Limit) {
		return Page[T]{Content: rows, Total: InferredTotal(r.Offset, len(rows)), Request: r}, CountDiscarded, nil
	}
	if countErr != nil {
		return Page[T]{}, CountRan, countErr
	}
	return Page[T]{Content: rows, Total: total, Request: r, Counted: true}, CountRan, nil
}
