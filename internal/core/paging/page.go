package paging

// Page is one slice of a result set with its total count
// Counted is false when Total was inferred from a short page
type Page[T any] struct {
	Content []T
	Total   int64
	Request Request
	Counted bool
}

// Number is the zero based page number
func (p Page[T]) Number() int64 { return p.Request.PageNumber() }

// Size is the requested page size
func (p Page[T]) Size() int { return p.Request.Limit }

// TotalPages is ceil(Total / Size)
func (p Page[T]) TotalPages() int64 {
	if p.Request.Limit < 1 {
		return 0
	}
	size := int64(p.Request.Limit)
	return (p.Total + size - 1) / size
}

// HasNext reports whether rows exist past this page
func (p Page[T]) HasNext() bool {
	return p.Request.Offset+int64(len(p.Content)) < p.Total
}

// Map converts the content keeping the page metadata
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Content))
	for i, v := range p.Content {
		out[i] = fn(v)
	}
	return Page[U]{Content: out, Total: p.Total, Request: p.Request, Counted: p.Counted}
}
