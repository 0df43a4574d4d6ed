// Package paging holds page requests, sorts, page results and the
// pagination policy that decides when a total count query is worth running
package paging

import (
	"fmt"
	"math"
	"strings"

	perr "membersearch/internal/platform/errors"
)

// Direction is a sort direction
type Direction int

const (
	// Asc sorts ascending
	Asc Direction = iota
	// Desc sorts descending
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// ParseDirection accepts asc or desc in any case, blank is Asc
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return Asc, perr.Validationf("sort", "invalid sort direction %q", s)
	}
}

// Order is one sort key
type Order struct {
	Property  string    `json:"property"`
	Direction Direction `json:"-"`
}

// Sort is an ordered list of keys, earlier keys win and later ones break ties
type Sort []Order

// By builds a sort from the given keys
func By(orders ...Order) Sort { return Sort(orders) }

// Unsorted reports whether no key is set
func (s Sort) Unsorted() bool { return len(s) == 0 }

// String renders "username: ASC, age: DESC" or "UNSORTED"
func (s Sort) String() string {
	if s.Unsorted() {
		return "UNSORTED"
	}
	parts := make([]string, len(s))
	for i, o := range s {
		parts[i] = o.Property + ": " + o.Direction.String()
	}
	return strings.Join(parts, ", ")
}

// Request is an immutable offset window with an optional sort
type Request struct {
	Offset int64
	Limit  int
	Sort   Sort
}

// NewRequest validates and builds a Request
func NewRequest(offset int64, limit int, sort Sort) (Request, error) {
	r := Request{Offset: offset, Limit: limit, Sort: sort}
	if err := r.Validate(); err != nil {
		return Request{}, err
	}
	return r, nil
}

// OfPage builds a Request from a zero based page number and page size
func OfPage(page, size int, sort Sort) (Request, error) {
	if page < 0 {
		return Request{}, perr.Validationf("page", "page must be >= 0, got %d", page)
	}
	if size < 1 {
		return Request{}, perr.Validationf("size", "size must be >= 1, got %d", size)
	}
	if int64(page) > math.MaxInt64/int64(size) {
		return Request{}, perr.Validationf("page", "page %d is out of range for size %d", page, size)
	}
	return NewRequest(int64(page)*int64(size), size, sort)
}

// Validate enforces offset >= 0 and limit >= 1
func (r Request) Validate() error {
	if r.Offset < 0 {
		return perr.Validationf("offset", "offset must be >= 0, got %d", r.Offset)
	}
	if r.Limit < 1 {
		return perr.Validationf("limit", "limit must be >= 1, got %d", r.Limit)
	}
	return nil
}

// PageNumber is the zero based page the offset falls on
func (r Request) PageNumber() int64 { return r.Offset / int64(r.Limit) }

func (r Request) String() string {
	return fmt.Sprintf("offset=%d limit=%d sort=%s", r.Offset, r.Limit, r.Sort)
}
