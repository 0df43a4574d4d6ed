package domain

import (
	"strings"

	"membersearch/internal/core/paging"
	perr "membersearch/internal/platform/errors"
)

// Limits bounds page sizes taken from requests
type Limits struct {
	DefaultSize int
	MaxSize     int
}

// DefaultLimits is used when config leaves sizes unset
var DefaultLimits = Limits{DefaultSize: 20, MaxSize: 2000}

// Normalize fills unset sizes from DefaultLimits and caps the default at the max
func (l Limits) Normalize() Limits {
	if l.DefaultSize < 1 {
		l.DefaultSize = DefaultLimits.DefaultSize
	}
	if l.MaxSize < 1 {
		l.MaxSize = DefaultLimits.MaxSize
	}
	l.DefaultSize = min(l.DefaultSize, l.MaxSize)
	return l
}

// PageRequest turns raw paging input into a request
// offset and limit win over page and size, sizes above the max are clamped
func PageRequest(in PageInput, lim Limits) (paging.Request, error) {
	lim = lim.Normalize()
	sort, err := ParseSort(in.Sort)
	if err != nil {
		return paging.Request{}, err
	}

	if in.Offset != nil || in.Limit != nil {
		var offset int64
		if in.Offset != nil {
			offset = *in.Offset
		}
		limit := lim.DefaultSize
		if in.Limit != nil {
			limit = min(*in.Limit, lim.MaxSize)
		}
		return paging.NewRequest(offset, limit, sort)
	}

	page, size := 0, lim.DefaultSize
	if in.Page != nil {
		page = *in.Page
	}
	if in.Size != nil {
		size = min(*in.Size, lim.MaxSize)
	}
	return paging.OfPage(page, size, sort)
}

// ParseSort reads "property" or "property,direction" entries in order
func ParseSort(raw []string) (paging.Sort, error) {
	var out paging.Sort
	for _, s := range raw {
		prop, dir, _ := strings.Cut(s, ",")
		prop = strings.TrimSpace(prop)
		if prop == "" {
			return nil, perr.Validationf("sort", "sort property is required in %q", s)
		}
		d, err := paging.ParseDirection(dir)
		if err != nil {
			return nil, err
		}
		out = append(out, paging.Order{Property: prop, Direction: d})
	}
	return out, nil
}
