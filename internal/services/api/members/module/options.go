package module

import (
	"membersearch/internal/platform/config"
	membersdom "membersearch/internal/services/api/members/domain"
)

// Options controls paging limits and the count mode
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	ConcurrentCount bool
}

// FromConfig reads with MEMBERS_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("MEMBERS_")
	return Options{
		DefaultPageSize: c.MayIntAtLeast("DEFAULT_PAGE_SIZE", membersdom.DefaultLimits.DefaultSize, 1),
		MaxPageSize:     c.MayIntAtLeast("MAX_PAGE_SIZE", membersdom.DefaultLimits.MaxSize, 1),
		ConcurrentCount: c.MayBool("CONCURRENT_COUNT", false),
	}
}

func (o Options) limits() membersdom.Limits {
	return membersdom.Limits{DefaultSize: o.DefaultPageSize, MaxSize: o.MaxPageSize}
}
