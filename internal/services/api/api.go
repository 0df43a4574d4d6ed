// Package api mounts the HTTP surface of membersearch
package api

import (
	"membersearch/internal/modkit"
	"membersearch/internal/modkit/httpkit"
	"membersearch/internal/modkit/swaggerkit"
	"membersearch/internal/platform/config"
	"membersearch/internal/platform/logger"
	"membersearch/internal/platform/metrics"
	"membersearch/internal/platform/store"

	membersmod "membersearch/internal/services/api/members/module"
	metamod "membersearch/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Logger        *logger.Logger
	EnableSwagger bool
	EnableMetrics bool
}

// Modules returns the modules served under /api/v1
func Modules(opt Options) []modkit.Module {
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
	}
	return []modkit.Module{
		metamod.New(deps),
		membersmod.New(deps, membersmod.FromConfig(config.New())),
	}
}

// Mount mounts docs, metrics and every module onto r
func Mount(r httpkit.Router, opt Options) {
	swaggerkit.Mount(r, opt.EnableSwagger)
	if opt.EnableMetrics {
		r.Handle("/metrics", metrics.Handler())
	}

	mods := Modules(opt)
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(v1 httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(v1)
		}
	})
}
