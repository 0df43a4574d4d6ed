// Package module wires the meta endpoints into the API
package module

import (
	"time"

	modkit "membersearch/internal/modkit"
	"membersearch/internal/modkit/httpkit"
	metahttp "membersearch/internal/services/api/meta/http"
)

// ServiceName is reported by /meta/health
const ServiceName = "membersearch-api"

// New builds the meta module mounted at /meta
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	d := metahttp.Deps{
		ServiceName:  ServiceName,
		StartedAt:    time.Now(),
		ReadyTimeout: deps.Cfg.Prefix("META_").MayDuration("READY_TIMEOUT", 2*time.Second),
	}
	if deps.PG != nil {
		d.PG = deps.PG
	}
	return modkit.New("meta", "/meta", func(r httpkit.Router) { metahttp.Register(r, d) }, opts...)
}
