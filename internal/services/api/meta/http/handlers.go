// Package http serves liveness, readiness and build metadata
package http

import (
	"context"
	"net/http"
	"time"

	"membersearch/internal/core/version"
	"membersearch/internal/modkit/httpkit"
	"membersearch/internal/platform/store"
	"membersearch/internal/platform/store/migrate"
)

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	// PG is nil when postgres is disabled
	PG store.RowQuerier
	// ReadyTimeout bounds the readiness checks, 2s when zero
	ReadyTimeout time.Duration
}

// check states
const (
	stateOK      = "ok"
	stateFail    = "fail"
	stateSkipped = "skipped"
	statePending = "pending"
)

type handlers struct{ Deps }

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	h := handlers{d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/schema", h.schema)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok" example:"true"`
	Service string `json:"service" example:"membersearch-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime" example:"300"`
}

// ReadyCheck is one dependency probe
type ReadyCheck struct {
	Name   string `json:"name" example:"pg"`
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
}

// ReadyResponse is ok when every check is ok, fail when any failed and
// degraded otherwise
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
}

// SchemaResponse reports the applied migration and build info
type SchemaResponse struct {
	Schema migrate.Status    `json:"schema"`
	Build  version.BuildInfo `json:"build"`
}

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.ServiceName,
		Started: h.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(time.Since(h.StartedAt) / time.Second),
	}, nil
}

// @Summary Readiness with postgres and schema checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /meta/ready [get]
func (h handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.ReadyTimeout)
	defer cancel()

	checks := []ReadyCheck{h.pingCheck(ctx), h.schemaCheck(ctx)}
	status := stateOK
	for _, c := range checks {
		switch {
		case c.Status == stateFail:
			status = stateFail
		case c.Status != stateOK && status == stateOK:
			status = "degraded"
		}
	}
	return ReadyResponse{Status: status, Checks: checks}, nil
}

func (h handlers) pingCheck(ctx context.Context) ReadyCheck {
	c := ReadyCheck{Name: "pg", Status: stateSkipped}
	p, ok := h.PG.(store.Pinger)
	if !ok {
		return c
	}
	if err := p.Ping(ctx); err != nil {
		c.Status, c.Error = stateFail, err.Error()
		return c
	}
	c.Status = stateOK
	return c
}

func (h handlers) schemaCheck(ctx context.Context) ReadyCheck {
	c := ReadyCheck{Name: "schema", Status: stateSkipped}
	if h.PG == nil {
		return c
	}
	st, err := migrate.Current(ctx, h.PG)
	switch {
	case err != nil:
		c.Status, c.Error = stateFail, err.Error()
	case st.Dirty:
		c.Status, c.Error = stateFail, "last migration left the schema dirty"
	case !st.Applied:
		c.Status = statePending
	default:
		c.Status = stateOK
	}
	return c
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// @Summary Applied schema migration and build
// @Tags Meta
// @Produce json
// @Success 200 {object} SchemaResponse
// @Failure 500 {object} httpkit.Envelope "schema unreadable"
// @Router /meta/schema [get]
func (h handlers) schema(r *http.Request) (any, error) {
	out := SchemaResponse{Build: version.Info()}
	if h.PG == nil {
		return out, nil
	}
	st, err := migrate.Current(r.Context(), h.PG)
	if err != nil {
		return nil, err
	}
	out.Schema = st
	return out, nil
}
