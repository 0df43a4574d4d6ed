// Package httpkit is the routing surface modules mount against
// modules use it instead of importing the platform http package directly
package httpkit

import (
	"net/http"
	"strings"

	phttp "membersearch/internal/platform/net/http"
)

type (
	// Router is the platform router seam
	Router = phttp.Router

	// Envelope is the JSON body every endpoint answers with
	Envelope = phttp.Envelope
)

// Get mounts a handler without input under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.Call(h))
}

// GetQuery mounts a GET handler whose input is bound from query params
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Get(path, phttp.QueryHandler(h))
}

// Param returns a named path param
func Param(r *http.Request, name string) string { return phttp.PathParam(r, name) }

// MountUnder mounts a subrouter at prefix with its own middleware
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}

// MountAPI mounts under /api/{version}
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountUnder(r, "/api/"+strings.Trim(version, "/"), mw, mount)
}

// MountAPIV1 mounts under /api/v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}
