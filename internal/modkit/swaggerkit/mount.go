// Package swaggerkit mounts Swagger UI and the OpenAPI document
package swaggerkit

import (
	"encoding/json"
	"net/http"

	"membersearch/internal/core/version"
	phttp "membersearch/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag/v2"
)

// InstanceName is the swag registry key generated docs register under
const InstanceName = "api"

// Routes lists the GET endpoints described by the fallback document
// used when no generated docs were linked into the binary
var Routes = []string{
	"/api/v1/meta/health",
	"/api/v1/meta/ready",
	"/api/v1/meta/version",
	"/api/v1/meta/schema",
	"/api/v1/members",
	"/api/v1/members/v1",
	"/api/v1/members/v1/builder",
	"/api/v1/members/teams",
	"/api/v1/members/name-matches",
	"/api/v1/members/by-username/{username}",
}

// Mount serves the UI at /api/docs/ and the document at /api/docs/doc.json
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(Doc()))
	})
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName(InstanceName),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}

// Doc returns the generated document when one is registered,
// otherwise a path only OpenAPI skeleton
func Doc() string {
	if doc, err := swag.ReadDoc(InstanceName); err == nil && doc != "" {
		return doc
	}
	return skeleton()
}

func skeleton() string {
	type op struct {
		Responses map[string]any `json:"responses"`
	}
	paths := make(map[string]map[string]op, len(Routes))
	for _, p := range Routes {
		paths[p] = map[string]op{"get": {Responses: map[string]any{"200": map[string]string{"description": "envelope"}}}}
	}
	b, _ := json.Marshal(map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]string{"title": "Member Search API", "version": version.Info().Version},
		"paths":   paths,
	})
	return string(b)
}
