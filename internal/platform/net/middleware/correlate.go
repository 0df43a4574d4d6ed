package middleware

import (
	"net/http"

	"membersearch/internal/platform/logger"
	pnet "membersearch/internal/platform/net"
	"membersearch/internal/platform/store"
)

// Correlate copies the chi request id into the logger and store contexts
// so log lines and traced SQL carry the same id. Run it after RequestID
func Correlate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := pnet.RequestID(r.Context())
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("X-Request-ID", id)
		ctx := logger.WithRequest(r.Context(), id, r.Method+" "+r.URL.Path)
		ctx = store.WithRequestID(ctx, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
