package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"membersearch/internal/platform/net/middleware"
)

// CommonStack is the middleware every module mounts under
// order matters: ids first, then recovery so panics are logged with them
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.Correlate,
		middleware.AccessLog(middleware.AccessLogOptions{Slow: 500 * time.Millisecond}),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
	}
}
