package middleware

import (
	"net/http"
	"runtime/debug"

	perr "membersearch/internal/platform/errors"
	"membersearch/internal/platform/logger"
	pnet "membersearch/internal/platform/net"
	phttp "membersearch/internal/platform/net/http"
)

// RecoverJSON turns a panic into the standard 500 envelope and logs the stack
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			status := http.StatusInternalServerError
			phttp.JSON(w, status, phttp.Envelope{
				StatusCode: status,
				Status:     http.StatusText(status),
				Code:       perr.ErrorCodePanic,
				Error:      "internal error",
				RequestID:  reqID,
			})
		}()
		next.ServeHTTP(w, r)
	})
}
