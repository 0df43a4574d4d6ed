package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"membersearch/internal/platform/config"
	"membersearch/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server serves a chi mux until its context ends
type Server struct {
	mux   *chi.Mux
	srv   *stdhttp.Server
	grace time.Duration
}

// NewServer reads PORT (default :4000) and SHUTDOWN_GRACE (default 10s) from cfg
func NewServer(cfg config.Conf) *Server {
	m := chi.NewRouter()
	return &Server{
		mux:   m,
		grace: cfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second),
		srv: &stdhttp.Server{
			Addr:              cfg.MayString("PORT", ":4000"),
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router returns the Router over the root mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr returns the listen address
func (s *Server) Addr() string { return s.srv.Addr }

// Run listens until ctx is done, then drains in flight requests
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.srv.Addr).Msg("http listening")
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("grace", s.grace).Msg("http shutting down")
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.grace)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}
