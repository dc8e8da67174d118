package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"qualifier/internal/api/handlers"
	"qualifier/internal/api/middleware"
	"qualifier/internal/platform/auth"
	"qualifier/internal/platform/config"
)

// Stub is a local stand-in for the hiring service.
type Stub struct {
	Handler http.Handler
	Hiring  *handlers.HiringHandler
}

// NewStub wires the stub API. publicURL overrides the host advertised in
// generated webhook URLs; leave it empty to use the request host.
func NewStub(cfg config.StubConfig, logger zerolog.Logger) *Stub {
	tokenSvc := auth.NewTokenService(cfg)
	hiringHandler := handlers.NewHiringHandler(tokenSvc, cfg.PublicURL)

	router := NewRouter(&Dependencies{
		HiringHandler:  hiringHandler,
		HealthHandler:  handlers.NewHealthHandler(hiringHandler),
		AuthMiddleware: middleware.NewAuthMiddleware(tokenSvc),
		RateLimiter:    middleware.NewRateLimiter(cfg.GeneratePerMinute),
	})

	return &Stub{
		Handler: middleware.Logger(&logger)(router),
		Hiring:  hiringHandler,
	}
}

// ListenAndServe serves the stub until ctx is cancelled.
func (s *Stub) ListenAndServe(ctx context.Context, cfg config.StubConfig) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zerolog.Ctx(ctx).Info().Msgf("stub hiring API listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
