// Package server is the webhook transport: chat platform events, game log
// lines and droplet boot callbacks come in over HTTP here.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

// Server owns the HTTP listener.
type Server struct {
	http   *http.Server
	logger zerolog.Logger
}

// New returns a server for addr serving the API's routes.
func New(addr string, api *API, logger zerolog.Logger) *Server {
	s := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(api, logger),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{http: s, logger: logger}
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(api *API, logger zerolog.Logger) *gin.Engine {
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestID())
	router.Use(requestLogger(logger))
	router.Use(gin.CustomRecovery(recoverWithLog(logger)))
	api.RegisterRoutes(router)
	return router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("listening")
		errc <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	s.logger.Info().Msg("shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
