// Package server exposes the dashboard over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/NatashaRy/house-price-predictor/internal/config"
	"github.com/NatashaRy/house-price-predictor/internal/dashboard"
)

// Server serves the dashboard API.
type Server struct {
	svc      *dashboard.Service
	logger   *zap.Logger
	validate *bodyValidator

	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	compress        bool
}

// New wires the dashboard service to the HTTP API. A nil logger is replaced
// by a no-op one.
func New(svc *dashboard.Service, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	v, err := newBodyValidator(svc)
	if err != nil {
		return nil, err
	}
	return &Server{
		svc:             svc,
		logger:          logger,
		validate:        v,
		addr:            cfg.Server.Addr,
		readTimeout:     cfg.GetReadTimeout(),
		writeTimeout:    cfg.GetWriteTimeout(),
		shutdownTimeout: cfg.GetShutdownTimeout(),
		compress:        cfg.Server.Compression,
	}, nil
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.routes()
	if s.compress {
		h = compress(h)
	}
	return requestID(s.logRequests(h))
}

// ListenAndServe serves on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		ErrorLog:     zap.NewStdLog(s.logger),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
