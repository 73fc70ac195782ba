// Package server exposes the screening operations over HTTP with JSON bodies.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spigell/hr-assist/internal/analysis"
	"github.com/spigell/hr-assist/internal/failover"
	"go.uber.org/zap"
)

// Service is the set of operations served over HTTP.
type Service interface {
	ResumeFit(ctx context.Context, req analysis.ResumeFitRequest) analysis.ResumeFitResult
	CultureFit(ctx context.Context, req analysis.CultureFitRequest) analysis.CultureFitResult
	TalentSearch(ctx context.Context, req analysis.TalentSearchRequest) analysis.TalentSearchResult
	FailoverStatus() failover.Status
	ResetFailover() failover.Status
}

// HTTPRecorder records served requests.
type HTTPRecorder interface {
	RecordHTTPRequest(route, method string, status int, elapsed time.Duration)
}

type Config struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read-timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout" validate:"gte=0"`
	MaxBodyBytes    int64         `mapstructure:"max-body-bytes" validate:"gte=0"`
}

func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    90 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxBodyBytes:    2 << 20,
	}
}

type Deps struct {
	Service Service
	Metrics HTTPRecorder
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	Logger         *zap.Logger
}

type Server struct {
	cfg      Config
	deps     Deps
	logger   *zap.Logger
	validate *validator.Validate
	handler  http.Handler
}

func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Service == nil {
		return nil, errors.New("service is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultConfig().MaxBodyBytes
	}

	s := &Server{
		cfg:      cfg,
		deps:     deps,
		logger:   deps.Logger,
		validate: newValidator(),
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", listener.Addr().String()))
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().ShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	s.logger.Info("shutting down http server", zap.Duration("timeout", timeout))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}
	return nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	s.handle(mux, "POST /api/resume/analyze", s.handleResumeFit)
	s.handle(mux, "POST /api/culture/analyze", s.handleCultureFit)
	s.handle(mux, "POST /api/talent/search", s.handleTalentSearch)
	s.handle(mux, "GET /api/failover/status", s.handleFailoverStatus)
	s.handle(mux, "POST /api/failover/reset", s.handleFailoverReset)
	s.handle(mux, "GET /healthz", s.handleHealth)
	if s.deps.MetricsHandler != nil {
		mux.Handle("GET /metrics", s.deps.MetricsHandler)
	}

	return s.requestID(mux)
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, s.instrument(pattern, h))
}
