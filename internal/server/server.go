package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/yoniadmire/puppy-bowl/internal/app/players"
	"github.com/yoniadmire/puppy-bowl/internal/config"
	httpserver "github.com/yoniadmire/puppy-bowl/internal/http"
	"github.com/yoniadmire/puppy-bowl/internal/http/handlers"
	"github.com/yoniadmire/puppy-bowl/internal/http/middleware"
	"github.com/yoniadmire/puppy-bowl/internal/live"
	"github.com/yoniadmire/puppy-bowl/internal/logging"
	"github.com/yoniadmire/puppy-bowl/internal/metrics"
	"github.com/yoniadmire/puppy-bowl/internal/roster"
	"github.com/yoniadmire/puppy-bowl/internal/view"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	hub           *live.Hub
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New constructs a server talking to the configured roster API.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithAPI(cfg, logger, nil, nil)
}

// newServerWithAPI lets tests swap the upstream API and the recorder.
func newServerWithAPI(cfg config.Config, logger *slog.Logger, api roster.API, recorder *metrics.Recorder) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	if api == nil {
		api = roster.NewClient(roster.Config{
			BaseURL: cfg.Roster.BaseURL,
			Cohort:  cfg.Roster.Cohort,
			Timeout: cfg.Roster.Timeout,
		})
	}
	api = roster.NewInstrumented(api, logger, recorder)

	var hub *live.Hub
	var notifier players.Notifier
	if cfg.View.LiveUpdates {
		hub = live.NewHub(logger, recorder)
		notifier = hub
	}
	svc := players.NewService(api, notifier, logger)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		hub:           hub,
		httpServer:    buildHTTPServer(cfg, svc, hub, logger, recorder),
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, hub *live.Hub) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		hub:        hub,
		httpServer: httpSrv,
	}
}

func buildHTTPServer(cfg config.Config, svc *players.Service, hub *live.Hub, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	renderer := view.MustRenderer(view.Options{
		HTMXSrc:     cfg.View.HTMXSrc,
		LiveUpdates: hub != nil,
	})
	handler := handlers.NewHandler(svc, renderer, logger)

	var events http.Handler
	if hub != nil {
		events = hub
	}
	router := httpserver.NewRouter(handler, events)
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout: readTimeout,
		IdleTimeout: idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the HTTP servers, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	// Hijacked websocket connections are not tracked by http.Server.Shutdown.
	if s.hub != nil {
		s.hub.Close()
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "error", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
