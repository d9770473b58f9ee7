package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-fin-gateway/internal/config"
	"github.com/MKhiriev/go-fin-gateway/internal/handler"
	"github.com/MKhiriev/go-fin-gateway/internal/logger"
)

type server struct {
	httpServer    *httpServer
	metricsServer *metricsServer
	logger        *logger.Logger
}

func NewServer(handlers *handler.Handlers, metrics http.Handler, cfg config.Server, telemetryCfg config.Telemetry, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := new(server)

	if cfg.HTTPAddress != "" {
		servers.httpServer = newHTTPServer(handlers.HTTP.Init(), cfg, logger)
	}
	if telemetryCfg.MetricsAddress != "" && metrics != nil {
		servers.metricsServer = newMetricsServer(metrics, telemetryCfg, logger)
	}

	if servers.httpServer == nil && servers.metricsServer == nil {
		return nil, errNoServersAreCreated
	}

	servers.logger = logger

	return servers, nil
}

func (s *server) RunServer() {
	if err := s.run(); err != nil {
		s.logger.Info().Msgf("Error running server: %v \n", err)
	}
}

func (s *server) Shutdown() {
	// finish HTTP server
	if s.httpServer != nil {
		s.httpServer.Shutdown()
	}

	// finish metrics server
	if s.metricsServer != nil {
		s.metricsServer.Shutdown()
	}
}

func (s *server) run() error {
	// check if any server was created
	if s.httpServer == nil && s.metricsServer == nil {
		return errors.New("no servers to run")
	}

	idleConnectionsClosed := make(chan struct{})
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	// listen for stop signals
	go func() {
		<-ctx.Done()

		// finish started servers
		s.Shutdown()

		close(idleConnectionsClosed)
	}()

	// launch all created servers
	if s.httpServer != nil {
		s.logger.Info().Msg("Launching HTTP server")
		go s.httpServer.RunServer()
	}
	if s.metricsServer != nil {
		s.logger.Info().Msg("Launching metrics server")
		go s.metricsServer.RunServer()
	}

	<-idleConnectionsClosed
	s.logger.Info().Msg("server Shutdown gracefully")

	return nil
}
