// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MKhiriev/go-fin-gateway/internal/config"
	"github.com/MKhiriev/go-fin-gateway/internal/logger"
)

// metricsServer serves the Prometheus scrape endpoint on its own listener,
// away from client traffic.
type metricsServer struct {
	server *http.Server
	logger *logger.Logger
}

func newMetricsServer(metrics http.Handler, cfg config.Telemetry, logger *logger.Logger) *metricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics)

	return &metricsServer{
		server: &http.Server{
			Addr:         cfg.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (m *metricsServer) RunServer() {
	if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		m.logger.Error().Msgf("metrics server ListenAndServe: %v\n", err)
	}
}

func (m *metricsServer) Shutdown() {
	m.logger.Info().Msg("metrics server Shutdown")

	if err := m.server.Shutdown(context.Background()); err != nil {
		m.logger.Error().Msgf("metrics server Shutdown: %v\n", err)
	}
}
