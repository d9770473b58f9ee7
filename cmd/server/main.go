package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-fin-gateway/internal/config"
	"github.com/MKhiriev/go-fin-gateway/internal/handler"
	"github.com/MKhiriev/go-fin-gateway/internal/logger"
	"github.com/MKhiriev/go-fin-gateway/internal/provider"
	"github.com/MKhiriev/go-fin-gateway/internal/server"
	"github.com/MKhiriev/go-fin-gateway/internal/service"
	"github.com/MKhiriev/go-fin-gateway/internal/store"
	"github.com/MKhiriev/go-fin-gateway/internal/telemetry"
	"github.com/MKhiriev/go-fin-gateway/internal/workers"
	"github.com/MKhiriev/go-fin-gateway/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))

	log := logger.NewLogger("go-fin-gateway")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	// секреты провайдера в лог не пишем
	log.Debug().
		Str("httpAddress", cfg.Server.HTTPAddress).
		Str("metricsAddress", cfg.Telemetry.MetricsAddress).
		Str("environment", cfg.Provider.Environment).
		Msg("received configs")

	ctx := context.Background()

	tel, err := telemetry.New(cfg.App, cfg.Provider, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing telemetry")
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			log.Err(err).Msg("error shutting down telemetry")
		}
	}()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	providerAPI := provider.NewClient(provider.Config{
		BaseURL:  cfg.Provider.BaseURL,
		ClientID: cfg.Provider.ClientID,
		Secret:   cfg.Provider.Secret,
		Timeout:  cfg.Provider.RequestTimeout,
	})
	verifier := provider.NewWebhookVerifier(providerAPI)

	services, err := service.NewServices(storages, providerAPI, *cfg, tel.Meter(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, verifier, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, tel.Handler(), cfg.Server, cfg.Telemetry, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	sweep := workers.NewSweepWorker(storages.Credentials, storages.LinkEvents, providerAPI, cfg.Workers, log)
	workers.NewWorkers(sweep).Run()

	srv.RunServer()
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", orNA(info.BuildVersion()))
	fmt.Printf("Build date: %s\n", orNA(info.BuildDate()))
	fmt.Printf("Build commit: %s\n", orNA(info.BuildCommit()))
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}

	return value
}
