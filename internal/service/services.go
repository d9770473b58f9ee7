package service

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/MKhiriev/go-fin-gateway/internal/config"
	"github.com/MKhiriev/go-fin-gateway/internal/logger"
	"github.com/MKhiriev/go-fin-gateway/internal/provider"
	"github.com/MKhiriev/go-fin-gateway/internal/store"
)

type Services struct {
	AppInfoService     AppInfoService
	LinkService        LinkService
	AggregationService AggregationService
}

func NewServices(storages *store.Storages, providerAPI provider.API, cfg config.StructuredConfig, meter metric.Meter, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, cfg.Provider, logger)
	if err != nil {
		return nil, err
	}

	aggregationService, err := NewAggregationService(storages.Credentials, storages.LinkEvents, providerAPI, cfg.Aggregation, meter, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AppInfoService:     appInfoService,
		LinkService:        NewLinkService(storages.Credentials, storages.LinkEvents, providerAPI, logger),
		AggregationService: aggregationService,
	}, nil
}
