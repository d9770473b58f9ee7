package service

import (
	"context"

	"github.com/MKhiriev/go-fin-gateway/internal/config"
	"github.com/MKhiriev/go-fin-gateway/internal/logger"
)

type appInfoService struct {
	appVersion  string
	environment string

	logger *logger.Logger
}

func NewAppInfoService(appCfg config.App, providerCfg config.Provider, logger *logger.Logger) (AppInfoService, error) {
	if appCfg.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		appVersion:  appCfg.Version,
		environment: providerCfg.Environment,
		logger:      logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.appVersion
}

// GetEnvironment reports the provider environment label the gateway talks
// to (sandbox, development, production). Surfaced by the health endpoint so
// clients can tell which data plane they are looking at.
func (s *appInfoService) GetEnvironment(ctx context.Context) string {
	return s.environment
}
