package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (neither a PostgreSQL DSN nor a SQLite path is configured).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidProviderConfigs indicates invalid provider settings
	// (for example, missing base URL, client id or secret).
	ErrInvalidProviderConfigs = errors.New("invalid provider configuration")
	// ErrInvalidServerConfigs indicates invalid HTTP server settings
	// (for example, empty listen address or non-positive request timeout).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidAggregationConfigs indicates invalid aggregation settings
	// (for example, zero concurrency or an out-of-range page size).
	ErrInvalidAggregationConfigs = errors.New("invalid aggregation configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, a negative sweep interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
