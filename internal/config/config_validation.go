// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error from
// errors.go otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" && cfg.Storage.SQLite.Path == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Provider.BaseURL == "" || cfg.Provider.ClientID == "" || cfg.Provider.Secret == "" {
		return ErrInvalidProviderConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if err := cfg.Aggregation.validate(); err != nil {
		return err
	}

	if cfg.Workers.SweepInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (agg *Aggregation) validate() error {
	if agg.MaxConcurrency < 1 {
		return ErrInvalidAggregationConfigs
	}

	if agg.TransactionsPageSize < 1 || agg.TransactionsPageSize > 500 {
		return ErrInvalidAggregationConfigs
	}

	if _, err := time.Parse(time.DateOnly, agg.DefaultStartDate); err != nil {
		return ErrInvalidAggregationConfigs
	}

	if agg.RetryAttempts < 0 || agg.RetryBaseDelay < 0 {
		return ErrInvalidAggregationConfigs
	}

	return nil
}
