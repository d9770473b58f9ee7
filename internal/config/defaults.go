package config

import "time"

// Built-in fallback values applied when no other source sets a field.
const (
	DefaultHTTPAddress    = ":8080"
	DefaultMetricsAddress = ":9090"

	DefaultRequestTimeout         = 60 * time.Second
	DefaultProviderRequestTimeout = 15 * time.Second
	DefaultProviderEnvironment    = "sandbox"

	DefaultMaxConcurrency       = 4
	DefaultTransactionsPageSize = 100

	// DefaultStartDate bounds transaction queries when the caller gives no
	// start date. Far enough back to cover every provider's history window.
	DefaultStartDate = "2021-01-01"

	DefaultRetryAttempts  = 3
	DefaultRetryBaseDelay = 250 * time.Millisecond

	DefaultSweepInterval = time.Hour
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Server: Server{
			HTTPAddress:    DefaultHTTPAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Provider: Provider{
			Environment:    DefaultProviderEnvironment,
			RequestTimeout: DefaultProviderRequestTimeout,
		},
		Aggregation: Aggregation{
			MaxConcurrency:       DefaultMaxConcurrency,
			TransactionsPageSize: DefaultTransactionsPageSize,
			DefaultStartDate:     DefaultStartDate,
			RetryAttempts:        DefaultRetryAttempts,
			RetryBaseDelay:       DefaultRetryBaseDelay,
		},
		Workers: Workers{
			SweepInterval: DefaultSweepInterval,
		},
		Telemetry: Telemetry{
			MetricsAddress: DefaultMetricsAddress,
		},
	}
}
