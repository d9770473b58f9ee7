package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations. It exists so a config file can spell durations
// as "30s" instead of nanosecond integers.
type StructuredJSONConfig struct {
	App struct {
		Version string `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		SQLite struct {
			Path string `json:"path"`
		} `json:"sqlite,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Provider struct {
		BaseURL        string   `json:"base_url"`
		Environment    string   `json:"environment"`
		ClientID       string   `json:"client_id"`
		Secret         string   `json:"secret"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"provider,omitempty"`

	Aggregation struct {
		MaxConcurrency       int      `json:"max_concurrency"`
		TransactionsPageSize int      `json:"transactions_page_size"`
		DefaultStartDate     string   `json:"default_start_date"`
		RetryAttempts        int      `json:"retry_attempts"`
		RetryBaseDelay       Duration `json:"retry_base_delay"`
	} `json:"aggregation,omitempty"`

	Workers struct {
		SweepInterval Duration `json:"sweep_interval"`
	} `json:"workers,omitempty"`

	Telemetry struct {
		MetricsAddress string `json:"metrics_address"`
	} `json:"telemetry,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version: jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			SQLite: SQLite{
				Path: jsonCfg.Storage.SQLite.Path,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Provider: Provider{
			BaseURL:        jsonCfg.Provider.BaseURL,
			Environment:    jsonCfg.Provider.Environment,
			ClientID:       jsonCfg.Provider.ClientID,
			Secret:         jsonCfg.Provider.Secret,
			RequestTimeout: time.Duration(jsonCfg.Provider.RequestTimeout),
		},
		Aggregation: Aggregation{
			MaxConcurrency:       jsonCfg.Aggregation.MaxConcurrency,
			TransactionsPageSize: jsonCfg.Aggregation.TransactionsPageSize,
			DefaultStartDate:     jsonCfg.Aggregation.DefaultStartDate,
			RetryAttempts:        jsonCfg.Aggregation.RetryAttempts,
			RetryBaseDelay:       time.Duration(jsonCfg.Aggregation.RetryBaseDelay),
		},
		Workers: Workers{
			SweepInterval: time.Duration(jsonCfg.Workers.SweepInterval),
		},
		Telemetry: Telemetry{
			MetricsAddress: jsonCfg.Telemetry.MetricsAddress,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
