package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-metrics-address metrics server address in format [host]:[port]
//	-d database DSN
//	-sqlite-path path of the SQLite fallback database file
//	-c/-config json file path with configs
//	-provider-base-url provider environment root URL
//	-provider-environment provider environment label
//	-provider-client-id provider API client id
//	-provider-secret provider API secret
//	-request-timeout inbound request timeout (e.g., "30s", "1m")
//	-agg-concurrency max concurrent provider calls per aggregation
//	-sweep-interval credential health sweep interval (e.g., "1h")
func ParseFlags() *StructuredConfig {
	var serverAddress, metricsAddress NetAddress
	var databaseDSN string
	var sqlitePath string
	var jsonConfigPath string
	var providerBaseURL string
	var providerEnvironment string
	var providerClientID string
	var providerSecret string
	var requestTimeout time.Duration
	var aggConcurrency int
	var sweepInterval time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.Var(&metricsAddress, "metrics-address", "Metrics net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&sqlitePath, "sqlite-path", "", "SQLite fallback database file path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&providerBaseURL, "provider-base-url", "", "Provider base URL")
	flag.StringVar(&providerEnvironment, "provider-environment", "", "Provider environment label")
	flag.StringVar(&providerClientID, "provider-client-id", "", "Provider client id")
	flag.StringVar(&providerSecret, "provider-secret", "", "Provider secret")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.IntVar(&aggConcurrency, "agg-concurrency", 0, "Max concurrent provider calls per aggregation")
	flag.DurationVar(&sweepInterval, "sweep-interval", 0, "Credential health sweep interval (e.g., 1h)")

	flag.Parse()

	return &StructuredConfig{
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			SQLite: SQLite{
				Path: sqlitePath,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Provider: Provider{
			BaseURL:     providerBaseURL,
			Environment: providerEnvironment,
			ClientID:    providerClientID,
			Secret:      providerSecret,
		},
		Aggregation: Aggregation{
			MaxConcurrency: aggConcurrency,
		},
		Workers: Workers{
			SweepInterval: sweepInterval,
		},
		Telemetry: Telemetry{
			MetricsAddress: metricsAddress.String(),
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string so mergo can
// treat the field as unset.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "" && host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
