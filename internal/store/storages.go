package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-fin-gateway/internal/config"
	"github.com/MKhiriev/go-fin-gateway/internal/logger"
)

// Storages groups all gateway repositories into a single value that can be
// passed around the service layer.
type Storages struct {
	// Credentials is the append-only ledger of provider access grants.
	Credentials CredentialRepository

	// LinkEvents is the audit trail of link lifecycle events.
	LinkEvents LinkEventRepository

	db *DB
}

// NewStorages initialises the storage layer using the supplied configuration
// and logger. It performs the following steps:
//  1. Opens a connection to PostgreSQL when cfg.DB.DSN is set, otherwise to
//     the SQLite file at cfg.SQLite.Path.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs and returns a [Storages] value wired to fresh repositories.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := connect(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		Credentials: NewCredentialRepository(db, logger),
		LinkEvents:  NewLinkEventRepository(db, logger),
		db:          db,
	}, nil
}

// connect picks the backend from the configuration: PostgreSQL when a DSN
// is present, the embedded SQLite file otherwise.
func connect(ctx context.Context, cfg config.Storage, log *logger.Logger) (*DB, error) {
	if cfg.DB.DSN != "" {
		return NewConnectPostgres(ctx, cfg.DB, log)
	}

	return NewConnectSQLite(ctx, cfg.SQLite, log)
}

// Retryable reports whether a failed repository call is worth another
// attempt, based on the driver-specific error classifier.
func (s *Storages) Retryable(err error) bool {
	return s.db != nil && s.db.Retryable(err)
}

// Close releases the underlying database connection.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}

	return s.db.Close()
}
