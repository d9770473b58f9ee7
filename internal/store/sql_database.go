package store

import (
	"database/sql"

	"github.com/MKhiriev/go-fin-gateway/internal/logger"
	"github.com/MKhiriev/go-fin-gateway/migrations"
)

// DB wraps the raw connection together with the driver dialect and the
// driver-specific error classifier, so repositories stay backend-agnostic.
type DB struct {
	*sql.DB
	dialect            string
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies all pending schema migrations for the connected backend.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// Retryable reports whether err is classified as transient for the connected
// backend (e.g. a dropped connection or a deadlock rollback). Non-driver
// errors are never retryable.
func (db *DB) Retryable(err error) bool {
	if db.errorClassificator == nil {
		return false
	}
	return db.errorClassificator.Classify(err) == Retryable
}
