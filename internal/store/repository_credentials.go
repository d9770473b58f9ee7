package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-fin-gateway/internal/logger"
	"github.com/MKhiriev/go-fin-gateway/models"
)

// credentialRepository is the SQL-backed implementation of
// [CredentialRepository]. All operations run against the "credentials"
// table through the embedded [*DB] connection.
//
// The ledger is append-only. Access tokens are never updated or deleted,
// so a user who relinks an institution simply gains a fresh row and the
// aggregation engine fans out over all of them.
type credentialRepository struct {
	*DB
	logger *logger.Logger
}

// NewCredentialRepository constructs a [CredentialRepository] backed by
// the provided database connection and logger.
func NewCredentialRepository(db *DB, logger *logger.Logger) CredentialRepository {
	logger.Debug().Msg("CredentialRepository created")
	return &credentialRepository{
		DB:     db,
		logger: logger,
	}
}

// Save appends a credential to the ledger and returns it with the
// server-assigned ID filled in. A zero CreatedAt is stamped with the
// current UTC time before the insert.
//
// The insert is unconditional: a repeated item_id appends another row
// rather than failing, so relinking the same institution always succeeds.
func (r *credentialRepository) Save(ctx context.Context, credential models.Credential) (models.Credential, error) {
	log := logger.FromContext(ctx)

	if credential.CreatedAt.IsZero() {
		credential.CreatedAt = time.Now().UTC()
	}

	row := r.DB.QueryRowContext(ctx, insertCredential,
		credential.UserID,
		credential.AccessToken,
		credential.ItemID,
		credential.InstitutionLabel,
		credential.CreatedAt,
	)

	// append credential to the ledger
	if err := row.Err(); err != nil {
		log.Err(err).
			Str("func", "credentialRepository.Save").
			Str("user_id", credential.UserID).
			Str("item_id", credential.ItemID).
			Msg("failed to insert credential")
		return models.Credential{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	// scan server-assigned id
	if err := row.Scan(&credential.ID); err != nil {
		log.Err(err).
			Str("func", "credentialRepository.Save").
			Str("user_id", credential.UserID).
			Str("item_id", credential.ItemID).
			Msg("failed to scan inserted credential id")
		return models.Credential{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	log.Info().
		Str("func", "credentialRepository.Save").
		Str("user_id", credential.UserID).
		Str("item_id", credential.ItemID).
		Msg("credential appended to ledger")

	return credential, nil
}

// ListForUser returns every credential stored for the given user in
// creation order.
//
// Returns an empty slice when the user has no linked institutions yet.
func (r *credentialRepository) ListForUser(ctx context.Context, userID string) ([]models.Credential, error) {
	log := logger.FromContext(ctx)

	rows, queryErr := r.DB.QueryContext(ctx, listCredentialsByUser, userID)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "credentialRepository.ListForUser").
			Str("user_id", userID).
			Msg("failed to execute query for listing user credentials")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	credentials := make([]models.Credential, 0, 4)

	for rows.Next() {
		var credential models.Credential

		scanErr := rows.Scan(
			&credential.ID,
			&credential.UserID,
			&credential.AccessToken,
			&credential.ItemID,
			&credential.InstitutionLabel,
			&credential.CreatedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "credentialRepository.ListForUser").
				Str("user_id", userID).
				Msg("failed to scan credential row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		credentials = append(credentials, credential)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "credentialRepository.ListForUser").
			Str("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return credentials, nil
}

// ListAll returns the whole credential ledger in creation order. The
// background health sweep walks this list to probe every stored token.
func (r *credentialRepository) ListAll(ctx context.Context) ([]models.Credential, error) {
	log := logger.FromContext(ctx)

	rows, queryErr := r.DB.QueryContext(ctx, listAllCredentials)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "credentialRepository.ListAll").
			Msg("failed to execute query for listing all credentials")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	credentials := make([]models.Credential, 0, 50)

	for rows.Next() {
		var credential models.Credential

		scanErr := rows.Scan(
			&credential.ID,
			&credential.UserID,
			&credential.AccessToken,
			&credential.ItemID,
			&credential.InstitutionLabel,
			&credential.CreatedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "credentialRepository.ListAll").
				Msg("failed to scan credential row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		credentials = append(credentials, credential)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "credentialRepository.ListAll").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return credentials, nil
}
