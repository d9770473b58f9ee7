package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-fin-gateway/internal/logger"
	"github.com/MKhiriev/go-fin-gateway/models"
)

// linkEventRepository is the SQL-backed implementation of
// [LinkEventRepository]. Events land in the "link_events" table and are
// never mutated afterwards, so the table doubles as a link audit trail.
type linkEventRepository struct {
	*DB
	logger *logger.Logger
}

// NewLinkEventRepository constructs a [LinkEventRepository] backed by
// the provided database connection and logger.
func NewLinkEventRepository(db *DB, logger *logger.Logger) LinkEventRepository {
	logger.Debug().Msg("LinkEventRepository created")
	return &linkEventRepository{
		DB:     db,
		logger: logger,
	}
}

// Record appends a lifecycle event to the audit trail and returns it with
// the server-assigned ID filled in. A zero CreatedAt is stamped with the
// current UTC time before the insert.
func (r *linkEventRepository) Record(ctx context.Context, event models.LinkEvent) (models.LinkEvent, error) {
	log := logger.FromContext(ctx)

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	row := r.DB.QueryRowContext(ctx, insertLinkEvent,
		event.UserID,
		event.ItemID,
		event.Kind,
		event.Detail,
		event.CreatedAt,
	)

	if err := row.Err(); err != nil {
		log.Err(err).
			Str("func", "linkEventRepository.Record").
			Str("user_id", event.UserID).
			Str("kind", event.Kind).
			Msg("failed to insert link event")
		return models.LinkEvent{}, fmt.Errorf("%w: %w", ErrLinkEventNotSaved, err)
	}

	if err := row.Scan(&event.ID); err != nil {
		log.Err(err).
			Str("func", "linkEventRepository.Record").
			Str("user_id", event.UserID).
			Str("kind", event.Kind).
			Msg("failed to scan inserted link event id")
		return models.LinkEvent{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return event, nil
}

// ListForUser returns audit-trail events matching the filter, newest first.
//
// Returns an empty slice when nothing matches.
func (r *linkEventRepository) ListForUser(ctx context.Context, filter models.LinkEventFilter) ([]models.LinkEvent, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListLinkEventsQuery(ctx, filter)
	if err != nil {
		log.Err(err).
			Str("func", "linkEventRepository.ListForUser").
			Str("user_id", filter.UserID).
			Msg("failed to create query")
		return nil, err
	}

	rows, queryErr := r.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "linkEventRepository.ListForUser").
			Str("user_id", filter.UserID).
			Int("kinds count", len(filter.Kinds)).
			Msg("failed to execute query for listing link events")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	events := make([]models.LinkEvent, 0, 16)

	for rows.Next() {
		var event models.LinkEvent

		scanErr := rows.Scan(
			&event.ID,
			&event.UserID,
			&event.ItemID,
			&event.Kind,
			&event.Detail,
			&event.CreatedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "linkEventRepository.ListForUser").
				Str("user_id", filter.UserID).
				Msg("failed to scan link event row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		events = append(events, event)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "linkEventRepository.ListForUser").
			Str("user_id", filter.UserID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return events, nil
}
