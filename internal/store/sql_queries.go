// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-fin-gateway/internal/logger"
	"github.com/MKhiriev/go-fin-gateway/models"
)

const (
	insertCredential = `INSERT INTO credentials (user_id, access_token, item_id, institution_label, created_at)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id;`

	listCredentialsByUser = `SELECT id, user_id, access_token, item_id, institution_label, created_at
    FROM credentials
    WHERE user_id = $1
    ORDER BY id;`

	listAllCredentials = `SELECT id, user_id, access_token, item_id, institution_label, created_at
    FROM credentials
    ORDER BY id;`

	insertLinkEvent = `INSERT INTO link_events (user_id, item_id, kind, detail, created_at)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id;`
)

// buildListLinkEventsQuery assembles the audit-trail SELECT for the given
// filter. UserID is always applied; kind, item and limit narrow the result
// only when set. Events come back newest first.
func buildListLinkEventsQuery(ctx context.Context, filter models.LinkEventFilter) (string, []any, error) {
	log := logger.FromContext(ctx)

	builder := squirrel.
		Select("id", "user_id", "item_id", "kind", "detail", "created_at").
		From("link_events").
		Where(squirrel.Eq{"user_id": filter.UserID}).
		OrderBy("id DESC").
		PlaceholderFormat(squirrel.Dollar)

	// необязательные фильтры добавляем только если заданы
	if len(filter.Kinds) > 0 {
		builder = builder.Where(squirrel.Eq{"kind": filter.Kinds})
	}

	if filter.ItemID != "" {
		builder = builder.Where(squirrel.Eq{"item_id": filter.ItemID})
	}

	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).
			Str("func", "buildListLinkEventsQuery").
			Str("user_id", filter.UserID).
			Msg("failed to build link events query")
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
