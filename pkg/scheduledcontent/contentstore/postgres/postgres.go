// Package postgres provides a PostgreSQL downstream content store for
// deployments where the permanent content tables live in the same database
// as the scheduling tables.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/scheduled-content/pkg/scheduledcontent"
)

// Store implements scheduledcontent.ContentStore using PostgreSQL.
// The published record, its attachments and its genre associations are
// written in one transaction: either all of them exist afterwards or none.
type Store struct {
	pool *pgxpool.Pool
}

// NewWithPool creates a new PostgreSQL content store with connection pool
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) CreatePublished(ctx context.Context, item *scheduledcontent.PublishedItem) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return wrapError("create published", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO published_item (
			id, source_item_id, owner_id, content, published_at
		) VALUES ($1, $2, $3, $4, $5)`

	if _, err := tx.Exec(ctx, query,
		item.ID, item.SourceItemID, item.OwnerID, item.Content, item.PublishedAt); err != nil {
		return wrapError("create published", err)
	}

	for _, a := range item.Attachments {
		_, err := tx.Exec(ctx, `
			INSERT INTO published_item_attachment (item_id, position, url, kind)
			VALUES ($1, $2, $3, $4)`,
			item.ID, a.Position, a.URL, a.Kind)
		if err != nil {
			return wrapError("create published attachment", err)
		}
	}

	for _, g := range item.GenreIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO published_item_genre (item_id, genre_id)
			VALUES ($1, $2)`,
			item.ID, g)
		if err != nil {
			return wrapError("create published genre", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapError("create published", err)
	}

	return nil
}

func wrapError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("published item already exists")
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found")
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}
