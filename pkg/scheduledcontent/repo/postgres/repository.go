package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/scheduled-content/pkg/scheduledcontent"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements scheduledcontent.Repository using PostgreSQL.
//
// Expected schema: scheduled_item, scheduled_item_attachment and
// scheduled_item_genre tables. Every multi-table write runs in a single
// transaction so attachments, genre references and the item row move
// together.
type Repository struct {
	pool *pgxpool.Pool
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Error handling helper
func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "scheduled_item") {
				return fmt.Errorf("scheduled item already exists")
			}
			return fmt.Errorf("duplicate entry")
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) CreateItem(ctx context.Context, item *scheduledcontent.ScheduledItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return handlePostgresError("create item", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO scheduled_item (
			id, owner_id, content, scheduled_at, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := tx.Exec(ctx, query,
		item.ID, item.OwnerID, item.Content, item.ScheduledAt,
		item.Status, item.CreatedAt, item.UpdatedAt); err != nil {
		return handlePostgresError("create item", err)
	}

	if err := insertAssociations(ctx, tx, item); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return handlePostgresError("create item", err)
	}

	return nil
}

func (r *Repository) GetItem(ctx context.Context, id uuid.UUID) (*scheduledcontent.ScheduledItem, error) {
	return getItem(ctx, r.pool, id)
}

func (r *Repository) ListItemsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*scheduledcontent.ScheduledItem, error) {
	query := `
		SELECT id, owner_id, content, scheduled_at, status, created_at, updated_at
		FROM scheduled_item
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, handlePostgresError("list items", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, handlePostgresError("list items", err)
	}

	for _, item := range items {
		if err := loadAssociations(ctx, r.pool, item); err != nil {
			return nil, err
		}
	}

	return items, nil
}

func (r *Repository) CountPendingByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM scheduled_item WHERE owner_id = $1 AND status = $2`

	var count int
	err := r.pool.QueryRow(ctx, query, ownerID, scheduledcontent.ItemStatusPending).Scan(&count)
	if err != nil {
		return 0, handlePostgresError("count pending", err)
	}

	return count, nil
}

func (r *Repository) UpdateItem(ctx context.Context, item *scheduledcontent.ScheduledItem, expected scheduledcontent.ItemStatus) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return handlePostgresError("update item", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE scheduled_item
		SET content = $1, scheduled_at = $2, updated_at = $3
		WHERE id = $4 AND status = $5`

	tag, err := tx.Exec(ctx, query,
		item.Content, item.ScheduledAt, item.UpdatedAt, item.ID, expected)
	if err != nil {
		return handlePostgresError("update item", err)
	}
	if tag.RowsAffected() == 0 {
		return conditionMiss(ctx, r.pool, item.ID)
	}

	// Replace attachments and genre references wholesale.
	if _, err := tx.Exec(ctx, `DELETE FROM scheduled_item_attachment WHERE item_id = $1`, item.ID); err != nil {
		return handlePostgresError("update item", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM scheduled_item_genre WHERE item_id = $1`, item.ID); err != nil {
		return handlePostgresError("update item", err)
	}
	if err := insertAssociations(ctx, tx, item); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return handlePostgresError("update item", err)
	}

	return nil
}

func (r *Repository) UpdateItemStatus(ctx context.Context, id uuid.UUID, expected, next scheduledcontent.ItemStatus) error {
	query := `
		UPDATE scheduled_item
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4`

	tag, err := r.pool.Exec(ctx, query, next, time.Now().UTC(), id, expected)
	if err != nil {
		return handlePostgresError("update item status", err)
	}
	if tag.RowsAffected() == 0 {
		return conditionMiss(ctx, r.pool, id)
	}

	return nil
}

func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID, expected scheduledcontent.ItemStatus) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return handlePostgresError("delete item", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM scheduled_item_attachment WHERE item_id = $1`, id); err != nil {
		return handlePostgresError("delete item", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM scheduled_item_genre WHERE item_id = $1`, id); err != nil {
		return handlePostgresError("delete item", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM scheduled_item WHERE id = $1 AND status = $2`, id, expected)
	if err != nil {
		return handlePostgresError("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return conditionMiss(ctx, r.pool, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return handlePostgresError("delete item", err)
	}

	return nil
}

func (r *Repository) ListDuePending(ctx context.Context, now time.Time) ([]*scheduledcontent.ScheduledItem, error) {
	query := `
		SELECT id, owner_id, content, scheduled_at, status, created_at, updated_at
		FROM scheduled_item
		WHERE status = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at ASC`

	rows, err := r.pool.Query(ctx, query, scheduledcontent.ItemStatusPending, now)
	if err != nil {
		return nil, handlePostgresError("list due pending", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, handlePostgresError("list due pending", err)
	}

	for _, item := range items {
		if err := loadAssociations(ctx, r.pool, item); err != nil {
			return nil, err
		}
	}

	return items, nil
}

// Helpers

func getItem(ctx context.Context, db DBTX, id uuid.UUID) (*scheduledcontent.ScheduledItem, error) {
	query := `
		SELECT id, owner_id, content, scheduled_at, status, created_at, updated_at
		FROM scheduled_item WHERE id = $1`

	var item scheduledcontent.ScheduledItem
	err := db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.OwnerID, &item.Content, &item.ScheduledAt,
		&item.Status, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, scheduledcontent.ErrItemNotFound
		}
		return nil, handlePostgresError("get item", err)
	}

	if err := loadAssociations(ctx, db, &item); err != nil {
		return nil, err
	}

	return &item, nil
}

// conditionMiss distinguishes a missing row from a conditional update that
// observed a different status.
func conditionMiss(ctx context.Context, db DBTX, id uuid.UUID) error {
	var exists bool
	err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM scheduled_item WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return handlePostgresError("condition check", err)
	}
	if !exists {
		return scheduledcontent.ErrItemNotFound
	}
	return scheduledcontent.ErrInvalidItemState
}

func scanItems(rows pgx.Rows) ([]*scheduledcontent.ScheduledItem, error) {
	var items []*scheduledcontent.ScheduledItem
	for rows.Next() {
		var item scheduledcontent.ScheduledItem
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Content, &item.ScheduledAt,
			&item.Status, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func insertAssociations(ctx context.Context, db DBTX, item *scheduledcontent.ScheduledItem) error {
	for _, a := range item.Attachments {
		_, err := db.Exec(ctx, `
			INSERT INTO scheduled_item_attachment (item_id, position, url, kind)
			VALUES ($1, $2, $3, $4)`,
			item.ID, a.Position, a.URL, a.Kind)
		if err != nil {
			return handlePostgresError("insert attachment", err)
		}
	}

	for _, g := range item.GenreIDs {
		_, err := db.Exec(ctx, `
			INSERT INTO scheduled_item_genre (item_id, genre_id)
			VALUES ($1, $2)`,
			item.ID, g)
		if err != nil {
			return handlePostgresError("insert genre", err)
		}
	}

	return nil
}

func loadAssociations(ctx context.Context, db DBTX, item *scheduledcontent.ScheduledItem) error {
	rows, err := db.Query(ctx, `
		SELECT url, kind, position
		FROM scheduled_item_attachment
		WHERE item_id = $1
		ORDER BY position ASC`, item.ID)
	if err != nil {
		return handlePostgresError("load attachments", err)
	}
	defer rows.Close()

	item.Attachments = nil
	for rows.Next() {
		var a scheduledcontent.Attachment
		if err := rows.Scan(&a.URL, &a.Kind, &a.Position); err != nil {
			return handlePostgresError("load attachments", err)
		}
		item.Attachments = append(item.Attachments, a)
	}
	if err := rows.Err(); err != nil {
		return handlePostgresError("load attachments", err)
	}

	genreRows, err := db.Query(ctx, `
		SELECT genre_id FROM scheduled_item_genre WHERE item_id = $1`, item.ID)
	if err != nil {
		return handlePostgresError("load genres", err)
	}
	defer genreRows.Close()

	item.GenreIDs = nil
	for genreRows.Next() {
		var g uuid.UUID
		if err := genreRows.Scan(&g); err != nil {
			return handlePostgresError("load genres", err)
		}
		item.GenreIDs = append(item.GenreIDs, g)
	}

	return genreRows.Err()
}
