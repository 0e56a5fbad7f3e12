package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/registro/internal/models"
)

const entryColumns = `id, name, description, created_at, updated_at`

// CreateEntry вставляет новую запись и возвращает её.
func (r *Repository) CreateEntry(ctx context.Context, in models.EntryCreate) (*models.Entry, error) {
	const op = "storage.CreateEntry"

	query := `INSERT INTO entries (name, description)
			  VALUES ($1, $2)
			  RETURNING ` + entryColumns
	entry, err := scanEntry(r.q.QueryRowContext(ctx, query, in.Name, in.Description))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entry, nil
}

// ReadEntry возвращает запись по её ID.
func (r *Repository) ReadEntry(ctx context.Context, id int64) (*models.Entry, error) {
	const op = "storage.ReadEntry"

	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`
	entry, err := scanEntry(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entry, nil
}

// ListEntries возвращает страницу записей в порядке id и общее их количество.
func (r *Repository) ListEntries(ctx context.Context, limit, offset int) ([]models.Entry, int, error) {
	const op = "storage.ListEntries"
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + entryColumns + ` FROM entries ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.q.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]models.Entry, 0, limit)
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return entries, total, nil
}

// UpdateEntry меняет только переданные поля и проставляет updated_at.
// Описание может быть очищено до NULL.
func (r *Repository) UpdateEntry(ctx context.Context, id int64, in models.EntryUpdate) (*models.Entry, error) {
	const op = "storage.UpdateEntry"

	query := `UPDATE entries
			  SET name = COALESCE($1, name),
			      description = CASE WHEN $3::boolean THEN $2::text ELSE description END,
			      updated_at = NOW()
			  WHERE id = $4
			  RETURNING ` + entryColumns
	entry, err := scanEntry(r.q.QueryRowContext(ctx, query, in.Name, in.Description, in.HasDescription(), id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entry, nil
}

// RemoveEntry удаляет запись по ID.
func (r *Repository) RemoveEntry(ctx context.Context, id int64) error {
	const op = "storage.RemoveEntry"

	result, err := r.q.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrEntryNotFound)
	}
	return nil
}

func scanEntry(row *sql.Row) (*models.Entry, error) {
	var e models.Entry
	if err := row.Scan(&e.ID, &e.Name, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}
