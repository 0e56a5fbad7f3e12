package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/registro/internal/models"
)

const accountColumns = `id, first_name, last_name, email, password, created_at, updated_at, deleted_at`

// FindByEmail возвращает аккаунт с точным (регистрозависимым) совпадением email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.FindByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + ` FROM users WHERE email = $1`
	account, err := scanAccount(r.q.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return account, nil
}

// FindByID возвращает аккаунт по идентификатору.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	const op = "storage.FindByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + ` FROM users WHERE id = $1`
	account, err := scanAccount(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return account, nil
}

// Create сохраняет новый аккаунт и возвращает его с назначенными id и датами.
// Повтор email дает ErrConstraintViolation.
func (r *Repository) Create(ctx context.Context, account models.Account) (*models.Account, error) {
	const op = "storage.Create"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (first_name, last_name, email, password)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + accountColumns
	created, err := scanAccount(r.q.QueryRowContext(ctx, query,
		account.FirstName, account.LastName, account.Email, account.PasswordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrConstraintViolation, err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	var (
		a         models.Account
		deletedAt sql.NullTime
	)
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash,
		&a.CreatedAt, &a.UpdatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if deletedAt.Valid {
		a.DeletedAt = &deletedAt.Time
	}
	return &a, nil
}
