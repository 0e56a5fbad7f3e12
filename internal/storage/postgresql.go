// Package storage реализует хранилище данных на основе PostgreSQL
// для аккаунтов пользователей и записей CRUD-ресурса.
//
// Доступ к данным идет через Repository, привязанный к источнику запросов:
// пулу соединений, выделенному соединению (Session) или транзакции (Tx).
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	// ErrAccountNotFound - аккаунт с заданным email или id отсутствует.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEntryNotFound - запись с заданным id отсутствует.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrConstraintViolation - нарушено ограничение уникальности.
	ErrConstraintViolation = errors.New("constraint violation")
)

// Querier - общий набор методов *sql.DB, *sql.Conn и *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Storage инкапсулирует пул соединений с PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(ctx context.Context, storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// Repository возвращает репозиторий, работающий напрямую через пул.
func (s *Storage) Repository() *Repository {
	return NewRepository(s.DB)
}

// Session выделяет одно соединение из пула на время fn.
// Соединение возвращается в пул при любом исходе, в том числе при панике.
func (s *Storage) Session(ctx context.Context, fn func(*Repository) error) error {
	const op = "storage.Session"

	conn, err := s.DB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = conn.Close()
	}()

	return fn(NewRepository(conn))
}

// Tx выполняет fn внутри транзакции. Коммит выполняется, только если fn
// вернула nil; в остальных случаях, включая панику, транзакция откатывается.
func (s *Storage) Tx(ctx context.Context, fn func(*Repository) error) (err error) {
	const op = "storage.Tx"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(NewRepository(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%s: %w (rollback: %v)", op, err, rbErr)
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Repository выполняет запросы к таблицам users и entries.
type Repository struct {
	q Querier
}

// NewRepository привязывает репозиторий к источнику запросов.
func NewRepository(q Querier) *Repository {
	return &Repository{q: q}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
