// Package memory - хранилище в памяти процесса с тем же набором операций,
// что и storage.Repository. Используется для локального запуска
// (storage_driver: memory) и в тестах.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/magabrotheeeer/registro/internal/models"
	"github.com/magabrotheeeer/registro/internal/storage"
)

type state struct {
	accounts      map[int64]models.Account
	entries       map[int64]models.Entry
	lastAccountID int64
	lastEntryID   int64
}

func (s *state) clone() *state {
	c := &state{
		accounts:      make(map[int64]models.Account, len(s.accounts)),
		entries:       make(map[int64]models.Entry, len(s.entries)),
		lastAccountID: s.lastAccountID,
		lastEntryID:   s.lastEntryID,
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	return c
}

// Storage хранит аккаунты и записи в map под мьютексом.
type Storage struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		st: &state{
			accounts: make(map[int64]models.Account),
			entries:  make(map[int64]models.Entry),
		},
		now: time.Now,
	}
}

// Repository возвращает репозиторий, который берет блокировку на каждую операцию.
func (s *Storage) Repository() *Repository {
	return &Repository{s: s}
}

// Session выполняет fn с репозиторием поверх общего состояния.
func (s *Storage) Session(ctx context.Context, fn func(*Repository) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("memory.Session: %w", err)
	}
	return fn(s.Repository())
}

// Tx выполняет fn над копией состояния под эксклюзивной блокировкой.
// Копия подменяет состояние, только если fn вернула nil.
func (s *Storage) Tx(ctx context.Context, fn func(*Repository) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("memory.Tx: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.st.clone()
	if err := fn(&Repository{s: s, st: draft, locked: true}); err != nil {
		return err
	}
	s.st = draft
	return nil
}

// Repository реализует операции над аккаунтами и записями.
type Repository struct {
	s *Storage
	// st задан внутри Tx, где блокировка уже удерживается.
	st     *state
	locked bool
}

func (r *Repository) do(fn func(st *state) error) error {
	if r.locked {
		return fn(r.st)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return fn(r.s.st)
}

// FindByEmail возвращает аккаунт с точным совпадением email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "memory.FindByEmail"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var found *models.Account
	_ = r.do(func(st *state) error {
		for _, a := range st.accounts {
			if a.Email == email {
				a := a
				found = &a
				return nil
			}
		}
		return nil
	})
	if found == nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrAccountNotFound)
	}
	return found, nil
}

// FindByID возвращает аккаунт по идентификатору.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	const op = "memory.FindByID"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var found *models.Account
	_ = r.do(func(st *state) error {
		if a, ok := st.accounts[id]; ok {
			found = &a
		}
		return nil
	})
	if found == nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrAccountNotFound)
	}
	return found, nil
}

// Create сохраняет аккаунт, назначая следующий id. Повтор email дает
// storage.ErrConstraintViolation.
func (r *Repository) Create(ctx context.Context, account models.Account) (*models.Account, error) {
	const op = "memory.Create"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var created models.Account
	err := r.do(func(st *state) error {
		for _, a := range st.accounts {
			if a.Email == account.Email {
				return storage.ErrConstraintViolation
			}
		}
		st.lastAccountID++
		now := r.s.now().UTC()
		created = account
		created.ID = st.lastAccountID
		created.CreatedAt = now
		created.UpdatedAt = now
		created.DeletedAt = nil
		st.accounts[created.ID] = created
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}

// CreateEntry сохраняет новую запись.
func (r *Repository) CreateEntry(ctx context.Context, in models.EntryCreate) (*models.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("memory.CreateEntry: %w", err)
	}

	var created models.Entry
	_ = r.do(func(st *state) error {
		st.lastEntryID++
		created = models.Entry{
			ID:          st.lastEntryID,
			Name:        in.Name,
			Description: cloneString(in.Description),
			CreatedAt:   r.s.now().UTC(),
		}
		st.entries[created.ID] = created
		return nil
	})
	return &created, nil
}

// ReadEntry возвращает запись по id.
func (r *Repository) ReadEntry(ctx context.Context, id int64) (*models.Entry, error) {
	const op = "memory.ReadEntry"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var found *models.Entry
	_ = r.do(func(st *state) error {
		if e, ok := st.entries[id]; ok {
			found = &e
		}
		return nil
	})
	if found == nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEntryNotFound)
	}
	return found, nil
}

// ListEntries возвращает страницу записей в порядке id и общее их количество.
func (r *Repository) ListEntries(ctx context.Context, limit, offset int) ([]models.Entry, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("memory.ListEntries: %w", err)
	}

	var all []models.Entry
	_ = r.do(func(st *state) error {
		all = make([]models.Entry, 0, len(st.entries))
		for _, e := range st.entries {
			all = append(all, e)
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := len(all)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= total {
		return []models.Entry{}, total, nil
	}
	end := total
	if limit < total-offset {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

// UpdateEntry меняет только переданные поля.
func (r *Repository) UpdateEntry(ctx context.Context, id int64, in models.EntryUpdate) (*models.Entry, error) {
	const op = "memory.UpdateEntry"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var updated models.Entry
	err := r.do(func(st *state) error {
		e, ok := st.entries[id]
		if !ok {
			return storage.ErrEntryNotFound
		}
		if in.Name != nil {
			e.Name = *in.Name
		}
		if in.HasDescription() {
			e.Description = cloneString(in.Description)
		}
		now := r.s.now().UTC()
		e.UpdatedAt = &now
		st.entries[id] = e
		updated = e
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &updated, nil
}

// RemoveEntry удаляет запись по id.
func (r *Repository) RemoveEntry(ctx context.Context, id int64) error {
	const op = "memory.RemoveEntry"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := r.do(func(st *state) error {
		if _, ok := st.entries[id]; !ok {
			return storage.ErrEntryNotFound
		}
		delete(st.entries, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
