package registro

import (
	"context"

	"github.com/magabrotheeeer/registro/internal/services/auth"
)

// sessioner - хранилище, выдающее репозиторий конкретного типа R.
type sessioner[R auth.AccountRepository] interface {
	Session(ctx context.Context, fn func(R) error) error
	Tx(ctx context.Context, fn func(R) error) error
}

// accountStore приводит sessioner к auth.Store.
type accountStore[R auth.AccountRepository] struct {
	s sessioner[R]
}

func newAccountStore[R auth.AccountRepository](s sessioner[R]) accountStore[R] {
	return accountStore[R]{s: s}
}

func (a accountStore[R]) Session(ctx context.Context, fn func(auth.AccountRepository) error) error {
	return a.s.Session(ctx, func(r R) error { return fn(r) })
}

func (a accountStore[R]) Tx(ctx context.Context, fn func(auth.AccountRepository) error) error {
	return a.s.Tx(ctx, func(r R) error { return fn(r) })
}
