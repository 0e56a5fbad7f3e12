// Package auth содержит бизнес-логику регистрации, входа и проверки
// токенов доступа.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/registro/internal/lib/jwt"
	"github.com/magabrotheeeer/registro/internal/lib/metrics"
	"github.com/magabrotheeeer/registro/internal/lib/password"
	"github.com/magabrotheeeer/registro/internal/lib/sl"
	"github.com/magabrotheeeer/registro/internal/models"
	"github.com/magabrotheeeer/registro/internal/storage"
)

const defaultNotificationTimeout = 30 * time.Second

// AccountRepository описывает контракт для работы с аккаунтами в хранилище.
type AccountRepository interface {
	// FindByEmail возвращает аккаунт или storage.ErrAccountNotFound.
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	// FindByID возвращает аккаунт или storage.ErrAccountNotFound.
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	// Create сохраняет аккаунт; повтор email дает storage.ErrConstraintViolation.
	Create(ctx context.Context, account models.Account) (*models.Account, error)
}

// Store выдает репозиторий, привязанный к соединению на время fn.
type Store interface {
	Session(ctx context.Context, fn func(AccountRepository) error) error
	Tx(ctx context.Context, fn func(AccountRepository) error) error
}

// Hasher хеширует и проверяет пароли.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(hash, plaintext string) bool
}

// TokenMaker выпускает и разбирает токены доступа.
type TokenMaker interface {
	GenerateToken(accountID int64, email string) (string, error)
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// Notifier доставляет приветственное сообщение после регистрации.
type Notifier interface {
	NotifyWelcome(ctx context.Context, msg models.WelcomeMessage) error
}

// SignupInput - данные регистрации.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthService отвечает за регистрацию, вход и проверку токенов.
type AuthService struct {
	store    Store
	hasher   Hasher
	tokens   TokenMaker
	notifier Notifier
	log      *slog.Logger
	metrics  *metrics.Auth

	notifyTimeout time.Duration
	wg            sync.WaitGroup

	dummyOnce sync.Once
	dummyHash string
}

// Option настраивает AuthService.
type Option func(*AuthService)

// WithMetrics включает учет исходов операций.
func WithMetrics(m *metrics.Auth) Option {
	return func(s *AuthService) {
		s.metrics = m
	}
}

// WithNotificationTimeout ограничивает время доставки одного уведомления.
func WithNotificationTimeout(d time.Duration) Option {
	return func(s *AuthService) {
		if d > 0 {
			s.notifyTimeout = d
		}
	}
}

// NewAuthService создает новый экземпляр AuthService. notifier может быть nil.
func NewAuthService(store Store, hasher Hasher, tokens TokenMaker, notifier Notifier, log *slog.Logger, opts ...Option) *AuthService {
	s := &AuthService{
		store:         store,
		hasher:        hasher,
		tokens:        tokens,
		notifier:      notifier,
		log:           log,
		notifyTimeout: defaultNotificationTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup регистрирует аккаунт и сразу выдает токен доступа.
//
// Аккаунт сохраняется и токен выпускается атомарно: ошибка подписи откатывает
// вставку. Приветственное уведомление отправляется асинхронно и на результат
// не влияет.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.Account, string, error) {
	const op = "auth.Signup"

	if len(in.Password) > password.MaxBytes {
		return nil, "", fmt.Errorf("%s: %w", op, ErrPasswordTooLong)
	}

	err := s.store.Session(ctx, func(repo AccountRepository) error {
		_, err := repo.FindByEmail(ctx, in.Email)
		switch {
		case err == nil:
			return ErrDuplicateAccount
		case errors.Is(err, storage.ErrAccountNotFound):
			return nil
		default:
			return err
		}
	})
	if err != nil {
		s.metrics.Signup(signupResult(err))
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.metrics.Signup(metrics.ResultError)
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	var (
		account *models.Account
		token   string
	)
	err = s.store.Tx(ctx, func(repo AccountRepository) error {
		created, err := repo.Create(ctx, models.Account{
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Email:        in.Email,
			PasswordHash: hash,
		})
		if err != nil {
			if errors.Is(err, storage.ErrConstraintViolation) {
				return fmt.Errorf("%w: %w", ErrDuplicateAccount, err)
			}
			return err
		}
		token, err = s.tokens.GenerateToken(created.ID, created.Email)
		if err != nil {
			return err
		}
		account = created
		return nil
	})
	if err != nil {
		s.metrics.Signup(signupResult(err))
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.Signup(metrics.ResultSuccess)
	s.notifyWelcome(ctx, account)
	return account, token, nil
}

// Login проверяет пароль и выдает токен доступа.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (*models.Account, string, error) {
	const op = "auth.Login"

	var account *models.Account
	err := s.store.Session(ctx, func(repo AccountRepository) error {
		found, err := repo.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		account = found
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			// выравниваем время ответа с веткой неверного пароля
			s.hasher.Verify(s.timingHash(), plaintext)
			s.metrics.Login(metrics.ResultInvalidCredentials)
			return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		s.metrics.Login(metrics.ResultError)
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	if !s.hasher.Verify(account.PasswordHash, plaintext) {
		s.metrics.Login(metrics.ResultInvalidCredentials)
		return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.tokens.GenerateToken(account.ID, account.Email)
	if err != nil {
		s.metrics.Login(metrics.ResultError)
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.Login(metrics.ResultSuccess)
	return account, token, nil
}

// Authenticate проверяет токен и возвращает его владельца.
//
// Любая неудача дает ErrUnauthenticated; исходная причина (истекший или
// поврежденный токен, отсутствующий аккаунт) сохраняется в цепочке ошибок.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Account, error) {
	const op = "auth.Authenticate"

	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		s.metrics.Authenticate(metrics.ResultUnauthenticated)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrUnauthenticated, err)
	}
	id, err := claims.AccountID()
	if err != nil {
		s.metrics.Authenticate(metrics.ResultUnauthenticated)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrUnauthenticated, err)
	}

	var account *models.Account
	err = s.store.Session(ctx, func(repo AccountRepository) error {
		found, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		account = found
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			s.metrics.Authenticate(metrics.ResultUnauthenticated)
			return nil, fmt.Errorf("%s: %w: %w", op, ErrUnauthenticated, err)
		}
		s.metrics.Authenticate(metrics.ResultError)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.Authenticate(metrics.ResultSuccess)
	return account, nil
}

// Wait блокируется, пока не завершатся все отправленные уведомления.
func (s *AuthService) Wait() {
	s.wg.Wait()
}

func (s *AuthService) notifyWelcome(ctx context.Context, account *models.Account) {
	if s.notifier == nil {
		return
	}
	msg := models.WelcomeMessage{
		AccountID: account.ID,
		Email:     account.Email,
		FirstName: account.FirstName,
	}
	log := s.log.With(
		slog.String("op", "auth.notifyWelcome"),
		slog.Int64("account_id", account.ID),
	)

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				log.Error("welcome notification panicked", slog.Any("panic", r))
			}
		}()

		if err := s.notifier.NotifyWelcome(notifyCtx, msg); err != nil {
			log.Error("failed to send welcome notification", sl.Err(err))
			return
		}
		log.Debug("welcome notification dispatched")
	}()
}

func (s *AuthService) timingHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("registro-timing-equalizer")
	})
	return s.dummyHash
}

func signupResult(err error) string {
	if errors.Is(err, ErrDuplicateAccount) {
		return metrics.ResultDuplicate
	}
	return metrics.ResultError
}
