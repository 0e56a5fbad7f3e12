package login

import (
	"context"

	"github.com/magabrotheeeer/registro/internal/models"
)

// Service описывает вход по email и паролю.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.Account, string, error)
}
