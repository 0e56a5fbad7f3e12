package signup

import (
	"context"

	"github.com/magabrotheeeer/registro/internal/models"
	"github.com/magabrotheeeer/registro/internal/services/auth"
)

// Service описывает регистрацию аккаунта.
type Service interface {
	Signup(ctx context.Context, in auth.SignupInput) (*models.Account, string, error)
}
