package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-storefront/internal/domains/admin/domain"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service exposes admin authentication use cases to adapters.
type Service interface {
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}
