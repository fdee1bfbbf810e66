package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-storefront/internal/domains/admin/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/admin/ports"
)

var (
	// ErrAuthentication wraps rejected logins and unknown or expired tokens.
	ErrAuthentication = errors.New("authentication failed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ports.ErrInvalidCredentials) ||
		errors.Is(err, ports.ErrSessionNotFound) ||
		errors.Is(err, domain.ErrEmptyToken) {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return err
}
