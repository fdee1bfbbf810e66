package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid product input")
	// ErrConflict signals the request clashes with current catalog state.
	ErrConflict = errors.New("catalog conflict")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptySlug) ||
		errors.Is(err, domain.ErrEmptyPrice) ||
		errors.Is(err, domain.ErrInvalidDiscount) ||
		errors.Is(err, domain.ErrFeaturedHidden) ||
		errors.Is(err, domain.ErrInvalidVariant) ||
		errors.Is(err, domain.ErrDuplicateVariant) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrSlugTaken) || errors.Is(err, ports.ErrFeaturedLimitReached) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
