package storefrontserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	adminapp "github.com/Apurer/go-gin-storefront/internal/domains/admin/application"
	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// problems maps application errors from every bounded context to RFC 7807 responses.
var problems = apierrors.NewChainedResponder(
	mapNotFound,
	mapInvalidInput,
	mapConflict,
	mapAuthentication,
)

func mapNotFound(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("Product not found"), true
	case errors.Is(err, ordersports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("Order not found"), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapInvalidInput(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, catalogapp.ErrInvalidInput) || errors.Is(err, ordersapp.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapConflict(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, catalogapp.ErrConflict) || errors.Is(err, ordersapp.ErrConflict) {
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapAuthentication(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, adminapp.ErrAuthentication) {
		return apierrors.ErrUnauthorized.WithDetail("Invalid credentials"), true
	}
	return apierrors.ProblemDetail{}, false
}

// respondServiceError renders any service error; unmapped errors become 500.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problems.RespondError(c, err)
}

// respondBadRequest reports malformed request bodies or parameters.
func respondBadRequest(c *gin.Context, err error) {
	apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}
