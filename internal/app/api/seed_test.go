package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	catalogtypes "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application/types"
)

func TestSeedCatalog_IsRepeatable(t *testing.T) {
	ctx := context.Background()
	service := catalogapp.NewService(catalogmemory.NewRepository())

	created, err := SeedCatalog(ctx, service)
	require.NoError(t, err)
	assert.Equal(t, 5, created)

	created, err = SeedCatalog(ctx, service)
	require.NoError(t, err)
	assert.Zero(t, created)

	coral, err := service.GetBySlug(ctx, catalogtypes.ProductSlug{Slug: "coral-hoodie"})
	require.NoError(t, err)
	assert.Equal(t, 15, coral.Entity.Discount)
	assert.Len(t, coral.Entity.Images, 2)
	assert.Len(t, coral.Entity.Variants, 5)

	beige, err := service.GetBySlug(ctx, catalogtypes.ProductSlug{Slug: "beige-hoodie"})
	require.NoError(t, err)
	assert.Contains(t, beige.Entity.Description, "signature red TÊTU embroidery")
	assert.Contains(t, beige.Entity.Details, "Red TÊTU embroidered logo")
}
