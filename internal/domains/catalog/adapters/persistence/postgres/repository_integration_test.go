//go:build integration

package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/postgres/pgtest"
)

func newProduct(t *testing.T, id, slug string) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(id, slug, "Hoodie "+id, "€280")
	require.NoError(t, err)
	p.Category = "Hoodies"
	p.ReplaceImages([]string{"/a.png", "/b.png"})
	p.ReplaceDetails([]string{"Oversized fit"})
	return p
}

func TestRepository_SaveAndLoad(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	p := newProduct(t, "p1", "coral-hoodie")
	require.NoError(t, p.ReplaceVariants([]domain.Variant{
		{ID: "v1", Name: "Coral", Slug: "coral-hoodie", Color: "#ff7f50"},
		{ID: "v2", Name: "Sand", Slug: "sand-hoodie", Color: "#c2b280"},
	}))
	saved, err := repo.Save(ctx, p, 0)
	require.NoError(t, err)
	assert.Equal(t, "coral-hoodie", saved.Entity.Slug)
	assert.Equal(t, []string{"/a.png", "/b.png"}, saved.Entity.Images)
	require.Len(t, saved.Entity.Variants, 2)
	assert.Equal(t, "v1", saved.Entity.Variants[0].ID)
	assert.False(t, saved.Metadata.CreatedAt.IsZero())

	bySlug, err := repo.GetBySlug(ctx, "coral-hoodie")
	require.NoError(t, err)
	assert.Equal(t, "p1", bySlug.Entity.ID)

	require.NoError(t, p.ReplaceVariants([]domain.Variant{{ID: "v3", Name: "Ink", Slug: "ink-hoodie", Color: "#111"}}))
	require.NoError(t, p.Rename("Coral Hoodie"))
	updated, err := repo.Save(ctx, p, 0)
	require.NoError(t, err)
	assert.Equal(t, "Coral Hoodie", updated.Entity.Name)
	require.Len(t, updated.Entity.Variants, 1)
	assert.Equal(t, saved.Metadata.CreatedAt.Unix(), updated.Metadata.CreatedAt.Unix())

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_DuplicateSlug(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	_, err := repo.Save(ctx, newProduct(t, "p1", "same"), 0)
	require.NoError(t, err)
	_, err = repo.Save(ctx, newProduct(t, "p2", "same"), 0)
	assert.ErrorIs(t, err, ports.ErrSlugTaken)
}

func TestRepository_ListFilters(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		p := newProduct(t, fmt.Sprintf("p%d", i), fmt.Sprintf("slug-%d", i))
		if i == 3 {
			p.Category = "Tees"
		}
		_, err := repo.Save(ctx, p, 0)
		require.NoError(t, err)
	}
	n, err := repo.SetHidden(ctx, []string{"p2", "ghost"}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	visible, err := repo.List(ctx, ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "p1", visible[0].Entity.ID)

	all, err := repo.List(ctx, ports.ListFilter{IncludeHidden: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	tees, err := repo.List(ctx, ports.ListFilter{Category: "Tees"})
	require.NoError(t, err)
	require.Len(t, tees, 1)

	wrongCase, err := repo.List(ctx, ports.ListFilter{Category: "tees"})
	require.NoError(t, err)
	assert.Empty(t, wrongCase)
	assert.Equal(t, "p3", tees[0].Entity.ID)

	removed, err := repo.Delete(ctx, []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	all, err = repo.List(ctx, ports.ListFilter{IncludeHidden: true})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_FeaturedLimitUnderConcurrency(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	const total = 6
	for i := 0; i < total; i++ {
		_, err := repo.Save(ctx, newProduct(t, fmt.Sprintf("p%d", i), fmt.Sprintf("slug-%d", i)), 0)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	errs := make([]error, total)
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := newProduct(t, fmt.Sprintf("p%d", i), fmt.Sprintf("slug-%d", i))
			if err := p.SetFeatured(true); err != nil {
				errs[i] = err
				return
			}
			_, errs[i] = repo.Save(ctx, p, 2)
		}(i)
	}
	wg.Wait()

	rejected := 0
	for _, err := range errs {
		if err != nil {
			require.ErrorIs(t, err, ports.ErrFeaturedLimitReached)
			rejected++
		}
	}
	assert.Equal(t, total-2, rejected)

	featured, err := repo.List(ctx, ports.ListFilter{FeaturedOnly: true})
	require.NoError(t, err)
	assert.Len(t, featured, 2)
}
