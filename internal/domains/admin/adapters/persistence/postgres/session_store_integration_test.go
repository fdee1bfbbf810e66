//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/admin/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/admin/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/postgres/pgtest"
)

func TestSessionStore_SaveGetDelete(t *testing.T) {
	store := NewSessionStore(pgtest.Start(t))
	ctx := context.Background()

	session, err := domain.NewSession("tok-1", "admin", time.Now(), time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Username)
	assert.WithinDuration(t, session.ExpiresAt, got.ExpiresAt, time.Second)

	require.NoError(t, store.Delete(ctx, "tok-1"))
	_, err = store.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_PurgeExpired(t *testing.T) {
	store := NewSessionStore(pgtest.Start(t))
	ctx := context.Background()

	expired, err := domain.NewSession("old", "admin", time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	live, err := domain.NewSession("new", "admin", time.Now(), time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, expired))
	require.NoError(t, store.Save(ctx, live))

	removed, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = store.Get(ctx, "new")
	require.NoError(t, err)
	_, err = store.Get(ctx, "old")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}
