package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-penelitian/models"
)

func exerciseLifecycle(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()

	sess, err := svc.Start(ctx)
	require.NoError(t, err)
	assert.False(t, sess.Authenticated)
	assert.Equal(t, "dashboard", sess.Page)
	assert.Empty(t, sess.Role())

	user := &models.UserIdentity{ID: 2, Username: "editor", DisplayName: "Editor Tim", Role: models.RoleEditor}
	sess, err = svc.Authenticate(ctx, sess.ID, user)
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)
	assert.Equal(t, models.RoleEditor, sess.Role())

	_, err = svc.Navigate(ctx, sess.ID, "laporan")
	require.NoError(t, err)
	id := uint(5)
	_, err = svc.Select(ctx, sess.ID, &id)
	require.NoError(t, err)

	got, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "laporan", got.Page)
	require.NotNil(t, got.SelectedRecord)
	assert.Equal(t, uint(5), *got.SelectedRecord)

	_, err = svc.Deny(ctx, sess.ID, "Anda tidak memiliki akses ke halaman ini")
	require.NoError(t, err)
	got, err = svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "dashboard", got.Page)

	flash, err := svc.TakeFlash(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anda tidak memiliki akses ke halaman ini", flash)
	flash, err = svc.TakeFlash(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, flash)

	sess, err = svc.Reset(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, sess.Authenticated)
	assert.Nil(t, sess.User)
	assert.Nil(t, sess.SelectedRecord)
	assert.Equal(t, "dashboard", sess.Page)
}

func TestService_LifecycleMemory(t *testing.T) {
	exerciseLifecycle(t, NewService(NewMemoryRepository(), time.Hour))
}

func TestService_LifecycleRedis(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	exerciseLifecycle(t, NewService(NewRedisRepository(client, ""), time.Hour))
}

func TestService_SessionsAreIndependent(t *testing.T) {
	svc := NewService(NewMemoryRepository(), time.Hour)
	ctx := context.Background()

	a, err := svc.Start(ctx)
	require.NoError(t, err)
	b, err := svc.Start(ctx)
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)

	_, err = svc.Authenticate(ctx, a.ID, &models.UserIdentity{Username: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, got.Authenticated)
}

func TestService_UnknownSession(t *testing.T) {
	svc := NewService(NewMemoryRepository(), time.Hour)

	_, err := svc.Navigate(context.Background(), "nope", "laporan")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_ExpiredSession(t *testing.T) {
	svc := NewService(NewMemoryRepository(), time.Millisecond)
	sess, err := svc.Start(context.Background())
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = svc.Get(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_ChangesRefreshExpiry(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	svc := NewService(NewRedisRepository(client, ""), 10*time.Second)
	ctx := context.Background()

	idle, err := svc.Start(ctx)
	require.NoError(t, err)
	active, err := svc.Start(ctx)
	require.NoError(t, err)

	m.FastForward(6 * time.Second)
	_, err = svc.Navigate(ctx, active.ID, "laporan")
	require.NoError(t, err)
	m.FastForward(6 * time.Second)

	_, err = svc.Get(ctx, idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	got, err := svc.Get(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, "laporan", got.Page)
}
