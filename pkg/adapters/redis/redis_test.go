package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/voxgen/pkg/adapters/redis"
	"github.com/aretw0/voxgen/pkg/ports"
	"github.com/aretw0/voxgen/pkg/voxel"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunVolumeStoreContract(t, redis.NewFromClient(client))
}

func TestRedisLocker_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunLockerContract(t, redis.NewLocker(client, "test:"))
}

func TestRedisLocker_LockUnlock(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "vol1", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:vol1"), "lock key should be set")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:vol1"), "lock key should be removed after unlock")
}

func TestRedisLocker_StaleUnlockKeepsNewHolder(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "vol1", time.Second)
	require.NoError(t, err)

	// The first holder's lock expires and someone else takes it.
	mr.FastForward(2 * time.Second)
	second, err := locker.Lock(ctx, "vol1", 5*time.Second)
	require.NoError(t, err)

	require.NoError(t, unlock(ctx))
	assert.True(t, mr.Exists("test:lock:vol1"), "stale unlock must not release the new holder")
	require.NoError(t, second(ctx))
}

func TestRedisStore_TTLExpiration(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second), redis.WithPrefix("t:"))
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "temp", voxel.NewRawVolume(voxel.Cube(1))))
	assert.True(t, mr.Exists("t:volume:temp"))

	mr.FastForward(2 * time.Second)
	_, err := store.Get(ctx, "temp")
	assert.ErrorIs(t, err, ports.ErrVolumeNotFound)
}

func TestRedisStore_RoundTripsVoxels(t *testing.T) {
	_, client := setup(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	vol := voxel.NewRawVolume(voxel.MustRegion(-1, -1, -1, 1, 1, 1))
	vol.SetVoxel(-1, 0, 1, voxel.New(voxel.Generic, 200))
	require.NoError(t, store.Put(ctx, "v", vol))

	got, err := store.Get(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, vol.Region(), got.Region())
	assert.Equal(t, vol.Cells(), got.Cells())
}
