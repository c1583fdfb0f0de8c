package ports

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/voxgen/pkg/voxel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunFileSystemContract verifies a FileSystem implementation.
// The file system must contain exactly these files:
//
//	scripts/a.lua   -> "a"
//	scripts/b.lua   -> "b"
//	scripts/notes.txt
func RunFileSystemContract(t *testing.T, fsys FileSystem) {
	t.Run("Load", func(t *testing.T) {
		data, err := fsys.Load("scripts/a.lua")
		require.NoError(t, err)
		assert.Equal(t, "a", string(data))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := fsys.Load("scripts/missing.lua")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("List With Pattern", func(t *testing.T) {
		entries, err := fsys.List("scripts", "*.lua")
		require.NoError(t, err)
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name)
		}
		assert.Equal(t, []string{"a.lua", "b.lua"}, names)
	})

	t.Run("List Missing Dir", func(t *testing.T) {
		entries, err := fsys.List("nowhere", "*")
		assert.NoError(t, err)
		assert.Empty(t, entries)
	})
}

// RunLockerContract verifies mutual exclusion and release for a Locker implementation.
func RunLockerContract(t *testing.T, locker Locker) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("150405.000")

	t.Run("Lock and Unlock", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, time.Second)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))

		unlock, err = locker.Lock(ctx, key, time.Second)
		require.NoError(t, err, "lock must be reacquirable after release")
		require.NoError(t, unlock(ctx))
	})

	t.Run("Blocks While Held", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)

		waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(waitCtx, key, time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		require.NoError(t, unlock(ctx))
	})

	t.Run("Serializes Holders", func(t *testing.T) {
		var (
			mu      sync.Mutex
			inside  int
			maxSeen int
			wg      sync.WaitGroup
		)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := locker.Lock(ctx, key+"-serial", 5*time.Second)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()
				time.Sleep(20 * time.Millisecond)
				mu.Lock()
				inside--
				mu.Unlock()
				assert.NoError(t, unlock(ctx))
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, maxSeen)
	})
}

// RunVolumeStoreContract verifies a VolumeStore implementation.
func RunVolumeStoreContract(t *testing.T, store VolumeStore) {
	ctx := context.Background()
	id := "contract-" + time.Now().Format("20060102150405")

	t.Run("Put and Get", func(t *testing.T) {
		vol := voxel.NewRawVolume(voxel.Cube(2))
		vol.SetVoxel(1, 1, 1, voxel.New(voxel.Generic, 4))
		require.NoError(t, store.Put(ctx, id, vol))

		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, voxel.New(voxel.Generic, 4), got.Voxel(1, 1, 1))
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "missing-"+id)
		assert.ErrorIs(t, err, ErrVolumeNotFound)
	})

	t.Run("List", func(t *testing.T) {
		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, id))
		_, err := store.Get(ctx, id)
		assert.ErrorIs(t, err, ErrVolumeNotFound)
		assert.NoError(t, store.Delete(ctx, id), "double delete is not an error")
	})
}
