package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/voxgen/pkg/adapters/file"
	"github.com/aretw0/voxgen/pkg/ports"
	"github.com/aretw0/voxgen/pkg/voxel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

func TestFileSystem_Contract(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "scripts/a.lua", "a")
	writeFile(t, root, "scripts/b.lua", "b")
	writeFile(t, root, "scripts/notes.txt", "notes")

	ports.RunFileSystemContract(t, file.NewFileSystem(root))
}

func TestFileSystem_CannotEscapeRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "root")
	writeFile(t, parent, "secret.txt", "secret")
	writeFile(t, root, "inside.txt", "inside")

	fsys := file.NewFileSystem(root)
	_, err := fsys.Load("../secret.txt")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	data, err := fsys.Load("./inside.txt")
	require.NoError(t, err)
	assert.Equal(t, "inside", string(data))
}

func TestFileSystem_ListDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "scripts/sub/x.lua", "x")
	writeFile(t, root, "scripts/top.lua", "top")

	entries, err := file.NewFileSystem(root).List("scripts", "")
	require.NoError(t, err)
	assert.Equal(t, []ports.DirEntry{{Name: "sub", IsDir: true}, {Name: "top.lua"}}, entries)
}

func TestFileSystem_Watch(t *testing.T) {
	root := t.TempDir()
	fsys := file.NewFileSystem(root)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := fsys.Watch(ctx)
	require.NoError(t, err)

	writeFile(t, root, "palette-test.png", "data")

	select {
	case name := <-ch:
		assert.Equal(t, "palette-test.png", name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	for range ch {
	}
}

func TestFileSystem_WatchScriptsDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "scripts/tower.lua", "-- v1")
	fsys := file.NewFileSystem(root)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := fsys.Watch(ctx)
	require.NoError(t, err)

	writeFile(t, root, "scripts/tower.lua", "-- v2")

	select {
	case name := <-ch:
		assert.Equal(t, "scripts/tower.lua", name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestStore_Contract(t *testing.T) {
	ports.RunVolumeStoreContract(t, file.NewStore(t.TempDir()))
}

func TestStore_InvalidID(t *testing.T) {
	store := file.NewStore(t.TempDir())
	err := store.Put(context.Background(), "../escape", voxel.NewRawVolume(voxel.Cube(1)))
	assert.Error(t, err)
}
