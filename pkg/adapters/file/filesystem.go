package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/voxgen/pkg/ports"
	"github.com/fsnotify/fsnotify"
)

// FileSystem implements ports.FileSystem and ports.Watchable over a directory on disk.
type FileSystem struct {
	Root string
}

// NewFileSystem creates a FileSystem rooted at root. An empty root is the working directory.
func NewFileSystem(root string) *FileSystem {
	if root == "" {
		root = "."
	}
	return &FileSystem{Root: root}
}

func (f *FileSystem) resolve(name string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(name, `\`, "/"))
	if clean == "/" && name != "" && name != "." {
		return "", fmt.Errorf("invalid path %q", name)
	}
	return filepath.Join(f.Root, filepath.FromSlash(clean)), nil
}

// Load reads a file relative to Root. Paths cannot escape Root.
func (f *FileSystem) Load(name string) ([]byte, error) {
	p, err := f.resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ports.ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// List returns the entries of dir matching pattern, sorted by name. A missing dir is empty.
func (f *FileSystem) List(dir, pattern string) ([]ports.DirEntry, error) {
	p, err := f.resolve(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []ports.DirEntry{}, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	out := make([]ports.DirEntry, 0, len(entries))
	for _, e := range entries {
		if pattern != "" {
			ok, err := path.Match(pattern, e.Name())
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, ports.DirEntry{Name: e.Name(), IsDir: e.IsDir()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Watch reports writes, creations and renames of files directly under Root.
func (f *FileSystem) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(f.Root); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", f.Root, err)
	}
	// fsnotify is not recursive; scripts/ and other first-level directories are added explicitly
	if entries, err := os.ReadDir(f.Root); err == nil {
		for _, e := range entries {
			if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			if err := watcher.Add(filepath.Join(f.Root, e.Name())); err != nil {
				_ = watcher.Close()
				return nil, fmt.Errorf("failed to watch %s: %w", e.Name(), err)
			}
		}
	}

	ch := make(chan string)
	go func() {
		defer close(ch)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				rel, err := filepath.Rel(f.Root, event.Name)
				if err != nil {
					continue
				}
				select {
				case ch <- filepath.ToSlash(rel):
				case <-ctx.Done():
					return
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return ch, nil
}
