package memory

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/voxgen/pkg/ports"
)

// FileSystem implements ports.FileSystem over a map of slash-separated paths.
// Safe for concurrent use.
type FileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewFileSystem creates a file system holding the given files.
func NewFileSystem(files map[string]string) *FileSystem {
	fsys := &FileSystem{files: make(map[string][]byte, len(files))}
	for name, content := range files {
		fsys.files[path.Clean(name)] = []byte(content)
	}
	return fsys
}

// Write adds or replaces a file.
func (f *FileSystem) Write(name string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path.Clean(name)] = append([]byte(nil), data...)
}

// Load returns a copy of the file content.
func (f *FileSystem) Load(name string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	data, ok := f.files[path.Clean(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrNotFound, name)
	}
	return append([]byte(nil), data...), nil
}

// List returns the direct children of dir whose names match pattern, sorted by name.
func (f *FileSystem) List(dir, pattern string) ([]ports.DirEntry, error) {
	dir = path.Clean(dir)
	f.mu.RLock()
	defer f.mu.RUnlock()

	seen := make(map[string]bool)
	var out []ports.DirEntry
	for name := range f.files {
		rel := name
		if dir != "." {
			if !strings.HasPrefix(name, dir+"/") {
				continue
			}
			rel = strings.TrimPrefix(name, dir+"/")
		}
		child, rest, nested := strings.Cut(rel, "/")
		if seen[child] {
			continue
		}
		ok, err := path.Match(pattern, child)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if !ok {
			continue
		}
		seen[child] = true
		out = append(out, ports.DirEntry{Name: child, IsDir: nested && rest != ""})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
