package ports

import (
	"context"
	"errors"
)

// ErrNotFound is returned by FileSystem.Load when the path does not exist.
var ErrNotFound = errors.New("file not found")

// DirEntry is a single result of FileSystem.List.
type DirEntry struct {
	Name  string `json:"name"`
	IsDir bool   `json:"is_dir"`
}

// FileSystem defines how scripts and palette resources are read.
// This allows the storage layer (OS directory, memory) to be decoupled from the generator.
type FileSystem interface {
	// Load returns the full contents of the file at path.
	// Paths are slash-separated and relative to the file system root.
	Load(path string) ([]byte, error)

	// List returns the entries of dir whose names match the glob pattern (path.Match syntax).
	// An empty dir means the root.
	List(dir, pattern string) ([]DirEntry, error)
}

// Watchable defines an interface for file systems that can notify about changes.
// This is used for palette hot-swap in long-running servers.
type Watchable interface {
	// Watch returns a channel that receives the slash-separated path of every changed file.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
