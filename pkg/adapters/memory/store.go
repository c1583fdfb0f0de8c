package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/voxgen/pkg/ports"
	"github.com/aretw0/voxgen/pkg/voxel"
)

// Store implements ports.VolumeStore in memory.
// Volumes are copied on the way in and out. Safe for concurrent use.
type Store struct {
	data map[string]*voxel.RawVolume
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*voxel.RawVolume),
	}
}

func (s *Store) Put(ctx context.Context, id string, vol *voxel.RawVolume) error {
	copied := vol.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = copied
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*voxel.RawVolume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vol, ok := s.data[id]
	if !ok {
		return nil, ports.ErrVolumeNotFound
	}
	return vol.Clone(), nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored ids in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
