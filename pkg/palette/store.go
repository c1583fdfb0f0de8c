package palette

import "sync"

// Store holds the active palette for the process.
// Runs hold it through Acquire so a Swap never lands in the middle of a run.
type Store struct {
	mu      sync.RWMutex
	current *Palette
}

// NewStore creates a store with p active. A nil p activates Default().
func NewStore(p *Palette) *Store {
	if p == nil {
		p = Default()
	}
	return &Store{current: p}
}

// Current returns the active palette without holding it.
func (s *Store) Current() *Palette {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Acquire returns the active palette and a release func. Swap blocks until every holder releases.
// Release is idempotent.
func (s *Store) Acquire() (*Palette, func()) {
	s.mu.RLock()
	return s.current, sync.OnceFunc(s.mu.RUnlock)
}

// Swap replaces the active palette once no run holds it and returns the previous one.
func (s *Store) Swap(p *Palette) *Palette {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.current
	s.current = p
	return prev
}
