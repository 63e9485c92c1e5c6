// Package selection holds the set of devices the user has chosen to display.
package selection

import (
	"sort"
	"sync"
)

// Set is the read-only view the ingestion pipeline consumes.
type Set interface {
	Contains(deviceID string) bool
}

type MemorySet struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func NewMemorySet(ids ...string) *MemorySet {
	s := &MemorySet{ids: map[string]struct{}{}}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s *MemorySet) Contains(deviceID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[deviceID]
	return ok
}

func (s *MemorySet) Select(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[deviceID] = struct{}{}
}

func (s *MemorySet) Deselect(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, deviceID)
}

// Replace swaps the whole selection at once.
func (s *MemorySet) Replace(ids []string) {
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	s.mu.Lock()
	s.ids = next
	s.mu.Unlock()
}

// IDs returns the selected ids, sorted.
func (s *MemorySet) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
