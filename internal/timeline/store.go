// Package timeline keeps one ordered, deduplicated series of position samples
// per device.
package timeline

import (
	"errors"
	"slices"
	"sort"
	"sync"
)

var ErrEmptyDeviceID = errors.New("device id required")

type deviceTimeline struct {
	samples map[int64]PositionSample
	// ascending, exactly the keys of samples
	order []int64
}

func newDeviceTimeline() *deviceTimeline {
	return &deviceTimeline{samples: map[int64]PositionSample{}}
}

// insert adds ts to the ordered index and reports whether it was new.
func (d *deviceTimeline) insert(ts int64) bool {
	i, exists := slices.BinarySearch(d.order, ts)
	if exists {
		return false
	}
	d.order = slices.Insert(d.order, i, ts)
	return true
}

func (d *deviceTimeline) nearest(ts int64) (int64, bool) {
	n := len(d.order)
	if n == 0 {
		return 0, false
	}
	i := sort.Search(n, func(i int) bool { return d.order[i] >= ts })
	switch {
	case i == 0:
		return d.order[0], true
	case i == n:
		return d.order[n-1], true
	}
	before, after := d.order[i-1], d.order[i]
	if after-ts < ts-before {
		return after, true
	}
	return before, true
}

// Store holds every device timeline. Writes are serialized internally.
type Store struct {
	mu      sync.RWMutex
	devices map[string]*deviceTimeline
}

func NewStore() *Store {
	return &Store{devices: map[string]*deviceTimeline{}}
}

// Ingest stores sample under timestamp for deviceID and reports whether this
// was the first sample ever stored for the device. A repeated timestamp
// replaces the stored value without adding a second index entry.
func (s *Store) Ingest(deviceID string, timestamp int64, sample PositionSample) (bool, error) {
	if deviceID == "" {
		return false, ErrEmptyDeviceID
	}
	sample.Timestamp = timestamp

	s.mu.Lock()
	defer s.mu.Unlock()

	tl, ok := s.devices[deviceID]
	if !ok {
		tl = newDeviceTimeline()
		s.devices[deviceID] = tl
	}
	tl.insert(timestamp)
	tl.samples[timestamp] = sample
	return !ok, nil
}

// Query is an exact-timestamp lookup.
func (s *Store) Query(deviceID string, timestamp int64) Lookup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tl, ok := s.devices[deviceID]
	if !ok {
		return Lookup{Kind: NotFound}
	}
	sample, ok := tl.samples[timestamp]
	if !ok {
		return Lookup{Kind: NotFound}
	}
	return found(sample)
}

// Nearest returns the sample closest in time to timestamp. Equidistant
// neighbours resolve to the earlier sample.
func (s *Store) Nearest(deviceID string, timestamp int64) Lookup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tl, ok := s.devices[deviceID]
	if !ok {
		return Lookup{Kind: NotFound}
	}
	ts, ok := tl.nearest(timestamp)
	if !ok {
		return Lookup{Kind: NotFound}
	}
	return found(tl.samples[ts])
}

// Timestamps returns a copy of the device's ordered index.
func (s *Store) Timestamps(deviceID string) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tl, ok := s.devices[deviceID]
	if !ok {
		return nil
	}
	return slices.Clone(tl.order)
}

// Range returns the samples with from <= timestamp <= to in ascending order.
func (s *Store) Range(deviceID string, from, to int64) []PositionSample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tl, ok := s.devices[deviceID]
	if !ok || from > to {
		return nil
	}
	start, _ := slices.BinarySearch(tl.order, from)
	var out []PositionSample
	for _, ts := range tl.order[start:] {
		if ts > to {
			break
		}
		out = append(out, tl.samples[ts])
	}
	return out
}

func (s *Store) Len(deviceID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if tl, ok := s.devices[deviceID]; ok {
		return len(tl.order)
	}
	return 0
}

func (s *Store) Has(deviceID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.devices[deviceID]
	return ok
}

// Devices lists every device with a timeline, sorted.
func (s *Store) Devices() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.devices))
	for id := range s.devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reset drops every timeline. The next sample for any device counts as its
// first again.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices = map[string]*deviceTimeline{}
}
