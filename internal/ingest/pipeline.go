// Package ingest turns feed batches into timeline writes and first-seen
// marker requests.
package ingest

import (
	"context"
	"log"
	"sync"

	"github.com/valortpms/real-time-map-sub001/internal/feed"
	"github.com/valortpms/real-time-map-sub001/internal/timeline"
)

// Selection reports whether a device is currently selected for display.
type Selection interface {
	Contains(deviceID string) bool
}

// MarkerRequester is the renderer side of the pipeline.
type MarkerRequester interface {
	CreateOrUpdateMarker(deviceID string)
}

// Observer is told about every device id seen in a batch, selected or not.
type Observer interface {
	Observe(ctx context.Context, deviceIDs []string) error
}

type Stats struct {
	Batches   int `json:"batches"`
	Records   int `json:"records"`
	Stored    int `json:"stored"`
	Filtered  int `json:"filtered"`
	Dropped   int `json:"dropped"`
	FirstSeen int `json:"first_seen"`
}

type Pipeline struct {
	mu        sync.Mutex
	store     *timeline.Store
	selection Selection
	markers   MarkerRequester
	observer  Observer
	stats     Stats
}

// NewPipeline wires a pipeline. A nil selection accepts every device; nil
// markers or observer are skipped.
func NewPipeline(store *timeline.Store, selection Selection, markers MarkerRequester, observer Observer) *Pipeline {
	return &Pipeline{
		store:     store,
		selection: selection,
		markers:   markers,
		observer:  observer,
	}
}

// ProcessBatch ingests one feed tick and returns the device id of every
// record that carried one, in feed order, whether or not it was stored.
// Malformed records are dropped individually.
func (p *Pipeline) ProcessBatch(ctx context.Context, records []feed.RawRecord) []string {
	ids := p.apply(records)

	// the observer may do I/O; it runs outside the write lock
	if p.observer != nil && len(ids) > 0 {
		if err := p.observer.Observe(ctx, distinct(ids)); err != nil {
			log.Printf("device registry observe error: %v", err)
		}
	}
	return ids
}

func (p *Pipeline) apply(records []feed.RawRecord) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.Batches++
	p.stats.Records += len(records)

	ids := make([]string, 0, len(records))
	for i, rec := range records {
		deviceID := rec.DeviceID()
		if deviceID != "" {
			ids = append(ids, deviceID)
		}

		if p.selection != nil && deviceID != "" && !p.selection.Contains(deviceID) {
			p.stats.Filtered++
			continue
		}

		parsed, err := rec.Parse()
		if err != nil {
			p.stats.Dropped++
			log.Printf("feed record dropped: entry %d device %q: %v", i, deviceID, err)
			continue
		}

		first, err := p.store.Ingest(parsed.DeviceID, parsed.Timestamp, parsed.Sample)
		if err != nil {
			p.stats.Dropped++
			log.Printf("feed record dropped: entry %d device %q: %v", i, deviceID, err)
			continue
		}
		p.stats.Stored++

		if first {
			p.stats.FirstSeen++
			if p.markers != nil {
				p.markers.CreateOrUpdateMarker(parsed.DeviceID)
			}
		}
	}
	return ids
}

func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
