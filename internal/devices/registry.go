// Package devices records every device id the feed has ever reported.
package devices

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/valortpms/real-time-map-sub001/internal/db"
)

type Device struct {
	ID        string    `json:"id"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// Registry keeps known devices in memory and, when a database is configured,
// upserts them into known_devices.
type Registry struct {
	db  db.Querier
	now func() time.Time

	mu   sync.RWMutex
	seen map[string]Device
}

func NewRegistry(db db.Querier) *Registry {
	return &Registry{
		db:   db,
		now:  time.Now,
		seen: map[string]Device{},
	}
}

func (r *Registry) Observe(ctx context.Context, deviceIDs []string) error {
	now := r.now().UTC()

	r.mu.Lock()
	for _, id := range deviceIDs {
		d, ok := r.seen[id]
		if !ok {
			d = Device{ID: id, FirstSeen: now}
		}
		d.LastSeen = now
		r.seen[id] = d
	}
	r.mu.Unlock()

	if r.db == nil || len(deviceIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO known_devices (id, first_seen, last_seen)
		SELECT unnest($1::text[]), $2, $2
		ON CONFLICT (id) DO UPDATE SET last_seen = EXCLUDED.last_seen
	`, deviceIDs, now)
	return err
}

// Known reports whether the feed has mentioned deviceID in this process.
func (r *Registry) Known(deviceID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.seen[deviceID]
	return ok
}

func (r *Registry) List(ctx context.Context) ([]Device, error) {
	if r.db == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		out := make([]Device, 0, len(r.seen))
		for _, d := range r.seen {
			out = append(out, d)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out, nil
	}

	rows, err := r.db.Query(ctx, `SELECT id, first_seen, last_seen FROM known_devices ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Device{}
	for rows.Next() {
		var d Device
		if err := rows.Scan(&d.ID, &d.FirstSeen, &d.LastSeen); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
