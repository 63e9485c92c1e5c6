package tracking

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/valortpms/real-time-map-sub001/internal/feed"
	"github.com/valortpms/real-time-map-sub001/internal/ingest"
	"github.com/valortpms/real-time-map-sub001/internal/playback"
	"github.com/valortpms/real-time-map-sub001/internal/shared/geo"
	"github.com/valortpms/real-time-map-sub001/internal/timeline"
)

var ErrNoSamples = errors.New("device has no samples")

// Selection is the part of the selection set the service reads.
type Selection interface {
	Contains(deviceID string) bool
	IDs() []string
}

// Registry reports devices the feed has mentioned.
type Registry interface {
	Known(deviceID string) bool
}

// Replayer moves renderer markers to historical samples.
type Replayer interface {
	Replay(deviceID string, sample timeline.PositionSample)
}

type Service struct {
	pipeline  *ingest.Pipeline
	store     *timeline.Store
	clock     *playback.Clock
	selection Selection
	registry  Registry
	markers   Replayer
}

func NewService(pipeline *ingest.Pipeline, store *timeline.Store, clock *playback.Clock, selection Selection, registry Registry, markers Replayer) *Service {
	return &Service{
		pipeline:  pipeline,
		store:     store,
		clock:     clock,
		selection: selection,
		registry:  registry,
		markers:   markers,
	}
}

func (s *Service) Ingest(ctx context.Context, records []feed.RawRecord) IngestResult {
	ids := s.pipeline.ProcessBatch(ctx, records)
	return IngestResult{
		BatchID: uuid.NewString(),
		Devices: ids,
		Stats:   s.pipeline.Stats(),
	}
}

// Sample is the exact lookup for one device at one second.
func (s *Service) Sample(deviceID string, ts int64) timeline.Lookup {
	return s.pending(deviceID, s.store.Query(deviceID, ts))
}

func (s *Service) Nearest(deviceID string, ts int64) timeline.Lookup {
	return s.pending(deviceID, s.store.Nearest(deviceID, ts))
}

// pending upgrades NotFound for devices that are known but have no timeline.
func (s *Service) pending(deviceID string, l timeline.Lookup) timeline.Lookup {
	if l.Kind != timeline.NotFound || s.store.Has(deviceID) {
		return l
	}
	if s.registry != nil && s.registry.Known(deviceID) {
		return timeline.Lookup{Kind: timeline.Pending}
	}
	if s.selection != nil && s.selection.Contains(deviceID) {
		return timeline.Lookup{Kind: timeline.Pending}
	}
	return l
}

// Samples returns the device's samples with timestamps in [from, to].
func (s *Service) Samples(deviceID string, from, to int64) []timeline.PositionSample {
	samples := s.store.Range(deviceID, from, to)
	if samples == nil {
		return []timeline.PositionSample{}
	}
	return samples
}

func (s *Service) Summary(deviceID string) (Summary, error) {
	samples := s.store.Range(deviceID, math.MinInt64, math.MaxInt64)
	if len(samples) == 0 {
		return Summary{}, ErrNoSamples
	}

	summary := Summary{
		DeviceID:       deviceID,
		SampleCount:    len(samples),
		FirstTimestamp: samples[0].Timestamp,
		LastTimestamp:  samples[len(samples)-1].Timestamp,
	}
	for i, sample := range samples {
		summary.MaxSpeedKmh = math.Max(summary.MaxSpeedKmh, sample.Speed)
		if i == 0 {
			continue
		}
		prev := samples[i-1].LatLng
		summary.DistanceKm += geo.HaversineKm(prev.Lat, prev.Lng, sample.LatLng.Lat, sample.LatLng.Lng)
	}

	summary.DurationSec = summary.LastTimestamp - summary.FirstTimestamp
	if summary.DurationSec > 0 {
		summary.AverageSpeedKmh = summary.DistanceKm / (float64(summary.DurationSec) / 3600)
	}
	return summary, nil
}

// Replay moves every selected device's marker to its sample nearest the
// playback clock. Devices without any sample are reported as missing.
func (s *Service) Replay() ReplayResult {
	state := s.clock.Snapshot()
	result := ReplayResult{
		At:      state.CurrentTime,
		Display: playback.DisplayClockIn(state.MinuteOffset, state.DayStart, state.Location),
		Markers: []ReplayedMarker{},
		Missing: []string{},
	}
	if s.selection == nil {
		return result
	}

	for _, id := range s.selection.IDs() {
		l := s.store.Nearest(id, result.At)
		if l.Kind != timeline.Found {
			result.Missing = append(result.Missing, id)
			continue
		}
		if s.markers != nil {
			s.markers.Replay(id, l.Sample)
		}
		result.Markers = append(result.Markers, ReplayedMarker{DeviceID: id, Sample: l.Sample})
	}
	return result
}

// At returns the playback clock's absolute time.
func (s *Service) At() int64 {
	return s.clock.CurrentTime()
}
