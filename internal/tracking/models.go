package tracking

import (
	"github.com/valortpms/real-time-map-sub001/internal/ingest"
	"github.com/valortpms/real-time-map-sub001/internal/timeline"
)

type IngestResult struct {
	BatchID string       `json:"batch_id"`
	Devices []string     `json:"devices"`
	Stats   ingest.Stats `json:"stats"`
}

type SampleResult struct {
	DeviceID string                   `json:"device_id"`
	Status   timeline.Kind            `json:"status"`
	Sample   *timeline.PositionSample `json:"sample,omitempty"`
}

type Summary struct {
	DeviceID        string  `json:"device_id"`
	SampleCount     int     `json:"sample_count"`
	DistanceKm      float64 `json:"distance_km"`
	DurationSec     int64   `json:"duration_sec"`
	AverageSpeedKmh float64 `json:"average_speed_kmh"`
	MaxSpeedKmh     float64 `json:"max_speed_kmh"`
	FirstTimestamp  int64   `json:"first_timestamp"`
	LastTimestamp   int64   `json:"last_timestamp"`
}

type ReplayedMarker struct {
	DeviceID string                  `json:"device_id"`
	Sample   timeline.PositionSample `json:"sample"`
}

type ReplayResult struct {
	At      int64            `json:"at"`
	Display string           `json:"display"`
	Markers []ReplayedMarker `json:"markers"`
	Missing []string         `json:"missing"`
}
