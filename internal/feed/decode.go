package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

var ErrEmptyFeed = errors.New("empty feed body")

const metersPerSecondToKmh = 3.6

type envelope struct {
	Data []json.RawMessage `json:"data"`
}

// DecodeJSON accepts either a bare array of records or {"data": [...]}.
// Entries that do not decode are logged and skipped so one bad entry cannot
// sink the batch.
func DecodeJSON(body []byte) ([]RawRecord, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrEmptyFeed
	}

	var items []json.RawMessage
	if body[0] == '[' {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode feed: %w", err)
		}
	} else {
		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("decode feed: %w", err)
		}
		items = env.Data
	}

	records := make([]RawRecord, 0, len(items))
	for i, item := range items {
		var rec RawRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			log.Printf("feed record dropped: entry %d: %v", i, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// DecodeGTFSRT converts the VehiclePosition entities of a GTFS-Realtime feed
// message. Entities without a position keep NaN coordinates so validation
// drops them while their vehicle id is still reported.
func DecodeGTFSRT(body []byte) ([]RawRecord, error) {
	if len(body) == 0 {
		return nil, ErrEmptyFeed
	}
	var fm gtfs.FeedMessage
	if err := proto.Unmarshal(body, &fm); err != nil {
		return nil, fmt.Errorf("decode gtfs-rt: %w", err)
	}

	headerTS := fm.GetHeader().GetTimestamp()
	records := make([]RawRecord, 0, len(fm.Entity))
	for _, e := range fm.Entity {
		vp := e.GetVehicle()
		if vp == nil {
			continue
		}
		rec := RawRecord{
			ID:        e.GetId(),
			Device:    Device{ID: vp.GetVehicle().GetId()},
			Latitude:  math.NaN(),
			Longitude: math.NaN(),
		}

		ts := headerTS
		if vp.Timestamp != nil {
			ts = vp.GetTimestamp()
		}
		if ts > 0 {
			rec.DateTime = time.Unix(int64(ts), 0).UTC().Format(time.RFC3339)
		}

		if pos := vp.GetPosition(); pos != nil {
			rec.Latitude = float64(pos.GetLatitude())
			rec.Longitude = float64(pos.GetLongitude())
			if pos.Speed != nil {
				rec.Speed = float64(pos.GetSpeed()) * metersPerSecondToKmh
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
