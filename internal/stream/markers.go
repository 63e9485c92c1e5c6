package stream

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/valortpms/real-time-map-sub001/internal/timeline"
)

// MarkersTopic is the topic renderers subscribe to for marker requests.
const MarkersTopic = "markers"

const (
	ReasonFirstSeen = "first_seen"
	ReasonReplay    = "replay"
)

type MarkerRequest struct {
	ID          string                   `json:"id"`
	DeviceID    string                   `json:"device_id"`
	Reason      string                   `json:"reason"`
	Sample      *timeline.PositionSample `json:"sample,omitempty"`
	RequestedAt time.Time                `json:"requested_at"`
}

// MarkerPublisher turns marker requests into hub broadcasts.
type MarkerPublisher struct {
	hub   *Hub
	topic string
	now   func() time.Time
}

func NewMarkerPublisher(hub *Hub) *MarkerPublisher {
	return &MarkerPublisher{hub: hub, topic: MarkersTopic, now: time.Now}
}

// CreateOrUpdateMarker asks renderers to draw the initial marker for a
// device seen for the first time.
func (p *MarkerPublisher) CreateOrUpdateMarker(deviceID string) {
	p.publish(MarkerRequest{DeviceID: deviceID, Reason: ReasonFirstSeen})
}

// Replay asks renderers to move a device marker to a historical sample.
func (p *MarkerPublisher) Replay(deviceID string, sample timeline.PositionSample) {
	p.publish(MarkerRequest{DeviceID: deviceID, Reason: ReasonReplay, Sample: &sample})
}

func (p *MarkerPublisher) publish(req MarkerRequest) {
	req.ID = uuid.NewString()
	req.RequestedAt = p.now().UTC()
	payload, err := json.Marshal(req)
	if err != nil {
		log.Printf("marker request encode error: %v", err)
		return
	}
	p.hub.Broadcast(p.topic, payload)
}
