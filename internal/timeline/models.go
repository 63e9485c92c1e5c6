package timeline

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PositionSample is one stored vehicle position. Timestamp is in whole epoch
// seconds and Speed in km/h.
type PositionSample struct {
	Timestamp int64   `json:"timestamp"`
	LatLng    LatLng  `json:"lat_lng"`
	Speed     float64 `json:"speed"`
}

type Kind int

const (
	NotFound Kind = iota
	Found
	Pending
)

func (k Kind) String() string {
	switch k {
	case Found:
		return "found"
	case Pending:
		return "pending"
	default:
		return "not_found"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Lookup is the result of a timeline query. Sample is only meaningful when
// Kind is Found.
type Lookup struct {
	Kind   Kind
	Sample PositionSample
}

func found(s PositionSample) Lookup {
	return Lookup{Kind: Found, Sample: s}
}
