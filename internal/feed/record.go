// Package feed decodes vehicle telemetry feeds into raw records and turns
// raw records into timeline samples.
package feed

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/valortpms/real-time-map-sub001/internal/timeline"
)

var (
	ErrMissingDeviceID = errors.New("missing device id")
	ErrInvalidDateTime = errors.New("invalid dateTime")
	ErrInvalidPosition = errors.New("invalid position")
)

type Device struct {
	ID string `json:"id" validate:"required"`
}

// RawRecord is one feed entry as delivered by the host platform.
type RawRecord struct {
	DateTime  string  `json:"dateTime" validate:"required"`
	Device    Device  `json:"device"`
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude" validate:"finite,gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"finite,gte=-180,lte=180"`
	Speed     float64 `json:"speed"`
}

// Parsed is a validated record ready for the timeline.
type Parsed struct {
	DeviceID  string
	Timestamp int64
	Sample    timeline.PositionSample
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

// DeviceID is the trimmed device identifier, empty if absent.
func (r RawRecord) DeviceID() string {
	return strings.TrimSpace(r.Device.ID)
}

func (r RawRecord) Validate() error {
	if r.DeviceID() == "" {
		return ErrMissingDeviceID
	}
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fe := fieldErrs[0]
	switch fe.StructField() {
	case "DateTime":
		return fmt.Errorf("%w: %s", ErrInvalidDateTime, fe.Tag())
	case "Latitude", "Longitude":
		return fmt.Errorf("%w: %s failed %s", ErrInvalidPosition, strings.ToLower(fe.StructField()), fe.Tag())
	default:
		return fmt.Errorf("%s: %w", fe.StructNamespace(), err)
	}
}

// Parse validates r and truncates its timestamp to whole seconds. A negative
// or non-finite speed is treated as absent.
func (r RawRecord) Parse() (Parsed, error) {
	if err := r.Validate(); err != nil {
		return Parsed{}, err
	}
	at, err := parseDateTime(strings.TrimSpace(r.DateTime))
	if err != nil {
		return Parsed{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, r.DateTime)
	}

	speed := r.Speed
	if math.IsNaN(speed) || math.IsInf(speed, 0) || speed < 0 {
		speed = 0
	}

	ts := at.Unix()
	return Parsed{
		DeviceID:  r.DeviceID(),
		Timestamp: ts,
		Sample: timeline.PositionSample{
			Timestamp: ts,
			LatLng:    timeline.LatLng{Lat: r.Latitude, Lng: r.Longitude},
			Speed:     speed,
		},
	}, nil
}

// dateTimeLayouts are tried in order. Fractional seconds are accepted by
// all of them; a value without an offset is read as UTC.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
}

func parseDateTime(v string) (time.Time, error) {
	var err error
	for _, layout := range dateTimeLayouts {
		var at time.Time
		if at, err = time.Parse(layout, v); err == nil {
			return at, nil
		}
	}
	return time.Time{}, err
}
