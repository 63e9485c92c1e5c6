// Package playback converts between the scrubber's minute offset, absolute
// epoch time, clock strings and pixel positions on the playback track.
package playback

import (
	"fmt"
	"math"
	"time"
)

const (
	// MinutesInDay is the index of the last minute on the track. Slider
	// positions run from 0 to MinutesInDay inclusive.
	MinutesInDay = 1439

	minutesPerHalfDay = 720
	hoursPerDay       = 24
	minutesPerHour    = 60
)

// MinuteOfDay returns the whole minutes elapsed between dayStart and epochSeconds.
func MinuteOfDay(epochSeconds, dayStart int64) int64 {
	d := epochSeconds - dayStart
	m := d / 60
	if d%60 < 0 {
		m--
	}
	return m
}

// AbsoluteTime truncates minuteOffset toward zero and converts it to epoch
// seconds relative to dayStart.
func AbsoluteTime(minuteOffset float64, dayStart int64) int64 {
	return dayStart + int64(math.Trunc(minuteOffset))*60
}

// DisplayClock formats AbsoluteTime as "h:mm AM" in UTC.
func DisplayClock(minuteOffset float64, dayStart int64) string {
	return DisplayClockIn(minuteOffset, dayStart, time.UTC)
}

// DisplayClockIn is DisplayClock rendered in loc.
func DisplayClockIn(minuteOffset float64, dayStart int64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(AbsoluteTime(minuteOffset, dayStart), 0).In(loc).Format("3:04 PM")
}

// HourLabel returns the coarse tick label for the hour axis, e.g. "3 PM".
func HourLabel(minuteOffset float64) string {
	meridiem := "AM"
	if minuteOffset >= minutesPerHalfDay {
		meridiem = "PM"
	}
	hour := int(math.Ceil(minuteOffset / minutesPerHalfDay * 12))
	if hour > 12 {
		hour -= 12
	}
	if hour <= 0 {
		hour = 12
	}
	return fmt.Sprintf("%d %s", hour, meridiem)
}

// PixelsPerMinute is the horizontal scale of a track trackWidth pixels wide.
func PixelsPerMinute(trackWidth float64) float64 {
	return trackWidth / hoursPerDay / minutesPerHour
}

// ClampedLeftOffset returns the correction in pixels that keeps a handle
// overflowing the track by edgeOverflow pixels fully on-screen. It is
// positive near the start of the track, negative near the end and zero in
// between.
func ClampedLeftOffset(edgeOverflow, currentMinute, pixelsPerMinute float64) int {
	if pixelsPerMinute <= 0 {
		return 0
	}
	overflowMinutes := roundHalfUp(math.Abs(edgeOverflow) / pixelsPerMinute)

	switch {
	case currentMinute <= overflowMinutes:
		return int(roundHalfUp((overflowMinutes - currentMinute) * pixelsPerMinute))
	case currentMinute >= MinutesInDay-overflowMinutes:
		return int(roundHalfUp((MinutesInDay - overflowMinutes - currentMinute) * pixelsPerMinute))
	default:
		return 0
	}
}

// ClampMinute bounds a raw slider value to [0, MinutesInDay]. The mapper
// functions do not clamp; callers do.
func ClampMinute(minute float64) float64 {
	if math.IsNaN(minute) || minute < 0 {
		return 0
	}
	if minute > MinutesInDay {
		return MinutesInDay
	}
	return minute
}

// halves round toward +Inf
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
