package playback

import (
	"sync"
	"time"
)

// ClockState is a by-value snapshot of a Clock.
type ClockState struct {
	DayStart     int64   `json:"day_start"`
	MinuteOffset float64 `json:"minute_offset"`
	Timezone     string  `json:"timezone"`
	CurrentTime  int64   `json:"current_time"`

	Location *time.Location `json:"-"`
}

// Clock holds the day under playback and the scrubber position. The minute
// offset is always kept within [0, MinutesInDay].
type Clock struct {
	mu           sync.RWMutex
	dayStart     int64
	minuteOffset float64
	loc          *time.Location
}

// DayStart returns the epoch seconds of local midnight of t's day in loc.
func DayStart(t time.Time, loc *time.Location) int64 {
	if loc == nil {
		loc = time.UTC
	}
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc).Unix()
}

// NewClock starts a clock on now's day in loc with the scrubber at now.
func NewClock(loc *time.Location, now time.Time) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	dayStart := DayStart(now, loc)
	return &Clock{
		dayStart:     dayStart,
		minuteOffset: ClampMinute(float64(MinuteOfDay(now.Unix(), dayStart))),
		loc:          loc,
	}
}

func (c *Clock) DayStart() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dayStart
}

func (c *Clock) SetDayStart(dayStart int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dayStart = dayStart
}

// SetDay moves the clock to t's day in loc, keeping the scrubber position.
func (c *Clock) SetDay(t time.Time, loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loc = loc
	c.dayStart = DayStart(t, loc)
}

// SetLocation switches the timezone and keeps the calendar day under
// playback, re-anchoring dayStart to that day's midnight in loc.
func (c *Clock) SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	y, m, d := time.Unix(c.dayStart, 0).In(c.loc).Date()
	c.loc = loc
	c.dayStart = time.Date(y, m, d, 0, 0, 0, 0, loc).Unix()
}

func (c *Clock) MinuteOffset() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.minuteOffset
}

// SetMinuteOffset clamps minute to the track and stores it.
func (c *Clock) SetMinuteOffset(minute float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.minuteOffset = ClampMinute(minute)
}

func (c *Clock) Location() *time.Location {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loc
}

// CurrentTime is the absolute epoch second the scrubber points at.
func (c *Clock) CurrentTime() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return AbsoluteTime(c.minuteOffset, c.dayStart)
}

func (c *Clock) Snapshot() ClockState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ClockState{
		DayStart:     c.dayStart,
		MinuteOffset: c.minuteOffset,
		Timezone:     c.loc.String(),
		CurrentTime:  AbsoluteTime(c.minuteOffset, c.dayStart),
		Location:     c.loc,
	}
}
