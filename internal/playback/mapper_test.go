package playback

import (
	"math"
	"testing"
	"time"
)

func TestAbsoluteTimeTruncates(t *testing.T) {
	for _, dayStart := range []int64{0, 1700000000, -86400} {
		if got := AbsoluteTime(125.9, dayStart); got != dayStart+125*60 {
			t.Fatalf("dayStart %d: expected %d, got %d", dayStart, dayStart+125*60, got)
		}
	}
	if got := AbsoluteTime(0.99, 100); got != 100 {
		t.Fatalf("expected fractional first minute to stay at day start, got %d", got)
	}
}

func TestMinuteOfDay(t *testing.T) {
	if got := MinuteOfDay(3599, 0); got != 59 {
		t.Fatalf("expected 59, got %d", got)
	}
	if got := MinuteOfDay(1000+90*60, 1000); got != 90 {
		t.Fatalf("expected 90, got %d", got)
	}
	if got := MinuteOfDay(-60, 0); got != -1 {
		t.Fatalf("expected exact negative minute, got %d", got)
	}
	if got := MinuteOfDay(math.MaxInt64, math.MaxInt64-61); got != 1 {
		t.Fatalf("expected exact result near int64 limits, got %d", got)
	}
	if got := MinuteOfDay(-1, 0); got != -1 {
		t.Fatalf("expected floor toward -inf, got %d", got)
	}
}

func TestDisplayClock(t *testing.T) {
	cases := []struct {
		minute float64
		want   string
	}{
		{90, "1:30 AM"},
		{0, "12:00 AM"},
		{720, "12:00 PM"},
		{1439, "11:59 PM"},
		{605.7, "10:05 AM"},
	}
	for _, tc := range cases {
		if got := DisplayClock(tc.minute, 0); got != tc.want {
			t.Fatalf("minute %v: expected %q, got %q", tc.minute, tc.want, got)
		}
	}
}

func TestDisplayClockIn(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	dayStart := DayStart(time.Date(2024, 3, 10, 15, 0, 0, 0, loc), loc)
	if got := DisplayClockIn(90, dayStart, loc); got != "1:30 AM" {
		t.Fatalf("expected local clock, got %q", got)
	}
	if got := DisplayClockIn(90, 0, nil); got != "1:30 AM" {
		t.Fatalf("expected utc fallback, got %q", got)
	}
}

func TestHourLabel(t *testing.T) {
	cases := []struct {
		minute float64
		want   string
	}{
		{0, "12 AM"},
		{180, "3 AM"},
		{181, "4 AM"},
		{719, "12 AM"},
		{720, "12 PM"},
		{1080, "6 PM"},
		{1439, "12 PM"},
	}
	for _, tc := range cases {
		if got := HourLabel(tc.minute); got != tc.want {
			t.Fatalf("minute %v: expected %q, got %q", tc.minute, tc.want, got)
		}
	}
}

func TestPixelsPerMinute(t *testing.T) {
	if got := PixelsPerMinute(1440); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
	if got := PixelsPerMinute(720); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}

func TestClampedLeftOffset(t *testing.T) {
	ppm := PixelsPerMinute(1440)

	if got := ClampedLeftOffset(20, 5, ppm); got != 15 {
		t.Fatalf("expected 15 near start, got %d", got)
	}
	if got := ClampedLeftOffset(-20, 5, ppm); got != 15 {
		t.Fatalf("expected overflow sign to be ignored, got %d", got)
	}
	if got := ClampedLeftOffset(20, 720, ppm); got != 0 {
		t.Fatalf("expected 0 mid track, got %d", got)
	}
	if got := ClampedLeftOffset(20, 1438, ppm); got != -19 {
		t.Fatalf("expected -19 near end, got %d", got)
	}
	if got := ClampedLeftOffset(20, 20, ppm); got != 0 {
		t.Fatalf("expected 0 at the start boundary, got %d", got)
	}
	if got := ClampedLeftOffset(20, 1419, ppm); got != 0 {
		t.Fatalf("expected 0 at the end boundary, got %d", got)
	}
	if got := ClampedLeftOffset(20, 5, 0); got != 0 {
		t.Fatalf("expected 0 for degenerate track, got %d", got)
	}
}

func TestClampedLeftOffsetScaled(t *testing.T) {
	ppm := PixelsPerMinute(720)
	// overflow 10px at 0.5px/min is 20 minutes
	if got := ClampedLeftOffset(10, 0, ppm); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	if got := ClampedLeftOffset(10, 1439, ppm); got != -10 {
		t.Fatalf("expected -10, got %d", got)
	}
}

func TestClampMinute(t *testing.T) {
	if ClampMinute(-3) != 0 || ClampMinute(2000) != MinutesInDay || ClampMinute(12.5) != 12.5 {
		t.Fatalf("unexpected clamp results")
	}
}
