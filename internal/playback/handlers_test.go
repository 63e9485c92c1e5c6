package playback

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func newPlaybackApp(clock *Clock) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app.Group("/playback"), clock, Track{WidthPixels: 1440, EdgeOverflowPixels: 20}, func(c *fiber.Ctx) error { return c.Next() })
	return app
}

func TestPlaybackMapRoute(t *testing.T) {
	clock := NewClock(time.UTC, time.Unix(0, 0))
	app := newPlaybackApp(clock)

	req := httptest.NewRequest(http.MethodGet, "/playback/map?minute=5.6", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("map status: %v", err)
	}

	var m Mapping
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.AbsoluteTime != 300 || m.MinuteOfDay != 5 {
		t.Fatalf("unexpected time mapping: %+v", m)
	}
	if m.Display != "12:05 AM" || m.HourLabel != "1 AM" {
		t.Fatalf("unexpected labels: %+v", m)
	}
	if m.PixelsPerMinute != 1 || m.LeftOffset != 14 {
		t.Fatalf("unexpected pixels: %+v", m)
	}
}

func TestPlaybackMapRouteClampsAndOverrides(t *testing.T) {
	app := newPlaybackApp(NewClock(time.UTC, time.Unix(0, 0)))

	req := httptest.NewRequest(http.MethodGet, "/playback/map?minute=99999&width=720&overflow=10", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("map status: %v", err)
	}
	var m Mapping
	_ = json.NewDecoder(resp.Body).Decode(&m)
	if m.MinuteOffset != MinutesInDay || m.LeftOffset != -10 {
		t.Fatalf("unexpected mapping: %+v", m)
	}
}

func TestPlaybackMapRouteBadQuery(t *testing.T) {
	app := newPlaybackApp(NewClock(time.UTC, time.Unix(0, 0)))

	for _, q := range []string{"minute=abc", "width=x", "overflow=?"} {
		req := httptest.NewRequest(http.MethodGet, "/playback/map?"+q, nil)
		resp, err := app.Test(req)
		if err != nil || resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected bad request for %s", q)
		}
	}
}

func TestPlaybackClockRoutes(t *testing.T) {
	clock := NewClock(time.UTC, time.Unix(0, 0))
	app := newPlaybackApp(clock)

	body, _ := json.Marshal(map[string]any{"date": "2024-06-01", "timezone": "UTC", "minute_offset": 90})
	req := httptest.NewRequest(http.MethodPut, "/playback/clock", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("put clock status: %v", err)
	}

	want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).Unix()
	if clock.DayStart() != want || clock.MinuteOffset() != 90 {
		t.Fatalf("clock not updated: %+v", clock.Snapshot())
	}

	req = httptest.NewRequest(http.MethodGet, "/playback/clock", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("get clock status: %v", err)
	}
	var state ClockState
	_ = json.NewDecoder(resp.Body).Decode(&state)
	if state.CurrentTime != want+90*60 {
		t.Fatalf("unexpected current time %d", state.CurrentTime)
	}

	body, _ = json.Marshal(map[string]any{"day_start": 86400})
	req = httptest.NewRequest(http.MethodPut, "/playback/clock", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("put day start status: %v", err)
	}
	if clock.DayStart() != 86400 {
		t.Fatalf("expected explicit day start")
	}
}

func TestPlaybackClockTimezoneOnlyKeepsDate(t *testing.T) {
	clock := NewClock(time.UTC, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	app := newPlaybackApp(clock)

	body, _ := json.Marshal(map[string]any{"timezone": "America/New_York"})
	req := httptest.NewRequest(http.MethodPut, "/playback/clock", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("put timezone status: %v", err)
	}

	ny, _ := time.LoadLocation("America/New_York")
	want := time.Date(2024, 6, 1, 0, 0, 0, 0, ny).Unix()
	if clock.DayStart() != want {
		t.Fatalf("expected 2024-06-01 midnight in New York, got %s", time.Unix(clock.DayStart(), 0).In(ny))
	}
	if clock.Location().String() != "America/New_York" {
		t.Fatalf("unexpected location %s", clock.Location())
	}

	// and back east again
	body, _ = json.Marshal(map[string]any{"timezone": "Asia/Tokyo"})
	req = httptest.NewRequest(http.MethodPut, "/playback/clock", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if _, err := app.Test(req); err != nil {
		t.Fatalf("put timezone: %v", err)
	}
	tokyo, _ := time.LoadLocation("Asia/Tokyo")
	if y, m, d := time.Unix(clock.DayStart(), 0).In(tokyo).Date(); y != 2024 || m != time.June || d != 1 {
		t.Fatalf("expected 2024-06-01 in Tokyo, got %d-%d-%d", y, m, d)
	}
}

func TestPlaybackClockBadRequests(t *testing.T) {
	app := newPlaybackApp(NewClock(time.UTC, time.Unix(0, 0)))

	for _, body := range []string{"{", `{"timezone":"Mars/Olympus"}`, `{"date":"01/06/2024"}`} {
		req := httptest.NewRequest(http.MethodPut, "/playback/clock", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil || resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected bad request for %s", body)
		}
	}
}
