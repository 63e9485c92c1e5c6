package playback

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Track describes the rendered scrubber: its width and how far the drag
// handle overhangs either edge.
type Track struct {
	WidthPixels        float64
	EdgeOverflowPixels float64
}

type Mapping struct {
	MinuteOffset    float64 `json:"minute_offset"`
	AbsoluteTime    int64   `json:"absolute_time"`
	MinuteOfDay     int64   `json:"minute_of_day"`
	Display         string  `json:"display"`
	HourLabel       string  `json:"hour_label"`
	PixelsPerMinute float64 `json:"pixels_per_minute"`
	LeftOffset      int     `json:"left_offset"`
}

type ClockUpdate struct {
	DayStart     *int64   `json:"day_start"`
	Date         string   `json:"date"`
	Timezone     string   `json:"timezone"`
	MinuteOffset *float64 `json:"minute_offset"`
}

// Map computes everything the slider needs to draw minute on the given day.
func Map(minute float64, dayStart int64, loc *time.Location, track Track) Mapping {
	ppm := PixelsPerMinute(track.WidthPixels)
	abs := AbsoluteTime(minute, dayStart)
	return Mapping{
		MinuteOffset:    minute,
		AbsoluteTime:    abs,
		MinuteOfDay:     MinuteOfDay(abs, dayStart),
		Display:         DisplayClockIn(minute, dayStart, loc),
		HourLabel:       HourLabel(minute),
		PixelsPerMinute: ppm,
		LeftOffset:      ClampedLeftOffset(track.EdgeOverflowPixels, minute, ppm),
	}
}

func RegisterRoutes(r fiber.Router, clock *Clock, track Track, authMiddleware fiber.Handler) {
	r.Get("/clock", func(c *fiber.Ctx) error {
		return c.JSON(clock.Snapshot())
	})

	r.Put("/clock", authMiddleware, func(c *fiber.Ctx) error {
		var req ClockUpdate
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := clock.Location()
		if req.Timezone != "" {
			tz, err := time.LoadLocation(req.Timezone)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "unknown timezone "+req.Timezone)
			}
			loc = tz
		}

		switch {
		case req.Date != "":
			day, err := time.ParseInLocation(time.DateOnly, req.Date, loc)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
			}
			clock.SetDay(day, loc)
		case req.DayStart != nil:
			clock.SetDayStart(*req.DayStart)
		case req.Timezone != "":
			clock.SetLocation(loc)
		}

		if req.MinuteOffset != nil {
			clock.SetMinuteOffset(*req.MinuteOffset)
		}
		return c.JSON(clock.Snapshot())
	})

	r.Get("/map", func(c *fiber.Ctx) error {
		state := clock.Snapshot()
		minute, err := floatQuery(c, "minute", state.MinuteOffset)
		if err != nil {
			return err
		}
		width, err := floatQuery(c, "width", track.WidthPixels)
		if err != nil {
			return err
		}
		overflow, err := floatQuery(c, "overflow", track.EdgeOverflowPixels)
		if err != nil {
			return err
		}

		return c.JSON(Map(ClampMinute(minute), state.DayStart, state.Location, Track{
			WidthPixels:        width,
			EdgeOverflowPixels: overflow,
		}))
	})
}

func floatQuery(c *fiber.Ctx, key string, fallback float64) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, key+" must be a number")
	}
	return v, nil
}
