package tracking

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/valortpms/real-time-map-sub001/internal/feed"
	"github.com/valortpms/real-time-map-sub001/internal/timeline"
)

const contentTypeProtobuf = "application/x-protobuf"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/feed", authMiddleware, func(c *fiber.Ctx) error {
		var (
			records []feed.RawRecord
			err     error
		)
		if strings.HasPrefix(c.Get(fiber.HeaderContentType), contentTypeProtobuf) {
			records, err = feed.DecodeGTFSRT(c.Body())
		} else {
			records, err = feed.DecodeJSON(c.Body())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(svc.Ingest(c.Context(), records))
	})

	r.Get("/devices/:id/samples", func(c *fiber.Ctx) error {
		from, err := int64Query(c, "from", math.MinInt64)
		if err != nil {
			return err
		}
		to, err := int64Query(c, "to", math.MaxInt64)
		if err != nil {
			return err
		}
		return c.JSON(svc.Samples(c.Params("id"), from, to))
	})

	r.Get("/devices/:id/samples/:ts", func(c *fiber.Ctx) error {
		ts, err := strconv.ParseInt(c.Params("ts"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "timestamp must be epoch seconds")
		}
		return lookupResponse(c, c.Params("id"), svc.Sample(c.Params("id"), ts))
	})

	r.Get("/devices/:id/nearest", func(c *fiber.Ctx) error {
		at, err := int64Query(c, "at", svc.At())
		if err != nil {
			return err
		}
		return lookupResponse(c, c.Params("id"), svc.Nearest(c.Params("id"), at))
	})

	r.Get("/devices/:id/summary", func(c *fiber.Ctx) error {
		summary, err := svc.Summary(c.Params("id"))
		if errors.Is(err, ErrNoSamples) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(summary)
	})

	r.Post("/replay", authMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(svc.Replay())
	})
}

func lookupResponse(c *fiber.Ctx, deviceID string, l timeline.Lookup) error {
	res := SampleResult{DeviceID: deviceID, Status: l.Kind}
	status := fiber.StatusNotFound
	switch l.Kind {
	case timeline.Found:
		sample := l.Sample
		res.Sample = &sample
		status = fiber.StatusOK
	case timeline.Pending:
		status = fiber.StatusAccepted
	}
	return c.Status(status).JSON(res)
}

func int64Query(c *fiber.Ctx, key string, fallback int64) (int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, key+" must be epoch seconds")
	}
	return v, nil
}
