package server

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/valortpms/real-time-map-sub001/internal/auth"
	"github.com/valortpms/real-time-map-sub001/internal/config"
	"github.com/valortpms/real-time-map-sub001/internal/db"
	"github.com/valortpms/real-time-map-sub001/internal/devices"
	"github.com/valortpms/real-time-map-sub001/internal/ingest"
	"github.com/valortpms/real-time-map-sub001/internal/playback"
	"github.com/valortpms/real-time-map-sub001/internal/selection"
	"github.com/valortpms/real-time-map-sub001/internal/stream"
	"github.com/valortpms/real-time-map-sub001/internal/timeline"
	"github.com/valortpms/real-time-map-sub001/internal/tracking"
)

const selectionSyncTimeout = 5 * time.Second

type Server struct {
	App       *fiber.App
	Cfg       config.Config
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Stream    *stream.Hub
	Store     *timeline.Store
	Clock     *playback.Clock
	Selection *selection.Service
	Registry  *devices.Registry
	Pipeline  *ingest.Pipeline
	Tracking  *tracking.Service
}

func NewServer(cfg config.Config, pg *pgxpool.Pool, redisClient *redis.Client) *Server {
	return newServer(cfg, pg, db.FromPool(pg), redisClient)
}

func newServer(cfg config.Config, pg *pgxpool.Pool, querier db.Querier, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	hub := stream.NewHub(redisClient)
	store := timeline.NewStore()
	clock := playback.NewClock(cfg.Location(), time.Now())

	var repo *selection.Repository
	if querier != nil {
		repo = selection.NewRepository(querier)
	}
	sel := selection.NewService(selection.NewMemorySet(), repo)
	registry := devices.NewRegistry(querier)
	markers := stream.NewMarkerPublisher(hub)
	pipeline := ingest.NewPipeline(store, sel.Set(), markers, registry)

	s := &Server{
		App:       app,
		Cfg:       cfg,
		DB:        pg,
		Redis:     redisClient,
		Stream:    hub,
		Store:     store,
		Clock:     clock,
		Selection: sel,
		Registry:  registry,
		Pipeline:  pipeline,
		Tracking:  tracking.NewService(pipeline, store, clock, sel.Set(), registry, markers),
	}

	s.syncSelection()
	registerRoutes(s)
	return s
}

func (s *Server) syncSelection() {
	var seeds []string
	if s.Cfg.SelectionFile != "" {
		ids, err := selection.LoadFile(s.Cfg.SelectionFile)
		if err != nil {
			log.Printf("selection seed file: %v", err)
		}
		seeds = ids
	}

	ctx, cancel := context.WithTimeout(context.Background(), selectionSyncTimeout)
	defer cancel()
	if err := s.Selection.Sync(ctx, seeds); err != nil {
		log.Printf("selection sync failed, selection stays in memory: %v", err)
		set := s.Selection.Set()
		set.Replace(seeds)
		s.Selection = selection.NewService(set, nil)
	}
}

// Close stops the stream relay.
func (s *Server) Close() {
	s.Stream.Close()
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"devices":   len(s.Store.Devices()),
			"ingest":    s.Pipeline.Stats(),
			"postgres":  s.DB != nil,
			"redis":     s.Redis != nil,
			"timezone":  s.Clock.Location().String(),
			"selection": len(s.Selection.IDs()),
		})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	track := playback.Track{
		WidthPixels:        s.Cfg.TrackWidthPx,
		EdgeOverflowPixels: s.Cfg.EdgeOverflowPx,
	}

	tracking.RegisterRoutes(s.App.Group("/tracking"), s.Tracking, jwtMiddleware)
	playback.RegisterRoutes(s.App.Group("/playback"), s.Clock, track, jwtMiddleware)
	selection.RegisterRoutes(s.App.Group("/selection"), s.Selection, jwtMiddleware)
	devices.RegisterRoutes(s.App.Group("/devices"), s.Registry)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
