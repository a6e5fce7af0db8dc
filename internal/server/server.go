package server

import (
	"time"

	"backend-trailhub/internal/analytics"
	"backend-trailhub/internal/auth"
	"backend-trailhub/internal/catalog"
	"backend-trailhub/internal/config"
	"backend-trailhub/internal/logger"
	"backend-trailhub/internal/metrics"
	"backend-trailhub/internal/pin"
	"backend-trailhub/internal/post"
	"backend-trailhub/internal/rating"
	"backend-trailhub/internal/shared/httpx"
	"backend-trailhub/internal/store"
	"backend-trailhub/internal/upload"
	"backend-trailhub/internal/user"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	App       *fiber.App
	Cfg       config.Config
	Store     *store.Store
	Redis     *redis.Client
	Log       *zap.Logger
	Analytics *analytics.Service
}

func NewServer(cfg config.Config, st *store.Store, redisClient *redis.Client, log *zap.Logger) *Server {
	log = logger.OrNop(log)
	if st == nil {
		st = store.NewMemory()
	}

	app := fiber.New(fiber.Config{
		AppName:      "trailhub",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: httpx.ErrorHandler(log),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))
	app.Use(requestLogger(log))

	s := &Server{
		App:   app,
		Cfg:   cfg,
		Store: st,
		Redis: redisClient,
		Log:   log,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	admin := auth.AdminOnly(s.Cfg.JWTSecret, s.Cfg.AdminAuth)
	participant := auth.ParticipantWrites(s.Cfg.JWTSecret, s.Cfg.ParticipantAuth)
	cache := catalog.NewCache(s.Redis, s.Cfg.CatalogCacheTTL, s.Log)
	s.Analytics = analytics.NewService(s.Store, s.Redis, s.Log)

	api := s.App.Group("/api")
	pin.RegisterRoutes(api.Group("/pins", participant), pin.NewService(s.Store, cache, s.Analytics, s.Log), admin)
	user.RegisterRoutes(api.Group("/users", participant), user.NewService(s.Store), admin)
	post.RegisterRoutes(api.Group("/posts", participant), post.NewService(s.Store), admin)
	rating.RegisterRoutes(api.Group("/ratings", participant), rating.NewService(s.Store, s.Log), admin)
	analytics.RegisterRoutes(api, s.Analytics, admin)
	upload.RegisterRoutes(api.Group("/uploads", participant), upload.NewService(s.Cfg.UploadBaseURL, s.Analytics))
	auth.RegisterRoutes(api.Group("/admin"), auth.NewService(s.Cfg.JWTSecret, s.Cfg.AdminPasswordHash))
}

// requestLogger logs each request with zap and records the prometheus
// request metrics under the matched route pattern.
func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// let the error handler set the final status before recording
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		elapsed := time.Since(start)
		route := c.Route().Path
		metrics.RecordAPIRequest(c.Method(), route, status, elapsed)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
			zap.String("ip", c.IP()),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("request", fields...)
		case status >= fiber.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
		return nil
	}
}
