package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"page-insights-dashboard/internal/config"
	"page-insights-dashboard/internal/dashboard/adapters/graph"
	dashboardHttp "page-insights-dashboard/internal/dashboard/adapters/http/fiber"
	"page-insights-dashboard/internal/dashboard/adapters/memory"
	"page-insights-dashboard/internal/dashboard/core/usecase"
	"page-insights-dashboard/internal/logging"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "page-insights-dashboard/docs"
)

func main() {
	// Config
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		bootLogger := logging.New("info", "json")
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	// Graph client shared by all sessions
	graphClient := graph.NewClient(graph.Config{
		AppID:             cfg.Facebook.AppID,
		AppSecret:         cfg.Facebook.AppSecret,
		RedirectURL:       cfg.Facebook.RedirectURL,
		Scopes:            cfg.Facebook.Scopes,
		BaseURL:           cfg.Facebook.GraphURL,
		DialogURL:         cfg.Facebook.DialogURL,
		Version:           cfg.Facebook.Version,
		Timeout:           cfg.Facebook.Timeout,
		RequestsPerSecond: cfg.Facebook.RPS,
		Burst:             cfg.Facebook.Burst,
	}, logger)

	// One dashboard controller per browser session
	registry := memory.NewRegistry(func() *usecase.Controller {
		return usecase.NewController(graphClient.NewSession(), logger)
	}, cfg.Session.TTL, logger)

	sessions := session.New(session.Config{
		Expiration:     cfg.Session.TTL,
		KeyGenerator:   uuid.NewString,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Session.CookieSecure,
		CookieSameSite: "Lax",
	})

	// HTTP (Fiber) app + handlers
	app := fiber.New(fiber.Config{
		AppName:     "page-insights-dashboard",
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logging.Middleware(logger))
	if cfg.HTTP.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{AllowOrigins: strings.TrimSpace(cfg.HTTP.AllowOrigins)}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})
	app.Static("/static", "./static")

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// dashboard endpoints
	api := dashboardHttp.NewAPIHandler(logger)
	api.RegisterPublic(app.Group("/api/v1"))

	web := app.Group("", dashboardHttp.SessionMiddleware(sessions, func(id string) dashboardHttp.Dashboard {
		return registry.Get(id)
	}))
	dashboardHttp.NewWebHandler(logger).Register(web)
	api.Register(web.Group("/api/v1"))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go registry.Run(ctx, time.Minute)

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.HTTP.Addr); err != nil {
			logger.Error().Err(err).Msg("fiber stopped")
		}
	}()

	logger.Info().Str("addr", cfg.HTTP.Addr).Str("graph_version", cfg.Facebook.Version).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	logger.Info().Msg("shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("fiber shutdown error")
	}

	logger.Info().Msg("server exiting")
}
