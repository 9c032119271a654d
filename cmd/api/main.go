package main

import (
	"context"
	"errors"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"wiki-echo/internal/config"
	"wiki-echo/internal/domain"
	"wiki-echo/internal/handler"
	"wiki-echo/internal/job"
	"wiki-echo/internal/middleware"
	"wiki-echo/internal/pkg/cron"
	"wiki-echo/internal/pkg/i18n"
	"wiki-echo/internal/pkg/kafka"
	"wiki-echo/internal/pkg/logger"
	"wiki-echo/internal/repository"
	"wiki-echo/internal/service"
	"wiki-echo/internal/service/auth"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Environment)
	if envErr != nil {
		log.Info("No .env file found, using environment variables")
	}

	if err := run(cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("App exited with error", "err", err)
		os.Exit(1)
	}
	log.Info("App exited successfully.")
}

func run(cfg *config.Config) error {
	primary, err := config.NewDatabase(cfg)
	if err != nil {
		return err
	}
	defer primary.Close()

	replica, err := config.NewReplicaDB(cfg, primary)
	if err != nil {
		return err
	}
	if replica != primary {
		defer replica.Close()
	}

	if err := repository.Migrate(context.Background(), primary); err != nil {
		return err
	}

	repos, err := repository.NewBackend(cfg.Backend, repository.NewDBFactory(primary, replica))
	if err != nil {
		return err
	}

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Redis unavailable, unread counts will not be cached", "err", err)
	} else {
		defer redis.Close()
	}

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Warn("MinIO unavailable, email icons will not be served", "err", err)
	}

	registry, err := config.LoadRegistry(cfg.RegistryPath)
	if err != nil {
		return err
	}
	if err := i18n.LoadTranslations(cfg.LocalePath); err != nil {
		return err
	}

	services := service.NewServices(repos, registry, redis, minioClient, cfg)
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.Trace())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + middleware.TraceIDHeader,
		AllowMethods: "GET, POST, PUT, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	cronMgr := cron.NewCronManager(cfg.DigestCron, job.NewDigestJob(repos, services.Factory, services.Email))
	if err := cron.InitCron(cronMgr); err != nil {
		return err
	}
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Cron Jobs stopping...")
		cronMgr.Stop()
		return nil
	})

	if cfg.KafkaEnabled {
		consumers, err := kafka.NewConsumerManager(cfg, services.Notification)
		if err != nil {
			return err
		}
		consumers.Start(ctx)
		g.Go(func() error {
			<-ctx.Done()
			log.Info("Kafka Consumers stopping...")
			return consumers.Close()
		})
	}

	g.Go(func() error {
		log.Info("HTTP Server starting...", "port", cfg.Port)
		return app.Listen(":" + cfg.Port)
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-quit:
			log.Info("Received signal, shutting down...", "signal", sig)
			cancel()
		}

		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.Error("HTTP Server shutdown failed", "err", err)
		}
		if err := services.Deleter.Flush(context.Background()); err != nil {
			log.Error("failed to flush pending event deletions", "err", err)
		}
		return nil
	})

	return g.Wait()
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1", middleware.AuthRequired(authService))

	v1.Get("/me", h.User.GetProfile)

	notifications := v1.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Post("/mark-read", h.Notification.MarkRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllRead)

	preferences := v1.Group("/preferences")
	preferences.Get("/", h.Preference.Get)
	preferences.Put("/", h.Preference.Update)

	events := v1.Group("/events", middleware.RequireGroup(domain.GroupBot))
	events.Post("/", h.Event.Create)
	events.Get("/:id", h.Event.Get)

	users := v1.Group("/users", middleware.RequireGroup(domain.GroupBot))
	users.Get("/:id", h.User.Get)
	users.Put("/:id", h.User.Sync)

	icons := v1.Group("/icons", middleware.RequireGroup(domain.GroupSysop))
	icons.Put("/:name", h.Icon.Upload)
}
