package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/youssef9656/server/pkg/config"
	"github.com/youssef9656/server/pkg/errx"
	"github.com/youssef9656/server/pkg/logx"
	"github.com/youssef9656/server/pkg/ratelimit"
)

type queueStats interface {
	Stats(ctx context.Context) (map[string]any, error)
}

func main() {
	// 1. Configuration and logger
	cfg := config.Load()
	logx.Configure(os.Stdout, cfg.LogJSON)
	logx.SetLevel(logx.ParseLevel(cfg.LogLevel))
	logx.Infof("Starting candidatures API (%s)...", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Dependency container
	container := NewContainer(ctx, cfg)
	defer container.Close(context.Background())

	// 3. Fiber app
	app := fiber.New(fiber.Config{
		AppName:               "Candidatures API",
		DisableStartupMessage: true,
		BodyLimit:             int(2 * cfg.Files.MaxUpload),
		ErrorHandler:          newErrorHandler(cfg.IsProduction()),
	})

	// 4. Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// 5. Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{"status": "ok", "store": cfg.Store.Driver}
		if container.DB != nil {
			status["db"] = container.DB.PingContext(c.Context()) == nil
		}
		if container.Mongo != nil {
			status["db"] = container.Mongo.Ping(c.Context(), nil) == nil
		}
		if container.Redis != nil {
			status["redis"] = container.Redis.Ping(c.Context()).Err() == nil
		}
		if q, ok := container.Queue.(queueStats); ok {
			if stats, err := q.Stats(c.Context()); err == nil {
				status["queue"] = stats
			}
		}
		return c.JSON(status)
	})

	// 6. Routes
	limit := func(scope string) fiber.Handler {
		return ratelimit.Middleware(container.Limiter, scope, cfg.Limits.Requests, cfg.Limits.Window)
	}

	// /api/auth/*
	container.AuthHandlers.RegisterRoutes(app, container.AuthMiddleware, limit("auth"))

	// /api/candidature/templates and /envoyer-message before /api/candidature/:id
	container.NotificationHandlers.RegisterRoutes(app, container.AuthMiddleware)
	container.CandidacyHandlers.RegisterRoutes(app, container.AuthMiddleware, limit("candidature"))

	// /api/cv/:filename
	container.ResumeHandlers.RegisterRoutes(app, container.AuthMiddleware)

	// /api/contact, /api/contacts, /api/reply, /api/send-email
	container.ContactHandlers.RegisterRoutes(app, container.AuthMiddleware, limit("contact"))

	// 7. Background mail delivery
	container.MailWorker.Start(ctx)

	// 8. Start server with graceful shutdown
	go func() {
		logx.Infof("Server listening on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	logx.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("Server exited")
}

// newErrorHandler converts internal errors to standard HTTP responses. In
// production details and causes are stripped.
func newErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"success": false,
				"error":   fe.Message,
				"code":    fe.Code,
			})
		}

		if e, ok := errx.AsError(err); ok {
			if e.HTTPStatus >= fiber.StatusInternalServerError {
				logx.WithFields(logx.Fields{"path": c.Path(), "code": e.Code}).Errorf("request failed: %v", err)
			}
			if production {
				e = e.Redacted()
			}
			return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
		}

		logx.Errorf("Internal Server Error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Internal Server Error",
			"type":    "INTERNAL",
			"code":    "INTERNAL_ERROR",
			"message": "An unexpected error occurred",
		})
	}
}
