package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"receiptapi/docs"
	"receiptapi/internal/config"
	"receiptapi/internal/database"
	"receiptapi/internal/database/migration"
	handlers "receiptapi/internal/http/handler"
	"receiptapi/internal/http/middleware"
	"receiptapi/internal/model"
	"receiptapi/internal/otel"
	"receiptapi/internal/repository/postgres"
	"receiptapi/internal/service"
	"receiptapi/internal/storage"
)

const sessionPurgeInterval = 5 * time.Minute

// @title Receipt API
// @version 1.0
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("unknown timezone %q, using UTC", cfg.Timezone)
		loc = time.UTC
	}

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}
	uploadMetrics, err := service.NewUploadMetrics(reg)
	if err != nil {
		log.Fatalf("failed to register upload metrics: %v", err)
	}

	receiptSvc := service.NewReceiptService(
		objStore,
		postgres.NewReceiptPostgres(db),
		postgres.NewUploadSessionPostgres(db),
		service.Options{
			BaseURL: cfg.BaseURL,
			URLTTL:  time.Duration(cfg.Upload.URLTTLSec) * time.Second,
			Metrics: uploadMetrics,
			Events:  service.NewEventLogger(os.Stdout, loc),
		},
	)

	app := fiber.New(fiber.Config{
		// Image limit plus headroom for the multipart envelope.
		BodyLimit:    int(model.MaxUploadSizeBytes) + 1<<20,
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.LoggerWithWriter(os.Stdout, loc))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, db, receiptSvc, reg)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go purgeSessions(ctx, receiptSvc)

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// purgeSessions drops expired upload sessions until ctx is cancelled.
func purgeSessions(ctx context.Context, svc service.ReceiptService) {
	t := time.NewTicker(sessionPurgeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := svc.PurgeExpiredSessions(ctx); err != nil {
				log.Printf("purge upload sessions: %v", err)
			}
		}
	}
}
