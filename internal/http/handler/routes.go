package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"receiptapi/internal/model"
	"receiptapi/internal/service"
)

// RegisterRoutes attaches the receipt API routes to the provided Fiber app.
// A nil gatherer leaves /metrics unregistered.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.ReceiptService, gatherer prometheus.Gatherer) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	if gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// Upload handshake: GET hands out a single-use URL, POST consumes it.
	app.Get(model.UploadPath, CreateUploadURL(svc))
	app.Post(model.UploadPath+"/:token", UploadReceipt(svc))
	app.Get(model.ServeImagePath, ServeImage(svc))

	app.Get("/receipts", ListReceipts(svc))
	app.Get("/receipts/:id", GetReceipt(svc))
	app.Delete("/receipts/:id", DeleteReceipt(svc))

	app.Get("/spending-analytics", SpendingAnalytics(svc))
}
