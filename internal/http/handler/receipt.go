package handler

import (
	"context"
	"database/sql"
	"errors"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"receiptapi/internal/model"
	"receiptapi/internal/service"
)

// HealthCheck reports healthy only when the database answers a ping.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db == nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a dependency-free liveness check.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// CreateUploadURL answers with the bare upload URL as text, which is what the form reads.
// @Summary Issue a single-use upload URL
// @Tags upload
// @Produce plain
// @Success 200 {string} string "upload URL"
// @Router /upload-receipt [get]
func CreateUploadURL(svc service.ReceiptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.CreateUploadURL(c.UserContext())
		if err != nil {
			return writeText(c, fiber.StatusInternalServerError, msgInternal)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(u)
	}
}

// UploadReceipt accepts the multipart form (label, receipt-image, optional store and price).
// Errors are plain text so the form can show them as-is.
//
// @Summary Upload a receipt image
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param token path string true "Upload token"
// @Param label formData string false "Receipt label"
// @Param store formData string false "Store name"
// @Param price formData string false "Price as typed"
// @Param receipt-image formData file true "JPEG image, at most 5 MB"
// @Success 200 {object} model.Receipt
// @Failure 400 {string} string
// @Failure 410 {string} string
// @Failure 413 {string} string
// @Router /upload-receipt/{token} [post]
func UploadReceipt(svc service.ReceiptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := service.UploadInput{
			Label: c.FormValue(model.FieldLabel),
			Store: c.FormValue(model.FieldStore),
			Price: c.FormValue(model.FieldPrice),
		}

		var f multipart.File
		if fh, err := c.FormFile(model.FieldImage); err == nil {
			f, err = fh.Open()
			if err != nil {
				return writeText(c, fiber.StatusBadRequest, msgNoValidJPEG)
			}
			defer f.Close()

			in.Filename = fh.Filename
			in.Size = fh.Size
			in.ContentType = fh.Header.Get(fiber.HeaderContentType)
			in.Body = f
		}

		rec, err := svc.Upload(c.UserContext(), c.Params("token"), in)
		if err != nil {
			status, msg := uploadError(err)
			return writeText(c, status, msg)
		}
		return c.Status(fiber.StatusOK).JSON(rec)
	}
}

// ServeImage streams a stored receipt image addressed by its blob key.
func ServeImage(svc service.ReceiptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Query("blob-key")
		rc, info, err := svc.OpenImage(c.UserContext(), key)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrBlobKeyRequired):
				return writeError(c, fiber.StatusBadRequest, "BLOB_KEY_REQUIRED", "blob-key is required")
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "image not found")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		ct := info.ContentType
		if ct == "" {
			ct = model.ContentTypeJPEG
		}
		c.Set(fiber.HeaderContentType, ct)
		// fasthttp closes rc once the body has been written.
		return c.SendStream(rc, int(info.Size))
	}
}

// ListReceipts returns a page of receipts using limit & offset query parameters.
// @Summary List receipts
// @Tags receipts
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.ReceiptListResult
// @Router /receipts [get]
func ListReceipts(svc service.ReceiptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetReceipt returns a receipt by ID.
// @Summary Get a receipt
// @Tags receipts
// @Produce json
// @Param id path string true "Receipt ID"
// @Success 200 {object} service.ReceiptDetail
// @Failure 404 {object} handler.errorPayload
// @Router /receipts/{id} [get]
func GetReceipt(svc service.ReceiptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rec, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "receipt not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(rec)
	}
}

// DeleteReceipt removes a receipt and its image.
// @Summary Delete a receipt
// @Tags receipts
// @Param id path string true "Receipt ID"
// @Success 204
// @Router /receipts/{id} [delete]
func DeleteReceipt(svc service.ReceiptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "receipt not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type spendingAnalyticsResponse struct {
	StoreAnalytics map[string]float64 `json:"storeAnalytics"`
}

// SpendingAnalytics returns the total spent per store.
// @Summary Spending per store
// @Tags analytics
// @Produce json
// @Router /spending-analytics [get]
func SpendingAnalytics(svc service.ReceiptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		totals, err := svc.SpendingByStore(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		if totals == nil {
			totals = map[string]float64{}
		}
		return c.JSON(spendingAnalyticsResponse{StoreAnalytics: totals})
	}
}
