package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"receiptapi/internal/http/middleware"
	"receiptapi/internal/service"
)

// Plain-text bodies for the upload endpoints. The upload form shows them to
// the user verbatim, so they are full sentences.
const (
	msgUploadURLInvalid = "Upload URL is invalid or has expired."
	msgNoValidJPEG      = "No valid JPEG file uploaded."
	msgFileTooLarge     = "The selected file exceeds the maximum file size of 5 MB."
	msgInvalidPrice     = "Invalid price."
	msgInternal         = "Internal server error."
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(middleware.RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

// writeText writes a plain-text error for the upload handshake endpoints.
func writeText(c *fiber.Ctx, status int, message string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(status).SendString(message)
}

// uploadError maps a service upload error onto a status and user-facing message.
func uploadError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrUploadURLInvalid):
		return fiber.StatusGone, msgUploadURLInvalid
	case errors.Is(err, service.ErrNoValidJPEG):
		return fiber.StatusBadRequest, msgNoValidJPEG
	case errors.Is(err, service.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge, msgFileTooLarge
	case errors.Is(err, service.ErrInvalidPrice):
		return fiber.StatusBadRequest, msgInvalidPrice
	default:
		return fiber.StatusInternalServerError, msgInternal
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeText(c, status, msgFileTooLarge)
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
