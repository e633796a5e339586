package model

// Domain constants shared by the upload form controller and the receipt API.
const (
	MaxUploadSizeBytes = int64(5 * 1024 * 1024) // 5 MB

	// Multipart field names of the receipt upload form.
	FieldLabel = "label"
	FieldImage = "receipt-image"
	FieldStore = "store"
	FieldPrice = "price"

	UploadPath       = "/upload-receipt"
	ServeImagePath   = "/serve-image"
	ContentTypeJPEG  = "image/jpeg"
	DefaultURLTTLSec = 600
)
