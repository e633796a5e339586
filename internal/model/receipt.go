package model

import "time"

// Receipt represents an uploaded receipt image and the information recorded about it.
// This is a pure domain model with no database-specific dependencies or tags.
type Receipt struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Store       string    `json:"store,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	ImageURL    string    `json:"image_url"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// UploadSession backs a single-use upload URL handed out by GET /upload-receipt.
type UploadSession struct {
	Token     string     `json:"token"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}
