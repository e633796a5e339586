package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// UploadMetrics counts upload attempts by outcome. A nil *UploadMetrics records nothing.
type UploadMetrics struct {
	uploads *prometheus.CounterVec
}

// NewUploadMetrics registers the upload counter with reg.
func NewUploadMetrics(reg prometheus.Registerer) (*UploadMetrics, error) {
	m := &UploadMetrics{
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "receipt_uploads_total",
				Help: "Receipt upload attempts by result.",
			},
			[]string{"result"},
		),
	}
	if err := reg.Register(m.uploads); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *UploadMetrics) observe(err error) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(uploadResult(err)).Inc()
}

func uploadResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrUploadURLInvalid):
		return "invalid_url"
	case errors.Is(err, ErrNoValidJPEG):
		return "invalid_file"
	case errors.Is(err, ErrFileTooLarge):
		return "too_large"
	case errors.Is(err, ErrInvalidPrice):
		return "invalid_price"
	default:
		return "error"
	}
}
