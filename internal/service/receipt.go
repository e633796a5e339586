package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"receiptapi/internal/model"
	"receiptapi/internal/price"
	"receiptapi/internal/repository"
	"receiptapi/internal/storage"
)

var (
	ErrIDRequired       = errors.New("id is required")
	ErrNotFound         = errors.New("receipt not found")
	ErrUploadURLInvalid = errors.New("upload url is invalid or has expired")
	ErrNoValidJPEG      = errors.New("no valid jpeg file uploaded")
	ErrFileTooLarge     = errors.New("file exceeds the maximum upload size")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrBlobKeyRequired  = errors.New("blob key is required")
)

// validFilename matches JPEG image filenames without whitespace.
var validFilename = regexp.MustCompile(`^\S+\.(?i:jpe?g)$`)

// DownloadURLExpiry bounds the presigned link returned with a single receipt.
const DownloadURLExpiry = 15 * time.Minute

var tracer = otel.Tracer("receiptapi/internal/service")

// ReceiptListResult is the service-level DTO for paginated receipts.
type ReceiptListResult struct {
	Items []model.Receipt `json:"data"`
	Total int             `json:"total"`
}

// ReceiptDetail is a receipt plus a time-limited direct link to its image.
type ReceiptDetail struct {
	model.Receipt
	DownloadURL string `json:"download_url,omitempty"`
}

// UploadInput is the decoded multipart form posted to an upload URL.
type UploadInput struct {
	Label       string
	Store       string
	Price       string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ReceiptService defines the receipt use cases behind the HTTP API.
type ReceiptService interface {
	// CreateUploadURL issues an absolute, single-use URL the form posts its image to.
	CreateUploadURL(ctx context.Context) (string, error)

	// Upload consumes the token, validates the image, stores it and records the receipt.
	// The stored object is deleted again when the receipt row cannot be saved.
	Upload(ctx context.Context, token string, in UploadInput) (*model.Receipt, error)

	// List returns receipts using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*ReceiptListResult, error)

	// Get returns a single receipt with a presigned image link.
	Get(ctx context.Context, id string) (*ReceiptDetail, error)

	// Delete removes a receipt from storage and the repository.
	Delete(ctx context.Context, id string) error

	// OpenImage streams the stored image under the given blob key.
	OpenImage(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error)

	// SpendingByStore totals receipt prices per lower-cased store name.
	SpendingByStore(ctx context.Context) (map[string]float64, error)

	// PurgeExpiredSessions drops upload sessions that can no longer be used.
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// Options configures a receipt service. Zero values fall back to defaults.
type Options struct {
	BaseURL      string
	MaxSizeBytes int64
	URLTTL       time.Duration
	Metrics      *UploadMetrics
	Events       *EventLogger
	Now          func() time.Time
}

type receiptService struct {
	store    storage.Storage
	receipts repository.ReceiptRepository
	sessions repository.UploadSessionRepository
	opts     Options
}

// NewReceiptService constructs a new ReceiptService.
func NewReceiptService(store storage.Storage, receipts repository.ReceiptRepository, sessions repository.UploadSessionRepository, opts Options) ReceiptService {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.MaxSizeBytes <= 0 {
		opts.MaxSizeBytes = model.MaxUploadSizeBytes
	}
	if opts.URLTTL <= 0 {
		opts.URLTTL = model.DefaultURLTTLSec * time.Second
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &receiptService{store: store, receipts: receipts, sessions: sessions, opts: opts}
}

func (s *receiptService) CreateUploadURL(ctx context.Context) (string, error) {
	now := s.opts.Now()
	sess := &model.UploadSession{
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.URLTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", fmt.Errorf("create upload session: %w", err)
	}
	return s.opts.BaseURL + model.UploadPath + "/" + sess.Token, nil
}

func (s *receiptService) Upload(ctx context.Context, token string, in UploadInput) (rec *model.Receipt, err error) {
	ctx, span := tracer.Start(ctx, "ReceiptService.Upload")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		s.opts.Metrics.observe(err)
		span.End()
	}()
	span.SetAttributes(attribute.Int64("receipt.size", in.Size))

	if _, err := uuid.Parse(token); err != nil {
		return nil, ErrUploadURLInvalid
	}
	if _, err := s.sessions.Consume(ctx, token, s.opts.Now()); err != nil {
		if errors.Is(err, repository.ErrSessionUnavailable) {
			return nil, ErrUploadURLInvalid
		}
		return nil, fmt.Errorf("consume upload session: %w", err)
	}

	if in.Body == nil {
		return nil, ErrNoValidJPEG
	}
	if in.Size == 0 || !validFilename.MatchString(in.Filename) {
		return nil, ErrNoValidJPEG
	}
	if in.Size > s.opts.MaxSizeBytes {
		return nil, ErrFileTooLarge
	}

	var amount *float64
	if strings.TrimSpace(in.Price) != "" {
		v := price.Parse(in.Price)
		if math.IsNaN(v) {
			return nil, ErrInvalidPrice
		}
		v = math.Round(v*100) / 100
		amount = &v
	}

	contentType := in.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = model.ContentTypeJPEG
	}

	id := uuid.NewString()
	genName := id + strings.ToLower(path.Ext(in.Filename))
	key := path.Join("receipts", genName)

	objInfo, err := s.store.Put(ctx, key, in.Body, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	rec = &model.Receipt{
		ID:          id,
		Label:       in.Label,
		Store:       strings.TrimSpace(in.Store),
		Price:       amount,
		Filename:    genName,
		StoragePath: objInfo.Key,
		ImageURL:    model.ServeImagePath + "?blob-key=" + url.QueryEscape(objInfo.Key),
		Size:        objInfo.Size,
		ContentType: contentType,
		CreatedAt:   s.opts.Now(),
	}
	stored, err := s.receipts.Create(ctx, rec)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.opts.Events.Log("error", "receipt_rollback_failed", map[string]any{"storage_path": key, "error": delErr.Error()})
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		s.opts.Events.Log("warn", "receipt_rolled_back", map[string]any{"storage_path": key, "error": err.Error()})
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.opts.Events.Log("info", "receipt_uploaded", map[string]any{"receipt_id": stored.ID, "size": stored.Size})
	return stored, nil
}

// List returns paginated receipts without exposing repository types.
func (s *receiptService) List(ctx context.Context, limit, offset int) (*ReceiptListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.receipts.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ReceiptListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a receipt by ID. A presign failure leaves DownloadURL empty
// since the image is still reachable through ImageURL.
func (s *receiptService) Get(ctx context.Context, id string) (*ReceiptDetail, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	rec, err := s.receipts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	detail := &ReceiptDetail{Receipt: *rec}
	if u, err := s.store.PresignGet(ctx, rec.StoragePath, DownloadURLExpiry); err == nil {
		detail.DownloadURL = u
	} else {
		s.opts.Events.Log("warn", "presign_failed", map[string]any{"receipt_id": id, "error": err.Error()})
	}
	return detail, nil
}

// Delete removes a receipt image from storage, then deletes its record.
func (s *receiptService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	rec, err := s.receipts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	// Storage first: a failed delete keeps the row pointing at the object.
	if err := s.store.Delete(ctx, rec.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.receipts.Delete(ctx, id)
}

// OpenImage only serves keys that belong to a recorded receipt.
func (s *receiptService) OpenImage(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	if key == "" {
		return nil, storage.ObjectInfo{}, ErrBlobKeyRequired
	}
	if _, err := s.receipts.FindByStoragePath(ctx, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ObjectInfo{}, ErrNotFound
		}
		return nil, storage.ObjectInfo{}, err
	}
	rc, info, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, storage.ObjectInfo{}, ErrNotFound
		}
		return nil, storage.ObjectInfo{}, err
	}
	return rc, info, nil
}

func (s *receiptService) SpendingByStore(ctx context.Context) (map[string]float64, error) {
	return s.receipts.TotalsByStore(ctx)
}

func (s *receiptService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.opts.Now())
	if err != nil {
		return 0, fmt.Errorf("purge upload sessions: %w", err)
	}
	if n > 0 {
		s.opts.Events.Log("info", "upload_sessions_purged", map[string]any{"count": n})
	}
	return n, nil
}
