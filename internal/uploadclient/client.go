// Package uploadclient talks to the receipt API's upload handshake:
// GET a single-use upload URL, then POST the multipart form to it.
// Each call is a single attempt; there is no retry.
package uploadclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"receiptapi/internal/model"
)

// Submission is the form posted to an upload URL.
type Submission struct {
	Label    string
	FileName string
	Image    io.Reader
}

// Client performs the two upload steps against one receipt API.
type Client struct {
	base       *url.URL
	uploadPath string
	http       *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the traced default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUploadPath overrides the path the upload URL is fetched from.
func WithUploadPath(p string) Option {
	return func(c *Client) { c.uploadPath = p }
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}
	c := &Client{
		base:       u,
		uploadPath: model.UploadPath,
		http:       &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchUploadURL asks the API for a fresh upload URL and returns it as an
// absolute URL. The response body is the URL itself.
func (c *Client) FetchUploadURL(ctx context.Context) (string, error) {
	endpoint := c.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(c.uploadPath, "/")})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", &StepError{Step: StepFetchURL, Err: err}
	}

	body, code, err := c.do(req)
	if err != nil {
		return "", &StepError{Step: StepFetchURL, Err: err}
	}
	if code != http.StatusOK {
		return "", &StatusError{Step: StepFetchURL, Code: code, Body: body}
	}

	ref, err := url.Parse(strings.TrimSpace(body))
	if err != nil || strings.TrimSpace(body) == "" {
		return "", &StepError{Step: StepFetchURL, Err: fmt.Errorf("malformed upload url %q", body)}
	}
	return c.base.ResolveReference(ref).String(), nil
}

// Submit posts the label and image as multipart/form-data to uploadURL.
// An image longer than model.MaxUploadSizeBytes is refused before sending.
// Anything but 200 comes back as a *StatusError carrying the body text.
func (c *Client) Submit(ctx context.Context, uploadURL string, s Submission) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField(model.FieldLabel, s.Label); err != nil {
		return &StepError{Step: StepSubmit, Err: err}
	}
	if s.Image != nil {
		part, err := w.CreatePart(filePartHeader(model.FieldImage, s.FileName))
		if err != nil {
			return &StepError{Step: StepSubmit, Err: err}
		}
		n, err := io.Copy(part, io.LimitReader(s.Image, model.MaxUploadSizeBytes+1))
		if err != nil {
			return &StepError{Step: StepSubmit, Err: fmt.Errorf("read image: %w", err)}
		}
		if n > model.MaxUploadSizeBytes {
			return &StepError{Step: StepSubmit, Err: ErrImageTooLarge}
		}
	}
	if err := w.Close(); err != nil {
		return &StepError{Step: StepSubmit, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &buf)
	if err != nil {
		return &StepError{Step: StepSubmit, Err: err}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	body, code, err := c.do(req)
	if err != nil {
		return &StepError{Step: StepSubmit, Err: err}
	}
	if code != http.StatusOK {
		return &StatusError{Step: StepSubmit, Code: code, Body: body}
	}
	return nil
}

func (c *Client) do(req *http.Request) (string, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return string(b), resp.StatusCode, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func filePartHeader(field, filename string) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
	ct := mime.TypeByExtension(strings.ToLower(path.Ext(filename)))
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	return h
}
