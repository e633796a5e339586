// Package uploadform implements the receipt upload form's behaviour against
// injected page elements, so it runs the same behind a browser bridge, a
// terminal or a test.
package uploadform

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"receiptapi/internal/model"
	"receiptapi/internal/price"
	"receiptapi/internal/uploadclient"
)

const (
	HomeRoute        = "/"
	CancelRoute      = "index.html"
	DefaultFileLabel = "Choose file"

	MsgImageRequired     = "A JPEG image is required."
	MsgFileTooLarge      = "The selected file exceeds the maximum file size of 5 MB."
	MsgServerUnreachable = "Could not reach the server. Please try again."
)

var (
	// ErrNoFileSelected is returned by UploadReceipt when the file input is empty.
	ErrNoFileSelected = errors.New("no file selected")
	ErrFileTooLarge   = errors.New("selected file exceeds the upload limit")
)

// Controller wires the upload form's event handlers. It keeps no state
// between calls; every handler reads the elements as they are now.
type Controller struct {
	el     Elements
	up     Uploader
	alert  Alerter
	nav    Navigator
	locale language.Tag
}

// Option configures a Controller.
type Option func(*Controller)

// WithLocale sets the locale used by FormatCurrency. Default en-US.
func WithLocale(tag language.Tag) Option {
	return func(c *Controller) { c.locale = tag }
}

// New returns a controller bound to the given page.
func New(el Elements, up Uploader, alert Alerter, nav Navigator, opts ...Option) *Controller {
	c := &Controller{
		el:     el,
		up:     up,
		alert:  alert,
		nav:    nav,
		locale: language.AmericanEnglish,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CancelUpload returns to the home page.
func (c *Controller) CancelUpload() {
	c.nav.Navigate(CancelRoute)
}

// UploadReceipt handles the form submission: one upload URL fetch, one POST,
// then home on success. Every failure is shown to the user and returned.
func (c *Controller) UploadReceipt(ctx context.Context, ev SubmitEvent) error {
	ev.PreventDefault()

	file, ok := c.el.FileInput.Selected()
	if !ok {
		c.alert.Alert(MsgImageRequired)
		return ErrNoFileSelected
	}
	if !c.CheckFileSize() {
		return ErrFileTooLarge
	}

	uploadURL, err := c.FetchBlobstoreURL(ctx)
	if err != nil {
		c.report(err)
		return err
	}

	image, err := file.Open()
	if err != nil {
		c.alert.Alert(MsgImageRequired)
		return err
	}
	defer image.Close()

	err = c.up.Submit(ctx, uploadURL, uploadclient.Submission{
		Label:    c.el.LabelInput.Value(),
		FileName: baseName(file.Name),
		Image:    image,
	})
	if err != nil {
		c.report(err)
		return err
	}

	c.nav.Navigate(HomeRoute)
	return nil
}

// FetchBlobstoreURL returns a fresh single-use upload URL.
func (c *Controller) FetchBlobstoreURL(ctx context.Context) (string, error) {
	return c.up.FetchUploadURL(ctx)
}

func (c *Controller) report(err error) {
	if errors.Is(err, uploadclient.ErrImageTooLarge) {
		c.alert.Alert(MsgFileTooLarge)
		return
	}
	var se *uploadclient.StatusError
	if errors.As(err, &se) {
		msg := se.Body
		if msg == "" {
			msg = http.StatusText(se.Code)
		}
		c.alert.Alert(msg)
		return
	}
	c.alert.Alert(MsgServerUnreachable)
}

// ConvertPriceToValue replaces a formatted price with its bare number on focus.
func (c *Controller) ConvertPriceToValue(field TextField) {
	v := field.Value()
	if v == "" {
		field.SetValue("")
		return
	}
	field.SetValue(price.String(ConvertStringToNumber(v)))
}

// FormatCurrency renders the price field as a currency amount on blur.
func (c *Controller) FormatCurrency(field TextField) {
	v := field.Value()
	if v == "" {
		field.SetValue("")
		return
	}
	field.SetValue(price.Format(ConvertStringToNumber(v), c.locale))
}

// ConvertStringToNumber drops everything except digits and dots and parses the rest.
func ConvertStringToNumber(s string) float64 {
	return price.Parse(s)
}

// DisplayFileName shows the chosen file's base name, or the placeholder when
// nothing valid is selected.
func (c *Controller) DisplayFileName() {
	if !c.CheckFileSize() {
		c.el.FilenameLabel.SetText(DefaultFileLabel)
		return
	}
	c.el.FilenameLabel.SetText(baseName(c.el.FileInput.Value()))
}

// CheckFileSize reports whether a file is selected and within the upload limit.
// An oversized file is rejected with an alert and the input is cleared.
func (c *Controller) CheckFileSize() bool {
	file, ok := c.el.FileInput.Selected()
	if !ok {
		return false
	}
	if file.Size > model.MaxUploadSizeBytes {
		c.alert.Alert(MsgFileTooLarge)
		c.el.FileInput.Clear()
		return false
	}
	return true
}

func baseName(p string) string {
	if i := strings.LastIndex(p, `\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
