package uploadform

import (
	"context"
	"io"

	"receiptapi/internal/uploadclient"
)

// Element IDs of the receipt upload page. Adapters use them to name what they bind.
const (
	FileInputID     = "receipt-image-input"
	LabelInputID    = "label-input"
	FilenameLabelID = "receipt-filename-label"
)

// SelectedFile is the file currently chosen in the file input.
type SelectedFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// FileInput is the image picker.
type FileInput interface {
	// Selected returns the first chosen file, if any.
	Selected() (SelectedFile, bool)
	// Value is the picker's display path, possibly with a C:\fakepath\ style prefix.
	Value() string
	// Clear drops the current selection.
	Clear()
}

// TextField is an editable text input.
type TextField interface {
	Value() string
	SetValue(string)
}

// TextLabel is a read-only text element.
type TextLabel interface {
	SetText(string)
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(msg string)
}

// Navigator moves the page to another route.
type Navigator interface {
	Navigate(route string)
}

// SubmitEvent is the form submission being handled.
type SubmitEvent interface {
	PreventDefault()
}

// Uploader performs the two upload steps. *uploadclient.Client implements it.
type Uploader interface {
	FetchUploadURL(ctx context.Context) (string, error)
	Submit(ctx context.Context, uploadURL string, s uploadclient.Submission) error
}

// Elements groups the page elements the controller reads and writes.
type Elements struct {
	FileInput     FileInput
	LabelInput    TextField
	FilenameLabel TextLabel
}
