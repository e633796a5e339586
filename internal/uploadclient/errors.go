package uploadclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrImageTooLarge is wrapped in a StepError when the image reader yields more
// than the upload limit. Nothing is sent in that case.
var ErrImageTooLarge = errors.New("image exceeds the maximum upload size")

// Step names one leg of the upload handshake.
type Step string

const (
	StepFetchURL Step = "fetch_upload_url"
	StepSubmit   Step = "submit_receipt"
)

// StepError is a transport-level failure: the request never produced a response.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// StatusError is a response with a status other than 200. Body holds the
// response text unmodified.
type StatusError struct {
	Step Step
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d %s", e.Step, e.Code, http.StatusText(e.Code))
}
