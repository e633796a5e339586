package uploadform

import (
	"bytes"
	"context"
	"io"

	"receiptapi/internal/uploadclient"
)

type fakeFileInput struct {
	file    *SelectedFile
	value   string
	cleared bool
}

func (f *fakeFileInput) Selected() (SelectedFile, bool) {
	if f.file == nil {
		return SelectedFile{}, false
	}
	return *f.file, true
}

func (f *fakeFileInput) Value() string { return f.value }

func (f *fakeFileInput) Clear() {
	f.file = nil
	f.value = ""
	f.cleared = true
}

type fakeField struct{ v string }

func (f *fakeField) Value() string     { return f.v }
func (f *fakeField) SetValue(v string) { f.v = v }

type fakeLabel struct{ text string }

func (l *fakeLabel) SetText(s string) { l.text = s }

type recordingAlerter struct{ msgs []string }

func (a *recordingAlerter) Alert(msg string) { a.msgs = append(a.msgs, msg) }

type recordingNavigator struct{ routes []string }

func (n *recordingNavigator) Navigate(route string) { n.routes = append(n.routes, route) }

type fakeEvent struct{ prevented bool }

func (e *fakeEvent) PreventDefault() { e.prevented = true }

type fakeUploader struct {
	url       string
	fetchErr  error
	submitErr error

	fetches     int
	submissions []uploadclient.Submission
	images      [][]byte
	submittedTo []string
}

func (u *fakeUploader) FetchUploadURL(context.Context) (string, error) {
	u.fetches++
	return u.url, u.fetchErr
}

func (u *fakeUploader) Submit(_ context.Context, url string, s uploadclient.Submission) error {
	b, _ := io.ReadAll(s.Image)
	u.submissions = append(u.submissions, s)
	u.images = append(u.images, b)
	u.submittedTo = append(u.submittedTo, url)
	return u.submitErr
}

func memFile(name string, content []byte) *SelectedFile {
	return &SelectedFile{
		Name: name,
		Size: int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

type page struct {
	file  *fakeFileInput
	label *fakeField
	name  *fakeLabel
	alert *recordingAlerter
	nav   *recordingNavigator
}

func newPage() *page {
	return &page{
		file:  &fakeFileInput{},
		label: &fakeField{},
		name:  &fakeLabel{},
		alert: &recordingAlerter{},
		nav:   &recordingNavigator{},
	}
}

func (p *page) controller(up Uploader, opts ...Option) *Controller {
	return New(Elements{FileInput: p.file, LabelInput: p.label, FilenameLabel: p.name}, up, p.alert, p.nav, opts...)
}
