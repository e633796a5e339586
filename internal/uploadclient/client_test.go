package uploadclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsNonHTTPBase(t *testing.T) {
	_, err := New("ftp://example.com")
	require.Error(t, err)

	c, err := New("http://example.com/api/")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/api/", c.base.String())
}

func TestFetchUploadURL(t *testing.T) {
	tests := []struct {
		name string
		body string
		want func(srvURL string) string
	}{
		{
			name: "absolute url is returned as is",
			body: "http://uploads.example.com/upload-receipt/abc\n",
			want: func(string) string { return "http://uploads.example.com/upload-receipt/abc" },
		},
		{
			name: "relative url resolves against the base",
			body: "/upload-receipt/abc",
			want: func(srvURL string) string { return srvURL + "/upload-receipt/abc" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/upload-receipt", r.URL.Path)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c, err := New(srv.URL, WithHTTPClient(srv.Client()))
			require.NoError(t, err)

			got, err := c.FetchUploadURL(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want(srv.URL), got)
		})
	}
}

func TestFetchUploadURL_NonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, "maintenance")
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = c.FetchUploadURL(context.Background())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StepFetchURL, se.Step)
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
	assert.Equal(t, "maintenance", se.Body)
}

func TestFetchUploadURL_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c, err := New(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = c.FetchUploadURL(context.Background())
	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StepFetchURL, se.Step)
}

func TestSubmit_SendsMultipartFields(t *testing.T) {
	var (
		gotLabel, gotName, gotType string
		gotImage                   []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		gotLabel = r.FormValue("label")
		f, hdr, err := r.FormFile("receipt-image")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		gotName = hdr.Filename
		gotType = hdr.Header.Get("Content-Type")
		gotImage, _ = io.ReadAll(f)
		_, _ = io.WriteString(w, `{"id":"1"}`)
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	err = c.Submit(context.Background(), srv.URL+"/upload-receipt/tok", Submission{
		Label:    "Lunch",
		FileName: "lunch.jpg",
		Image:    strings.NewReader("jpeg-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Lunch", gotLabel)
	assert.Equal(t, "lunch.jpg", gotName)
	assert.Equal(t, "image/jpeg", gotType)
	assert.Equal(t, []byte("jpeg-bytes"), gotImage)
}

func TestSubmit_NonOKCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, "Invalid label")
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	err = c.Submit(context.Background(), srv.URL, Submission{Label: "x", FileName: "a.jpg", Image: strings.NewReader("x")})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StepSubmit, se.Step)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "Invalid label", se.Body)
}

func TestSubmit_RefusesOversizedImage(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer srv.Close()

	c, err := New(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	img := io.LimitReader(zeroReader{}, 8<<20)
	err = c.Submit(context.Background(), srv.URL, Submission{Label: "x", FileName: "big.jpg", Image: img})

	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StepSubmit, se.Step)
	assert.ErrorIs(t, err, ErrImageTooLarge)
	assert.Zero(t, hits)
}

func TestSubmit_AcceptsImageAtLimit(t *testing.T) {
	var got int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, _, err := r.FormFile("receipt-image")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		got, _ = io.Copy(io.Discard, f)
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	img := io.LimitReader(zeroReader{}, 5*1024*1024)
	require.NoError(t, c.Submit(context.Background(), srv.URL, Submission{FileName: "edge.jpg", Image: img}))
	assert.Equal(t, int64(5*1024*1024), got)
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func TestSubmit_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := srv.URL
	srv.Close()

	c, err := New(target)
	require.NoError(t, err)

	err = c.Submit(context.Background(), target+"/upload-receipt/tok", Submission{Label: "x", FileName: "a.jpg", Image: strings.NewReader("x")})
	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StepSubmit, se.Step)
	assert.Contains(t, se.Error(), "submit_receipt")
}

func TestFilePartHeader(t *testing.T) {
	h := filePartHeader("receipt-image", `we"ird.JPEG`)
	assert.Equal(t, `form-data; name="receipt-image"; filename="we\"ird.JPEG"`, h.Get("Content-Disposition"))
	assert.Equal(t, "image/jpeg", h.Get("Content-Type"))

	h = filePartHeader("receipt-image", "notes")
	assert.Equal(t, "application/octet-stream", h.Get("Content-Type"))
}
