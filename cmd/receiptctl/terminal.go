package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"receiptapi/internal/uploadform"
)

// pathInput is a file picker backed by a path on disk. An empty path means
// nothing was picked.
type pathInput struct {
	path string
}

func (p *pathInput) Selected() (uploadform.SelectedFile, bool) {
	if p.path == "" {
		return uploadform.SelectedFile{}, false
	}
	fi, err := os.Stat(p.path)
	if err != nil || fi.IsDir() {
		return uploadform.SelectedFile{}, false
	}
	path := p.path
	return uploadform.SelectedFile{
		Name: filepath.Base(path),
		Size: fi.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, true
}

func (p *pathInput) Value() string {
	if p.path == "" {
		return ""
	}
	return filepath.Base(p.path)
}

func (p *pathInput) Clear() { p.path = "" }

type textValue struct{ v string }

func (t *textValue) Value() string     { return t.v }
func (t *textValue) SetValue(v string) { t.v = v }

// statusLine prints label updates as "file: <text>".
type statusLine struct{ w io.Writer }

func (s statusLine) SetText(text string) { fmt.Fprintf(s.w, "file: %s\n", text) }

type stderrAlerter struct{ w io.Writer }

func (a stderrAlerter) Alert(msg string) { fmt.Fprintf(a.w, "\033[33m!\033[0m %s\n", msg) }

// routePrinter records the last route and echoes it.
type routePrinter struct {
	w    io.Writer
	last string
}

func (r *routePrinter) Navigate(route string) {
	r.last = route
	fmt.Fprintf(r.w, "-> %s\n", route)
}

type cliSubmit struct{}

func (cliSubmit) PreventDefault() {}
