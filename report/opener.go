package report

import (
	"github.com/pkg/browser"
)

// Opener shows a written report to the user.
type Opener interface {
	Open(path string) error
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(path string) error

// Open calls f(path).
func (f OpenerFunc) Open(path string) error {
	return f(path)
}

// BrowserOpener opens files with the platform's default browser.
type BrowserOpener struct{}

// Open launches the browser on path.
func (BrowserOpener) Open(path string) error {
	return browser.OpenFile(path)
}

// NopOpener leaves the report on disk without opening it.
type NopOpener struct{}

// Open does nothing.
func (NopOpener) Open(string) error {
	return nil
}
