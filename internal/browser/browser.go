package browser

import (
	"context"
	"errors"
)

//go:generate $MOCKGEN -source=browser.go -destination=mocks/browser_mock.go

// Cookie is a browser cookie as seen by the current page.
type Cookie struct {
	Name   string
	Value  string
	Domain string
	Path   string
}

// Browser is a controlled browser session owned by a single authorization attempt.
type Browser interface {
	// Navigate opens url in the controlled page.
	Navigate(ctx context.Context, url string) error
	// CurrentURL returns the URL of the controlled page.
	CurrentURL(ctx context.Context) (string, error)
	// Cookies returns the cookies visible to the controlled page.
	Cookies(ctx context.Context) ([]Cookie, error)
	// Close releases the browser and its resources.
	Close(ctx context.Context)
}

// Options configures how the browser is launched.
type Options struct {
	// Bin is the Chrome/Chromium binary. Empty means the system installation or a downloaded Chromium.
	Bin string
	// UserDataDir is the Chrome profile to reuse. Empty means a fresh temporary profile.
	UserDataDir string
	// Headless runs the browser without a window.
	Headless bool
}

// Static error definitions for better error handling.
var (
	// ErrBrowserUnavailable is returned when the browser or page is gone.
	ErrBrowserUnavailable = errors.New("browser is not available")
)
