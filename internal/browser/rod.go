package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/oshokin/gamestart-auth/internal/constants"
	"github.com/oshokin/gamestart-auth/internal/logger"
	"github.com/oshokin/gamestart-auth/internal/utils"
)

const (
	// slowMotionDelay is the delay between browser actions in debug mode.
	slowMotionDelay = 200 * time.Millisecond

	// cleanupDelay lets Chrome release file locks before the temporary profile is removed.
	cleanupDelay = 500 * time.Millisecond

	// tempProfilePattern is the name pattern of temporary profile directories.
	tempProfilePattern = "gamestart-auth-*"
)

// RodBrowser implements Browser with go-rod and a stealth page.
type RodBrowser struct {
	browser *rod.Browser
	page    *rod.Page
	// tempDir is the temporary profile directory, removed on Close. Empty when a user profile is reused.
	tempDir string
}

// Launch starts Chrome and opens a stealth page.
func Launch(ctx context.Context, opts Options) (*RodBrowser, error) {
	logger.Debug(ctx, "Initializing browser")

	b := &RodBrowser{}

	userDataDir, err := b.prepareUserDataDir(ctx, opts.UserDataDir)
	if err != nil {
		return nil, err
	}

	l := launcher.New().
		Context(ctx).
		Headless(opts.Headless).
		UserDataDir(userDataDir)

	switch chromePath, exists := launcher.LookPath(); {
	case opts.Bin != "":
		logger.Debugf(ctx, "Using configured browser binary: %s", opts.Bin)
		l = l.Bin(opts.Bin)
	case exists:
		logger.Debugf(ctx, "Using system Chrome installation at: %s", chromePath)
		l = l.Bin(chromePath)
	default:
		logger.Debug(ctx, "System Chrome not found, downloading Chromium")
	}

	controlURL, err := l.Launch()
	if err != nil {
		b.removeTempDir(ctx)

		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	logger.DebugKV(ctx, "Browser launched", "control_url", controlURL, "user_data_dir", userDataDir)

	rodBrowser := rod.New().ControlURL(controlURL)

	if logger.IsDebugLevel() {
		logger.Debug(ctx, "Debug mode enabled - enabling browser trace and slow motion")

		rodBrowser = rodBrowser.Trace(true).SlowMotion(slowMotionDelay)
	}

	if err = rodBrowser.Connect(); err != nil {
		b.removeTempDir(ctx)

		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	b.browser = rodBrowser

	b.page, err = stealth.Page(rodBrowser)
	if err != nil {
		b.Close(ctx)

		return nil, fmt.Errorf("failed to create stealth page: %w", err)
	}

	logger.Debug(ctx, "Browser initialized successfully with stealth mode")

	return b, nil
}

// prepareUserDataDir resolves the configured profile or creates a temporary one.
func (b *RodBrowser) prepareUserDataDir(ctx context.Context, configured string) (string, error) {
	if configured != "" {
		userDataDir, err := utils.ExpandHome(configured)
		if err != nil {
			return "", fmt.Errorf("failed to resolve user data directory: %w", err)
		}

		if err = os.MkdirAll(userDataDir, constants.PrivateFolderPermissions); err != nil {
			return "", fmt.Errorf("failed to create user data directory: %w", err)
		}

		logger.Infof(ctx, "Using Chrome profile: %s", userDataDir)

		return userDataDir, nil
	}

	tempDir, err := os.MkdirTemp("", tempProfilePattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary user data directory: %w", err)
	}

	logger.Info(ctx, "Running with a fresh browser profile")

	b.tempDir = tempDir

	return tempDir, nil
}

// Navigate opens url in the controlled page.
func (b *RodBrowser) Navigate(ctx context.Context, url string) (err error) {
	defer b.recoverInto(ctx, "Navigate", &err)

	if b.page == nil {
		return ErrBrowserUnavailable
	}

	return b.page.Context(ctx).Navigate(url)
}

// CurrentURL returns the URL of the controlled page.
func (b *RodBrowser) CurrentURL(ctx context.Context) (currentURL string, err error) {
	defer b.recoverInto(ctx, "CurrentURL", &err)

	if b.page == nil {
		return "", ErrBrowserUnavailable
	}

	info, err := b.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}

	return info.URL, nil
}

// Cookies returns the cookies visible to the current page.
func (b *RodBrowser) Cookies(ctx context.Context) (cookies []Cookie, err error) {
	defer b.recoverInto(ctx, "Cookies", &err)

	if b.page == nil {
		return nil, ErrBrowserUnavailable
	}

	networkCookies, err := b.page.Context(ctx).Cookies(nil)
	if err != nil {
		return nil, err
	}

	cookies = make([]Cookie, 0, len(networkCookies))

	for _, c := range networkCookies {
		if c == nil {
			continue
		}

		cookies = append(cookies, Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
		})
	}

	return cookies, nil
}

// Close closes the browser and removes the temporary profile.
func (b *RodBrowser) Close(ctx context.Context) {
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			logger.Debugf(ctx, "Browser close error (expected): %v", err)
		}

		b.browser = nil
		b.page = nil
	}

	b.removeTempDir(ctx)
}

func (b *RodBrowser) removeTempDir(ctx context.Context) {
	if b.tempDir == "" {
		return
	}

	// Give Chrome a moment to release file locks.
	time.Sleep(cleanupDelay)

	if err := os.RemoveAll(b.tempDir); err != nil {
		logger.Debugf(ctx, "Could not clean up temp directory %s: %v", b.tempDir, err)
	}

	b.tempDir = ""
}

// recoverInto turns a rod panic (closed browser or page) into an error.
func (b *RodBrowser) recoverInto(ctx context.Context, operation string, err *error) {
	if r := recover(); r != nil {
		logger.Debugf(ctx, "%s panic recovered: %v", operation, r)

		*err = fmt.Errorf("%w: %s: %v", ErrBrowserUnavailable, operation, r)
	}
}
