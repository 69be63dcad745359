package auth

import (
	"context"
	"strings"
	"time"

	"github.com/oshokin/gamestart-auth/internal/browser"
	"github.com/oshokin/gamestart-auth/internal/logger"
)

const (
	// DefaultWaitTimeout bounds a single URL wait when no timeout is given.
	DefaultWaitTimeout = 30 * time.Second
	// DefaultPollInterval is the URL polling cadence when none is given.
	DefaultPollInterval = 500 * time.Millisecond
)

// WaitOptions configures a URL wait. Zero fields fall back to the defaults.
type WaitOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

func (o WaitOptions) withDefaults() WaitOptions {
	if o.Timeout <= 0 {
		o.Timeout = DefaultWaitTimeout
	}

	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}

	return o
}

// URLMatch is the result of a successful WaitForAnyURL.
type URLMatch struct {
	// Substring is the candidate that matched.
	Substring string
	// URL is the page URL at the time of the match.
	URL string
}

// WaitForURLContaining waits until the current page URL contains substring.
// It reports false on timeout or when ctx is done.
func WaitForURLContaining(ctx context.Context, b browser.Browser, substring string, opts WaitOptions) bool {
	_, found := WaitForAnyURL(ctx, b, []string{substring}, opts)

	return found
}

// WaitForAnyURL waits until the current page URL contains one of substrings.
// Candidates are checked in order, so an URL containing several reports the first one.
// The URL is checked once before the first poll interval elapses.
// Browser errors count as "no match yet".
func WaitForAnyURL(ctx context.Context, b browser.Browser, substrings []string, opts WaitOptions) (URLMatch, bool) {
	opts = opts.withDefaults()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	logger.DebugKV(ctx, "Waiting for URL",
		"candidates", substrings,
		"timeout", opts.Timeout,
		"poll_interval", opts.PollInterval)

	for {
		if match, found := matchCurrentURL(ctx, b, substrings); found {
			logger.DebugKV(ctx, "URL matched", "candidate", match.Substring, "url", match.URL)

			return match, true
		}

		select {
		case <-ctx.Done():
			logger.DebugKV(ctx, "URL wait ended without a match",
				"candidates", substrings,
				"reason", ctx.Err())

			return URLMatch{}, false
		case <-ticker.C:
		}
	}
}

func matchCurrentURL(ctx context.Context, b browser.Browser, substrings []string) (URLMatch, bool) {
	currentURL, err := b.CurrentURL(ctx)
	if err != nil {
		logger.DebugKV(ctx, "Failed to read current URL", "error", err)

		return URLMatch{}, false
	}

	for _, substring := range substrings {
		if strings.Contains(currentURL, substring) {
			return URLMatch{Substring: substring, URL: currentURL}, true
		}
	}

	return URLMatch{}, false
}
