package http

import "time"

const (
	// DefaultTimeout is the default timeout duration for HTTP requests.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent is the User-Agent sent with token requests when none is configured.
	// It matches the desktop browser the game-start page expects.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Whale/3.28.266.14 Safari/537.36" //nolint: lll

	// DefaultAccept is the Accept header sent with JSON API requests.
	DefaultAccept = "application/json, text/plain, */*"

	// redactedValue replaces secrets in logged dumps.
	redactedValue = "[redacted]"
)
