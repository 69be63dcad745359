package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/oshokin/gamestart-auth/internal/browser"
	"github.com/oshokin/gamestart-auth/internal/config"
	"github.com/oshokin/gamestart-auth/internal/logger"
)

const (
	testSecurityURL       = "https://security-center.game.daum.net/auth?returnUrl=gamestart"
	testGameStartTxURL    = "https://pubsvc.game.daum.net/gamestart/poe2.html?txId=tx-1"
	testGameStartNoTxURL  = "https://pubsvc.game.daum.net/gamestart/poe2.html?from=security"
	testUnrelatedLoginURL = "https://accounts.example.com/login"
)

// scriptedBrowser is a browser.Browser whose page moves along a fixed script.
type scriptedBrowser struct {
	mu sync.Mutex

	// routes maps a navigation target prefix to the page it lands on. Unrouted targets land on themselves.
	routes map[string]string
	// transitions maps a page to the page shown after it has been observed once.
	transitions map[string]string
	// cookies are returned by Cookies.
	cookies []browser.Cookie
	// navigateErr is returned by every Navigate call after landing.
	navigateErr error

	current     string
	navigations []string
	closed      bool
}

func newScriptedBrowser() *scriptedBrowser {
	return &scriptedBrowser{
		routes:      make(map[string]string),
		transitions: make(map[string]string),
		current:     "about:blank",
	}
}

func (b *scriptedBrowser) Navigate(_ context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.navigations = append(b.navigations, url)
	b.current = url

	for prefix, landing := range b.routes {
		if strings.HasPrefix(url, prefix) {
			b.current = landing

			break
		}
	}

	return b.navigateErr
}

func (b *scriptedBrowser) CurrentURL(_ context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	observed := b.current
	if next, ok := b.transitions[observed]; ok {
		b.current = next
	}

	return observed, nil
}

func (b *scriptedBrowser) Cookies(_ context.Context) ([]browser.Cookie, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]browser.Cookie(nil), b.cookies...), nil
}

func (b *scriptedBrowser) Close(_ context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
}

// navigationsTo counts navigations whose target starts with prefix.
func (b *scriptedBrowser) navigationsTo(prefix string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := 0

	for _, navigation := range b.navigations {
		if strings.HasPrefix(navigation, prefix) {
			count++
		}
	}

	return count
}

func (b *scriptedBrowser) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.closed
}

// newFlowConfig returns the default configuration with short waits.
func newFlowConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.DefaultConfig()
	require.NoError(t, err)

	cfg.ParsedWaitTimeout = 300 * time.Millisecond
	cfg.ParsedPollInterval = 5 * time.Millisecond
	cfg.ParsedVerificationTimeout = 300 * time.Millisecond
	cfg.ParsedFlowTimeout = 10 * time.Second

	return cfg
}

// newHappyBrowser routes the authorization page home and lets game start land on itself.
func newHappyBrowser(cfg *config.Config) *scriptedBrowser {
	b := newScriptedBrowser()
	b.routes[cfg.AuthorizeURL] = cfg.HomeURL
	b.cookies = []browser.Cookie{{Name: "sid", Value: "s1", Domain: ".game.daum.net", Path: "/"}}

	return b
}

// observedContext returns a context whose logger records every entry.
func observedContext(t *testing.T) (context.Context, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)

	return logger.ToContext(context.Background(), zap.New(core).Sugar()), logs
}

// txIDMatcher matches a *string pointing at the expected correlation id.
type txIDMatcher struct {
	expected string
}

func (m txIDMatcher) Matches(x any) bool {
	txID, ok := x.(*string)

	return ok && txID != nil && *txID == m.expected
}

func (m txIDMatcher) String() string {
	return "txId " + m.expected
}
