package gamestart

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/oshokin/gamestart-auth/internal/config"
	"github.com/oshokin/gamestart-auth/internal/logger"
	http_transport "github.com/oshokin/gamestart-auth/internal/transport/http"
	"github.com/oshokin/gamestart-auth/internal/utils"
)

// Client defines the interface of one HTTP session with the token endpoint.
type Client interface {
	// SetCookies stores cookies for the token endpoint host, replacing same-named ones.
	SetCookies(cookies []*http.Cookie)
	// Cookies returns the cookies that would be sent to the token endpoint.
	Cookies() []*http.Cookie
	// RequestToken exchanges the session cookies, and the optional correlation id, for a token.
	RequestToken(ctx context.Context, txID *string) (*TokenResponse, error)
}

// ClientImpl implements the Client interface.
type ClientImpl struct {
	// tokenURL is the token endpoint with its action query applied.
	tokenURL string
	// cookieURL is the URL cookies are scoped to: the token endpoint host, path "/".
	cookieURL *url.URL
	// jar holds the session cookies.
	jar http.CookieJar
	// httpClient is the HTTP client for making requests.
	httpClient *http.Client
}

// NewClient creates a new session with an empty cookie jar.
func NewClient(cfg *config.Config) (Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	tokenURL, err := url.Parse(cfg.TokenURL)
	if err != nil {
		return nil, fmt.Errorf("invalid token URL: %w", err)
	}

	query := tokenURL.Query()
	query.Set(actionTypeParam, actionTypeUser)
	tokenURL.RawQuery = query.Encode()

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = http_transport.DefaultUserAgent
	}

	headers := utils.NewStaticHeaderProvider(map[string]string{
		"Accept":     http_transport.DefaultAccept,
		"Referer":    cfg.Referer,
		"Origin":     cfg.Origin,
		"User-Agent": userAgent,
	})

	timeout := cfg.ParsedHTTPTimeout
	if timeout <= 0 {
		timeout = http_transport.DefaultTimeout
	}

	httpClient := &http.Client{
		Transport: http_transport.NewHeaderInjector(
			http_transport.NewLogTransport(http.DefaultTransport, cfg.ParsedMaxLogLength),
			headers),
		Jar:     jar,
		Timeout: timeout,
	}

	return &ClientImpl{
		tokenURL:   tokenURL.String(),
		cookieURL:  &url.URL{Scheme: tokenURL.Scheme, Host: tokenURL.Host, Path: "/"},
		jar:        jar,
		httpClient: httpClient,
	}, nil
}

// SetCookies stores cookies for the token endpoint host.
func (c *ClientImpl) SetCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}

	c.jar.SetCookies(c.cookieURL, cookies)
}

// Cookies returns the cookies that would be sent to the token endpoint.
func (c *ClientImpl) Cookies() []*http.Cookie {
	return c.jar.Cookies(c.cookieURL)
}

// RequestToken posts a token request and decodes the response.
// It is not retried.
func (c *ClientImpl) RequestToken(ctx context.Context, txID *string) (*TokenResponse, error) {
	body, err := json.Marshal(NewTokenRequest(txID))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %w", ErrTokenExchange, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenExchange, err)
	}

	request.Header.Set("Content-Type", contentTypeJSON)

	logger.DebugKV(ctx, "Requesting token",
		"url", c.tokenURL,
		"has_tx_id", txID != nil,
		"cookies", len(c.Cookies()))

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenExchange, err)
	}

	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %w: %d", ErrTokenExchange, ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxTokenResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrTokenExchange, err)
	}

	result, err := ParseTokenResponse(responseBody)
	if err != nil {
		if result != nil {
			logger.ErrorKV(ctx, "Token endpoint returned an unrecognized status", "status", string(result.Status))
		}

		return nil, err
	}

	logger.DebugKV(ctx, "Token response received", "status", string(result.Status))

	return result, nil
}
