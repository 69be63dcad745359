package auth

import (
	"context"
	"net/http"

	"github.com/oshokin/gamestart-auth/internal/browser"
	"github.com/oshokin/gamestart-auth/internal/client/gamestart"
	"github.com/oshokin/gamestart-auth/internal/logger"
)

// BridgeCookies copies browser cookies into the HTTP session.
// Values wrapped in double quotes keep their quoting on the wire.
// Existing cookies with the same name are overwritten and all others are kept, so calling it
// again with the same cookies changes nothing. Malformed cookies are skipped.
// It returns how many cookies were copied.
func BridgeCookies(ctx context.Context, cookies []browser.Cookie, session gamestart.Client) int {
	converted := make([]*http.Cookie, 0, len(cookies))

	for _, cookie := range cookies {
		value, quoted := unquoteCookieValue(cookie.Value)

		httpCookie := &http.Cookie{
			Name:   cookie.Name,
			Value:  value,
			Quoted: quoted,
			Path:   "/",
		}

		if err := httpCookie.Valid(); err != nil {
			logger.DebugKV(ctx, "Skipping malformed cookie",
				"name", cookie.Name,
				"domain", cookie.Domain,
				"error", err)

			continue
		}

		converted = append(converted, httpCookie)
	}

	session.SetCookies(converted)

	logger.DebugKV(ctx, "Cookies bridged",
		"copied", len(converted),
		"skipped", len(cookies)-len(converted))

	return len(converted)
}

// unquoteCookieValue strips one pair of surrounding double quotes.
func unquoteCookieValue(value string) (string, bool) {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1], true
	}

	return value, false
}
