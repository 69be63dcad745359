package http

import (
	"net/http"

	"github.com/oshokin/gamestart-auth/internal/utils"
)

// HeaderInjector is a custom http.RoundTripper that fills in default headers.
// Headers already present on the request are left untouched.
type HeaderInjector struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// headerProvider supplies the default headers.
	headerProvider utils.HeaderProvider
}

// NewHeaderInjector creates and returns a new instance of HeaderInjector.
func NewHeaderInjector(next http.RoundTripper, headerProvider utils.HeaderProvider) http.RoundTripper {
	return &HeaderInjector{
		next:           next,
		headerProvider: headerProvider,
	}
}

// RoundTrip sets every missing default header and forwards the request.
// The request is cloned before modification, as http.RoundTripper requires.
func (t *HeaderInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	var cloned *http.Request

	for name, values := range t.headerProvider.GetHeaders() {
		if len(values) == 0 || req.Header.Get(name) != "" {
			continue
		}

		if cloned == nil {
			cloned = req.Clone(req.Context())
		}

		cloned.Header[name] = append([]string(nil), values...)
	}

	if cloned == nil {
		return t.next.RoundTrip(req)
	}

	return t.next.RoundTrip(cloned)
}
