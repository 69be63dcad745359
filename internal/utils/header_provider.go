package utils

import "net/http"

//go:generate $MOCKGEN -source=header_provider.go -destination=mocks/header_provider_mock.go

// HeaderProvider supplies default headers for outgoing requests.
type HeaderProvider interface {
	// GetHeaders returns the default headers. Callers must not modify the result.
	GetHeaders() http.Header
}

// StaticHeaderProvider returns the same headers for every request.
type StaticHeaderProvider struct {
	headers http.Header
}

// NewStaticHeaderProvider creates a provider from name/value pairs.
// Pairs with an empty value are skipped.
func NewStaticHeaderProvider(headers map[string]string) HeaderProvider {
	result := make(http.Header, len(headers))

	for name, value := range headers {
		if value == "" {
			continue
		}

		result.Set(name, value)
	}

	return &StaticHeaderProvider{headers: result}
}

// GetHeaders returns the default headers.
func (p *StaticHeaderProvider) GetHeaders() http.Header {
	return p.headers
}
