package gamestart

import (
	"errors"
	"fmt"
)

// Static error definitions for better error handling.
var (
	// ErrTokenExchange is returned when a token request fails for any reason.
	ErrTokenExchange = errors.New("token exchange failed")
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrMalformedTokenResponse indicates that the response body is not a JSON object.
	ErrMalformedTokenResponse = fmt.Errorf("%w: malformed response", ErrTokenExchange)
	// ErrUnrecognizedStatus indicates a token response status this client does not know.
	ErrUnrecognizedStatus = fmt.Errorf("%w: unrecognized status", ErrTokenExchange)
	// ErrIncompleteTokenResponse indicates a known status without its required fields.
	ErrIncompleteTokenResponse = fmt.Errorf("%w: incomplete response", ErrTokenExchange)
)
