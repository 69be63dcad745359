package gamestart

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"
)

// ParseTokenResponse decodes a token response body.
// For an unrecognized status it returns a response carrying only that status together with
// ErrUnrecognizedStatus, so callers can report the literal value.
func ParseTokenResponse(body []byte) (*TokenResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", ErrMalformedTokenResponse)
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("%w: body is not a JSON object", ErrMalformedTokenResponse)
	}

	status := TokenStatus(parsed.Get("status").String())

	switch status {
	case TokenStatusPass:
		token := parsed.Get("token").String()
		if token == "" {
			return nil, fmt.Errorf("%w: PASS without token", ErrIncompleteTokenResponse)
		}

		mid, err := parseMID(parsed.Get("mid"))
		if err != nil {
			return nil, err
		}

		return &TokenResponse{
			Status: status,
			Token:  token,
			MID:    mid,
		}, nil
	case TokenStatusNeedSecurityCenterAuth:
		securityURL := parsed.Get("url").String()
		if securityURL == "" {
			return nil, fmt.Errorf("%w: %s without url", ErrIncompleteTokenResponse, status)
		}

		return &TokenResponse{
			Status: status,
			URL:    securityURL,
		}, nil
	default:
		return &TokenResponse{Status: status}, fmt.Errorf("%w: '%s'", ErrUnrecognizedStatus, status)
	}
}

// parseMID accepts the user id as a JSON number or a numeric string.
func parseMID(value gjson.Result) (int64, error) {
	var (
		mid int64
		err error
	)

	switch value.Type {
	case gjson.Number:
		mid, err = parseIntegralNumber(value.Raw)
	case gjson.String:
		mid, err = strconv.ParseInt(value.Str, 10, 64)
	case gjson.Null, gjson.False, gjson.True, gjson.JSON:
		return 0, fmt.Errorf("%w: PASS without mid", ErrIncompleteTokenResponse)
	default:
		return 0, fmt.Errorf("%w: PASS without mid", ErrIncompleteTokenResponse)
	}

	if err != nil {
		return 0, fmt.Errorf("%w: mid '%s' is not an integer", ErrIncompleteTokenResponse, value.String())
	}

	if mid <= 0 {
		return 0, fmt.Errorf("%w: mid must be positive, got %d", ErrIncompleteTokenResponse, mid)
	}

	return mid, nil
}

// parseIntegralNumber parses a JSON number that holds an integer, including exponent forms like 4.2e1.
func parseIntegralNumber(raw string) (int64, error) {
	if mid, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return mid, nil
	}

	number, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}

	if number != math.Trunc(number) || number < math.MinInt64 || number >= math.MaxInt64 {
		return 0, strconv.ErrRange
	}

	return int64(number), nil
}
