package utils

import (
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// secretVisiblePrefix is how many leading characters of a secret stay readable in logs.
const secretVisiblePrefix = 4

// textContentTypePatterns matches content types whose bodies are safe to dump as text.
//
//nolint:gochecknoglobals // These are immutable, pre-compiled regex patterns and used as constants.
var textContentTypePatterns = []*regexp.Regexp{
	regexp.MustCompile("^text/.+"),
	regexp.MustCompile("^application/json$"),
	regexp.MustCompile(`^application/.+\+json$`),
}

// IsTextContentType checks if the given content type represents a text-based format.
// The charset, if present, must be "utf-8" or "us-ascii".
func IsTextContentType(contentType string) bool {
	parsedType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	for _, pattern := range textContentTypePatterns {
		if !pattern.MatchString(parsedType) {
			continue
		}

		charset := strings.ToLower(params["charset"])

		return charset == "" || charset == "utf-8" || charset == "us-ascii"
	}

	return false
}

// ExpandHome replaces a leading "~" with the current user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// MaskSecret keeps the first few characters of a secret and hides the rest.
func MaskSecret(secret string) string {
	if len(secret) <= secretVisiblePrefix {
		return strings.Repeat("*", len(secret))
	}

	return secret[:secretVisiblePrefix] + strings.Repeat("*", len(secret)-secretVisiblePrefix)
}
