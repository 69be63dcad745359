// Package utils provides small helpers shared across the application:
// header providers for outgoing requests, content type checks, path expansion
// and masking of secrets before they reach the logs.
package utils
