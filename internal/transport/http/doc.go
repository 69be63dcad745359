// Package http provides custom HTTP transport utilities:
// request/response logging with secret redaction and default header injection.
package http
