package auth

import "errors"

// Static error definitions for better error handling.
// Token endpoint failures are reported with the errors of the gamestart client package.
var (
	// ErrNavigationTimeout is returned when a URL wait did not see the expected page in time.
	ErrNavigationTimeout = errors.New("navigation timeout")
	// ErrBrowserFailure is returned when the controlled browser stops responding.
	ErrBrowserFailure = errors.New("browser failure")
	// ErrMissingCorrelationID is returned when the post-verification landing URL carries no txId.
	ErrMissingCorrelationID = errors.New("txId is missing from the game-start URL")
	// ErrSecurityReentryLimit is returned when the security center step is entered too many times.
	ErrSecurityReentryLimit = errors.New("security center re-entry limit exceeded")
	// ErrFlowTimeout is returned when the whole flow ran out of time or was cancelled.
	ErrFlowTimeout = errors.New("authorization flow timed out")
	// ErrFlowAborted is returned when the flow stopped on an unexpected internal fault.
	ErrFlowAborted = errors.New("authorization flow aborted")
)
