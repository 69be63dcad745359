// Package browser defines the controlled browser used by the authorization flow
// and implements it on top of go-rod.
//
// The flow only needs three capabilities: navigate to a URL, read the current URL
// and read the session cookies. Everything else about the browser (engine, profile,
// process lifecycle) stays behind the Browser interface.
package browser
