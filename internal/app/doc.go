// Package app wires the configuration, the browser and the authorization service together
// and prints the result of an authorization attempt in the requested output format.
package app
