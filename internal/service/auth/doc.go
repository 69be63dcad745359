// Package auth implements the browser-mediated game-start authorization flow.
//
// A Flow drives a controlled browser through an OAuth2 PKCE authorization page,
// copies the browser cookies into an HTTP session and exchanges them for an access
// token and user id. When the token endpoint or the game-start page asks for
// security center verification, the flow waits for the user to complete it in the
// browser and retries the exchange with the correlation id (txId) it returns.
package auth
