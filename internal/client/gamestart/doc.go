// Package gamestart provides a client for the game-start token endpoint.
// Each Client owns its own cookie jar, so a fresh Client is one HTTP session.
// Requests go through the shared header-injecting and logging transports,
// and token responses are decoded into a PASS / NEED_SECURITYCENTER_AUTH union.
package gamestart
