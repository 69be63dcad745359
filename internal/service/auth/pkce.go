package auth

import (
	"strings"

	"golang.org/x/oauth2"

	"github.com/oshokin/gamestart-auth/internal/config"
)

// ChallengeMethod is the PKCE code challenge method used by the flow.
const ChallengeMethod = "S256"

// Credential is a PKCE verifier and its S256 challenge.
// A new one is generated for every authorization attempt.
type Credential struct {
	Verifier  string
	Challenge string
}

// GenerateCredential creates a verifier from 32 random bytes and derives its challenge.
// It panics if the system random source fails.
func GenerateCredential() Credential {
	verifier := oauth2.GenerateVerifier()

	return Credential{
		Verifier:  verifier,
		Challenge: ChallengeFromVerifier(verifier),
	}
}

// ChallengeFromVerifier returns base64url(SHA-256(verifier)) without padding.
func ChallengeFromVerifier(verifier string) string {
	return oauth2.S256ChallengeFromVerifier(verifier)
}

// AuthorizationURL builds the authorization page URL for the credential.
func AuthorizationURL(cfg *config.Config, credential Credential) string {
	oauthConfig := oauth2.Config{
		ClientID:    cfg.ClientID,
		RedirectURL: cfg.RedirectURI,
		Endpoint:    oauth2.Endpoint{AuthURL: cfg.AuthorizeURL},
		Scopes:      strings.Fields(cfg.Scope),
	}

	options := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_challenge_method", ChallengeMethod),
		oauth2.SetAuthURLParam("code_challenge", credential.Challenge),
	}

	if cfg.ResponseType != "" {
		options = append(options, oauth2.SetAuthURLParam("response_type", cfg.ResponseType))
	}

	return oauthConfig.AuthCodeURL(cfg.State, options...)
}
