package gamestart

// TokenStatus is the discriminator of a token response.
type TokenStatus string

const (
	// TokenStatusPass means the token was issued.
	TokenStatusPass TokenStatus = "PASS"
	// TokenStatusNeedSecurityCenterAuth means the user must pass security center verification first.
	TokenStatusNeedSecurityCenterAuth TokenStatus = "NEED_SECURITYCENTER_AUTH"
)

// TokenRequest is the body of a token request.
type TokenRequest struct {
	// TxID is the security center correlation id, nil on the first attempt.
	TxID *string `json:"txId"`
	// Code is always null.
	Code *string `json:"code"`
	// Webdriver is true exactly when TxID is set.
	Webdriver bool `json:"webdriver"`
}

// NewTokenRequest builds a request body for the optional correlation id.
func NewTokenRequest(txID *string) *TokenRequest {
	return &TokenRequest{
		TxID:      txID,
		Code:      nil,
		Webdriver: txID != nil,
	}
}

// TokenResponse is a decoded token response.
// Token and MID are set for TokenStatusPass, URL for TokenStatusNeedSecurityCenterAuth.
type TokenResponse struct {
	// Status selects which of the other fields are meaningful.
	Status TokenStatus
	// Token is the issued access token.
	Token string
	// MID is the user id.
	MID int64
	// URL is the security center page to visit.
	URL string
}
