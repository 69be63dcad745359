package gamestart

const (
	// actionTypeParam is the query parameter selecting the token action.
	actionTypeParam = "actionType"
	// actionTypeUser requests a token for the signed-in user.
	actionTypeUser = "user"
)

const (
	// contentTypeJSON is the Content-Type of token requests.
	contentTypeJSON = "application/json"
	// maxTokenResponseSize caps the token response body read into memory.
	maxTokenResponseSize = 1 << 20
)
