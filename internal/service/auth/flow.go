package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/oshokin/gamestart-auth/internal/browser"
	"github.com/oshokin/gamestart-auth/internal/client/gamestart"
	"github.com/oshokin/gamestart-auth/internal/config"
	"github.com/oshokin/gamestart-auth/internal/logger"
	"github.com/oshokin/gamestart-auth/internal/utils"
)

// State is a step of the authorization flow.
type State int

// Flow states. StateDone and StateFailed are terminal.
const (
	StateStart State = iota
	StateAwaitHomeRedirect
	StateAwaitGameStart
	StateSecurityBranch
	StateAwaitGameStartAfterSecurity
	StateEvaluateTokenResponse
	StateDone
	StateFailed
)

//nolint:gochecknoglobals // Read-only lookup table.
var stateNames = map[State]string{
	StateStart:                       "START",
	StateAwaitHomeRedirect:           "AWAIT_HOME_REDIRECT",
	StateAwaitGameStart:              "AWAIT_GAMESTART",
	StateSecurityBranch:              "SECURITY_BRANCH",
	StateAwaitGameStartAfterSecurity: "AWAIT_GAMESTART_AFTER_SECURITY",
	StateEvaluateTokenResponse:       "EVALUATE_TOKEN_RESPONSE",
	StateDone:                        "DONE",
	StateFailed:                      "FAILED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// IsTerminal reports whether the flow stops in this state.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

const (
	// txIDParam is the query parameter carrying the security center correlation id.
	txIDParam = "txId"
	// securityReentryLimitMarker tags the log event emitted when the re-entry cap is hit.
	securityReentryLimitMarker = "security_reentry_limit_exceeded"
	// securityURLRepeatedMarker tags the log event emitted when a security URL comes back.
	securityURLRepeatedMarker = "security_url_repeated"
	// defaultFlowTimeout bounds a run when the configuration carries no flow timeout.
	defaultFlowTimeout = 15 * time.Minute
	// defaultVerificationTimeout bounds the wait for the user's verification when none is configured.
	defaultVerificationTimeout = 3 * time.Minute
)

// Result is a successful authorization. Token and UserID are always set.
type Result struct {
	// Token is the issued access token.
	Token string `json:"access_token" yaml:"access_token"`
	// UserID is the user id (mid).
	UserID int64 `json:"user_id" yaml:"user_id"`
	// ExpiresAt is the token expiry when the token is a JWT carrying exp.
	ExpiresAt *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// ClientFactory creates a fresh token endpoint session.
type ClientFactory func() (gamestart.Client, error)

// Flow is the authorization state machine bound to one browser.
// A Flow may be run more than once, but never concurrently on the same browser.
type Flow struct {
	cfg       *config.Config
	browser   browser.Browser
	newClient ClientFactory
}

// NewFlow creates a flow that opens a new gamestart.Client session for every run.
func NewFlow(cfg *config.Config, b browser.Browser) *Flow {
	return NewFlowWithClientFactory(cfg, b, func() (gamestart.Client, error) {
		return gamestart.NewClient(cfg)
	})
}

// NewFlowWithClientFactory creates a flow with a custom session factory.
func NewFlowWithClientFactory(cfg *config.Config, b browser.Browser, newClient ClientFactory) *Flow {
	return &Flow{
		cfg:       cfg,
		browser:   b,
		newClient: newClient,
	}
}

// flowRun is the mutable state of a single run.
type flowRun struct {
	*Flow

	state            State
	session          gamestart.Client
	securityURL      string
	securityEntries  int64
	maxSecurityEntry int64
	seenSecurityURLs *lru.Cache[string, struct{}]
	response         *gamestart.TokenResponse
	result           *Result
	err              error
}

// Run drives the flow to DONE or FAILED.
// On success it returns a Result with both fields set; on failure it returns a nil Result and the
// reason. It does not panic.
func (f *Flow) Run(ctx context.Context) (result *Result, err error) {
	ctx = logger.WithKV(ctx, "flow_id", uuid.NewString())

	ctx, cancel := context.WithTimeout(ctx, durationOrDefault(f.cfg.ParsedFlowTimeout, defaultFlowTimeout))
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorKV(ctx, "Authorization flow panicked", "panic", r)

			result, err = nil, fmt.Errorf("%w: %v", ErrFlowAborted, r)
		}
	}()

	maxEntries := f.cfg.MaxSecurityReentries
	if maxEntries <= 0 {
		maxEntries = 1
	}

	seen, err := lru.New[string, struct{}](int(maxEntries) + 1)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create security URL cache: %w", ErrFlowAborted, err)
	}

	run := &flowRun{
		Flow:             f,
		state:            StateStart,
		maxSecurityEntry: maxEntries,
		seenSecurityURLs: seen,
	}

	logger.Info(ctx, "Starting authorization flow")

	for !run.state.IsTerminal() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			run.state = run.fail(ctx, fmt.Errorf("%w: %w", ErrFlowTimeout, ctxErr))

			break
		}

		previous := run.state
		run.state = run.step(ctx)

		logger.DebugKV(ctx, "State transition", "from", previous.String(), "to", run.state.String())
	}

	if run.state == StateFailed {
		return nil, run.err
	}

	logger.InfoKV(ctx, "Authorization succeeded",
		"user_id", run.result.UserID,
		"token", utils.MaskSecret(run.result.Token),
		"expires_at", run.result.ExpiresAt)

	return run.result, nil
}

func (r *flowRun) step(ctx context.Context) State {
	switch r.state {
	case StateStart:
		return r.start(ctx)
	case StateAwaitHomeRedirect:
		return r.awaitHomeRedirect(ctx)
	case StateAwaitGameStart:
		return r.awaitGameStart(ctx)
	case StateSecurityBranch:
		return r.securityBranch(ctx)
	case StateAwaitGameStartAfterSecurity:
		return r.awaitGameStartAfterSecurity(ctx)
	case StateEvaluateTokenResponse:
		return r.evaluateTokenResponse(ctx)
	case StateDone, StateFailed:
		return r.state
	default:
		return r.fail(ctx, fmt.Errorf("%w: unknown state %s", ErrFlowAborted, r.state))
	}
}

func (r *flowRun) start(ctx context.Context) State {
	credential := GenerateCredential()
	authorizationURL := AuthorizationURL(r.cfg, credential)

	logger.InfoKV(ctx, "Opening authorization page",
		"url", r.cfg.AuthorizeURL,
		"code_challenge", credential.Challenge)

	if err := r.navigate(ctx, authorizationURL); err != nil {
		return r.fail(ctx, err)
	}

	return StateAwaitHomeRedirect
}

func (r *flowRun) awaitHomeRedirect(ctx context.Context) State {
	if !WaitForURLContaining(ctx, r.browser, r.cfg.HomeURL, r.waitOptions()) {
		return r.fail(ctx, r.waitError(ctx, r.cfg.HomeURL))
	}

	logger.Info(ctx, "Authorization page redirected home")

	session, err := r.newClient()
	if err != nil {
		return r.fail(ctx, fmt.Errorf("%w: failed to create HTTP session: %w", ErrFlowAborted, err))
	}

	r.session = session

	if err = r.bridgeCookies(ctx); err != nil {
		return r.fail(ctx, err)
	}

	return StateAwaitGameStart
}

func (r *flowRun) awaitGameStart(ctx context.Context) State {
	if err := r.navigate(ctx, r.cfg.GameStartURL); err != nil {
		return r.fail(ctx, err)
	}

	// Game start goes first: its URL may carry the security center address as a parameter.
	match, found := WaitForAnyURL(ctx, r.browser,
		[]string{r.cfg.GameStartURL, r.cfg.SecurityURL},
		r.waitOptions())
	if !found {
		return r.fail(ctx, r.waitError(ctx, r.cfg.GameStartURL))
	}

	if match.Substring == r.cfg.SecurityURL {
		logger.InfoKV(ctx, "Redirected to security center", "url", match.URL)

		r.securityURL = match.URL

		return StateSecurityBranch
	}

	if err := r.bridgeCookies(ctx); err != nil {
		return r.fail(ctx, err)
	}

	return r.requestToken(ctx, nil)
}

func (r *flowRun) securityBranch(ctx context.Context) State {
	r.securityEntries++

	if r.securityEntries > r.maxSecurityEntry {
		logger.ErrorKV(ctx, "Security center step entered too many times",
			"marker", securityReentryLimitMarker,
			"entries", r.securityEntries,
			"limit", r.maxSecurityEntry)

		return r.fail(ctx, fmt.Errorf("%w: limit is %d", ErrSecurityReentryLimit, r.maxSecurityEntry))
	}

	if r.seenSecurityURLs.Contains(r.securityURL) {
		logger.WarnKV(ctx, "Security center URL repeated",
			"marker", securityURLRepeatedMarker,
			"url", r.securityURL)
	}

	r.seenSecurityURLs.Add(r.securityURL, struct{}{})

	logger.InfoKV(ctx, "Opening security center", "url", r.securityURL, "entry", r.securityEntries)

	if err := r.navigate(ctx, r.securityURL); err != nil {
		return r.fail(ctx, err)
	}

	if !WaitForURLContaining(ctx, r.browser, r.cfg.SecurityURL, r.waitOptions()) {
		return r.fail(ctx, r.waitError(ctx, r.cfg.SecurityURL))
	}

	if err := r.bridgeCookies(ctx); err != nil {
		return r.fail(ctx, err)
	}

	return StateAwaitGameStartAfterSecurity
}

func (r *flowRun) awaitGameStartAfterSecurity(ctx context.Context) State {
	logger.Info(ctx, "Waiting for the security center verification to be completed in the browser")

	options := r.waitOptions()
	options.Timeout = durationOrDefault(r.cfg.ParsedVerificationTimeout, defaultVerificationTimeout)

	match, found := WaitForAnyURL(ctx, r.browser, []string{r.cfg.GameStartURL}, options)
	if !found {
		return r.fail(ctx, r.waitError(ctx, r.cfg.GameStartURL))
	}

	txID, err := extractTxID(match.URL)
	if err != nil {
		return r.fail(ctx, err)
	}

	logger.InfoKV(ctx, "Security center verification completed", "tx_id", txID)

	if err = r.bridgeCookies(ctx); err != nil {
		return r.fail(ctx, err)
	}

	return r.requestToken(ctx, &txID)
}

func (r *flowRun) evaluateTokenResponse(ctx context.Context) State {
	switch r.response.Status {
	case gamestart.TokenStatusPass:
		r.result = &Result{
			Token:  r.response.Token,
			UserID: r.response.MID,
		}

		if expiresAt, ok := gamestart.TokenExpiry(r.response.Token); ok {
			r.result.ExpiresAt = &expiresAt
		}

		return StateDone
	case gamestart.TokenStatusNeedSecurityCenterAuth:
		logger.InfoKV(ctx, "Token endpoint requires security center verification", "url", r.response.URL)

		r.securityURL = r.response.URL

		return StateSecurityBranch
	default:
		return r.fail(ctx, fmt.Errorf("%w: '%s'", gamestart.ErrUnrecognizedStatus, r.response.Status))
	}
}

func (r *flowRun) requestToken(ctx context.Context, txID *string) State {
	response, err := r.session.RequestToken(ctx, txID)
	if err != nil {
		return r.fail(ctx, err)
	}

	r.response = response

	return StateEvaluateTokenResponse
}

// navigate opens url. Only a lost browser is an error: a navigation that reports a failure
// may still land on the expected page, which the following URL wait decides.
func (r *flowRun) navigate(ctx context.Context, rawURL string) error {
	err := r.browser.Navigate(ctx, rawURL)
	if err == nil {
		return nil
	}

	if errors.Is(err, browser.ErrBrowserUnavailable) {
		return fmt.Errorf("%w: %w", ErrBrowserFailure, err)
	}

	logger.WarnKV(ctx, "Navigation reported an error", "url", rawURL, "error", err)

	return nil
}

func (r *flowRun) bridgeCookies(ctx context.Context) error {
	cookies, err := r.browser.Cookies(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to read cookies: %w", ErrBrowserFailure, err)
	}

	BridgeCookies(ctx, cookies, r.session)

	return nil
}

func (r *flowRun) waitOptions() WaitOptions {
	return WaitOptions{
		Timeout:      r.cfg.ParsedWaitTimeout,
		PollInterval: r.cfg.ParsedPollInterval,
	}
}

// waitError tells a flow deadline apart from a single wait running out.
func (r *flowRun) waitError(ctx context.Context, expected string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: while waiting for %s: %w", ErrFlowTimeout, expected, ctxErr)
	}

	return fmt.Errorf("%w: %s", ErrNavigationTimeout, expected)
}

func (r *flowRun) fail(ctx context.Context, err error) State {
	r.err = err

	logger.ErrorKV(ctx, "Authorization flow failed", "state", r.state.String(), "error", err)

	return StateFailed
}

func extractTxID(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMissingCorrelationID, err)
	}

	txID := parsed.Query().Get(txIDParam)
	if txID == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingCorrelationID, rawURL)
	}

	return txID, nil
}

func durationOrDefault(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}

	return value
}
