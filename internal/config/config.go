package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/gamestart-auth/internal/logger"
)

// Config holds all configuration settings.
type Config struct {
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// LogFile is an optional path of a rotating log file. Empty disables file logging.
	LogFile string `mapstructure:"log_file"`
	// LogFileMaxSize is the size that triggers log file rotation (e.g., "10 MB").
	LogFileMaxSize string `mapstructure:"log_file_max_size"`
	// MaxLogLength caps the size of HTTP dumps written at debug level (e.g., "1 MB").
	MaxLogLength string `mapstructure:"max_log_length"`

	// BrowserBin is the path to a Chrome/Chromium binary. Empty means auto-detect.
	BrowserBin string `mapstructure:"browser_bin"`
	// BrowserUserDataDir is the Chrome profile directory to reuse. Empty means a fresh temporary profile.
	BrowserUserDataDir string `mapstructure:"browser_user_data_dir"`
	// BrowserHeadless runs the browser without a window.
	BrowserHeadless bool `mapstructure:"browser_headless"`

	// AuthorizeURL is the OAuth2 authorization page.
	AuthorizeURL string `mapstructure:"authorize_url"`
	// ClientID is the OAuth2 client_id query parameter.
	ClientID string `mapstructure:"client_id"`
	// RedirectURI is the OAuth2 redirect_uri query parameter.
	RedirectURI string `mapstructure:"redirect_uri"`
	// ResponseType is the OAuth2 response_type query parameter.
	ResponseType string `mapstructure:"response_type"`
	// Scope is the OAuth2 scope query parameter.
	Scope string `mapstructure:"scope"`
	// State is the OAuth2 state query parameter.
	State string `mapstructure:"state"`
	// HomeURL is the post-authorization landing page.
	HomeURL string `mapstructure:"home_url"`
	// GameStartURL is the game-start landing page.
	GameStartURL string `mapstructure:"game_start_url"`
	// SecurityURL is the security center page.
	SecurityURL string `mapstructure:"security_url"`
	// TokenURL is the token endpoint.
	TokenURL string `mapstructure:"token_url"`
	// Referer is sent with token requests.
	Referer string `mapstructure:"referer"`
	// Origin is sent with token requests.
	Origin string `mapstructure:"origin"`
	// UserAgent is sent with token requests.
	UserAgent string `mapstructure:"user_agent"`

	// WaitTimeout bounds a single URL wait (e.g., "30s").
	WaitTimeout string `mapstructure:"wait_timeout"`
	// PollInterval is the cadence of URL polling (e.g., "500ms").
	PollInterval string `mapstructure:"poll_interval"`
	// VerificationTimeout bounds the wait for the user to finish security center verification.
	VerificationTimeout string `mapstructure:"verification_timeout"`
	// FlowTimeout bounds a whole authorization attempt.
	FlowTimeout string `mapstructure:"flow_timeout"`
	// HTTPTimeout bounds a single token request.
	HTTPTimeout string `mapstructure:"http_timeout"`
	// MaxSecurityReentries caps how many times the security center branch may be entered.
	MaxSecurityReentries int64 `mapstructure:"max_security_reentries"`

	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedLogFileMaxSizeMB is the rotation size in megabytes.
	ParsedLogFileMaxSizeMB int
	// ParsedMaxLogLength is the parsed HTTP dump limit in bytes.
	ParsedMaxLogLength uint64
	// ParsedWaitTimeout is the parsed single wait timeout.
	ParsedWaitTimeout time.Duration
	// ParsedPollInterval is the parsed poll interval.
	ParsedPollInterval time.Duration
	// ParsedVerificationTimeout is the parsed security verification timeout.
	ParsedVerificationTimeout time.Duration
	// ParsedFlowTimeout is the parsed whole-flow timeout.
	ParsedFlowTimeout time.Duration
	// ParsedHTTPTimeout is the parsed HTTP timeout.
	ParsedHTTPTimeout time.Duration
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".gamestart-auth.yaml"

	// EnvPrefix is the prefix of environment variables overriding configuration keys.
	EnvPrefix = "GAMESTART_AUTH"

	// DefaultMaxLogLength is the default maximum size (in bytes) of a logged HTTP dump.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB

	bytesInMegabyte = 1024 * 1024
)

// Static error definitions for better error handling.
var (
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidURL indicates that an endpoint setting is not an absolute URL.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrEmptySetting indicates that a required setting is empty.
	ErrEmptySetting = errors.New("setting cannot be empty")
	// ErrInvalidDuration indicates that a duration setting is not positive.
	ErrInvalidDuration = errors.New("duration must be positive")
	// ErrPollIntervalTooLong indicates that poll_interval exceeds wait_timeout.
	ErrPollIntervalTooLong = errors.New("poll_interval cannot be longer than wait_timeout")
	// ErrInvalidReentries indicates that max_security_reentries is not positive.
	ErrInvalidReentries = errors.New("max_security_reentries must be a positive integer")
	// ErrConfigExists indicates that a config file would be overwritten.
	ErrConfigExists = errors.New("config file already exists")
)

// LoadConfig loads configuration from defaults, an optional YAML file and the environment.
// A missing file is an error only when configFilename was given explicitly.
func LoadConfig(configFilename string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	isExplicit := configFilename != ""
	if !isExplicit {
		configFilename = DefaultConfigFilename
	}

	_, statErr := os.Stat(configFilename)

	switch {
	case statErr == nil:
		v.SetConfigFile(configFilename)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	case isExplicit || !os.IsNotExist(statErr):
		return nil, fmt.Errorf("failed to read config from file: %w", statErr)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
//
//nolint:funlen,cyclop // Validation functions naturally have high complexity and length due to sequential checks.
func ValidateConfig(cfg *Config) error {
	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	logFileMaxSize, err := parseByteSize(cfg.LogFileMaxSize)
	if err != nil {
		return fmt.Errorf("failed to parse log file max size: %w", err)
	}

	cfg.ParsedLogFileMaxSizeMB = int((logFileMaxSize + bytesInMegabyte - 1) / bytesInMegabyte)

	cfg.ParsedMaxLogLength, err = parseByteSize(cfg.MaxLogLength)
	if err != nil {
		return fmt.Errorf("failed to parse max log length: %w", err)
	}

	if cfg.ParsedMaxLogLength == 0 {
		cfg.ParsedMaxLogLength = DefaultMaxLogLength
	}

	urls := []struct {
		key   string
		value string
	}{
		{key: "authorize_url", value: cfg.AuthorizeURL},
		{key: "redirect_uri", value: cfg.RedirectURI},
		{key: "home_url", value: cfg.HomeURL},
		{key: "game_start_url", value: cfg.GameStartURL},
		{key: "security_url", value: cfg.SecurityURL},
		{key: "token_url", value: cfg.TokenURL},
	}

	for _, u := range urls {
		if err = validateAbsoluteURL(u.key, u.value); err != nil {
			return err
		}
	}

	if strings.TrimSpace(cfg.ClientID) == "" {
		return fmt.Errorf("%w: client_id", ErrEmptySetting)
	}

	durations := []struct {
		key    string
		value  string
		target *time.Duration
	}{
		{key: "wait_timeout", value: cfg.WaitTimeout, target: &cfg.ParsedWaitTimeout},
		{key: "poll_interval", value: cfg.PollInterval, target: &cfg.ParsedPollInterval},
		{key: "verification_timeout", value: cfg.VerificationTimeout, target: &cfg.ParsedVerificationTimeout},
		{key: "flow_timeout", value: cfg.FlowTimeout, target: &cfg.ParsedFlowTimeout},
		{key: "http_timeout", value: cfg.HTTPTimeout, target: &cfg.ParsedHTTPTimeout},
	}

	for _, d := range durations {
		*d.target, err = time.ParseDuration(strings.TrimSpace(d.value))
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", d.key, err)
		}

		if *d.target <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidDuration, d.key)
		}
	}

	if cfg.ParsedPollInterval > cfg.ParsedWaitTimeout {
		return ErrPollIntervalTooLong
	}

	if cfg.MaxSecurityReentries <= 0 {
		return ErrInvalidReentries
	}

	return nil
}

func parseByteSize(value string) (uint64, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "0" {
		return 0, nil
	}

	return humanize.ParseBytes(value)
}

func validateAbsoluteURL(key, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrEmptySetting, key)
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidURL, key, err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%w: %s must be absolute, got '%s'", ErrInvalidURL, key, value)
	}

	return nil
}
