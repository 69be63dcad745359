package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/gamestart-auth/internal/constants"
)

// setting is a configuration key with its default value and a short description
// used as a comment in generated config files.
type setting struct {
	key     string
	value   any
	comment string
}

// defaultSettings lists every key in the order it appears in a generated config file.
//
//nolint:gochecknoglobals,lll // Read-only table shared by setDefaults and WriteDefaultConfig.
var defaultSettings = []setting{
	{key: "log_level", value: "info", comment: "Logging level: debug, info, warn, error."},
	{key: "log_file", value: "", comment: "Optional rotating log file, e.g. gamestart-auth.log."},
	{key: "log_file_max_size", value: "10 MB", comment: "Log file size that triggers rotation."},
	{key: "max_log_length", value: "1 MB", comment: "Maximum size of an HTTP dump logged at debug level."},
	{key: "browser_bin", value: "", comment: "Chrome/Chromium binary. Empty means auto-detect or download."},
	{key: "browser_user_data_dir", value: "", comment: "Chrome profile to reuse, e.g. ~/.config/google-chrome. Empty means a fresh profile."},
	{key: "browser_headless", value: false, comment: "Run the browser without a window."},
	{key: "authorize_url", value: "https://poe.game.daum.net/oauth/authorize", comment: "OAuth2 authorization page."},
	{key: "client_id", value: "internal"},
	{key: "redirect_uri", value: "https://poe2.game.daum.net/kr/home"},
	{key: "response_type", value: "internal"},
	{key: "scope", value: "internal"},
	{key: "state", value: "random_state_string"},
	{key: "home_url", value: "https://poe2.game.daum.net/kr/home", comment: "Landing page after authorization."},
	{key: "game_start_url", value: "https://pubsvc.game.daum.net/gamestart/poe2.html", comment: "Game-start landing page."},
	{key: "security_url", value: "https://security-center.game.daum.net/auth", comment: "Security center page."},
	{key: "token_url", value: "https://poe2-gamestart-web-api.game.daum.net/token/poe2", comment: "Token endpoint."},
	{key: "referer", value: "https://pubsvc.game.daum.net/"},
	{key: "origin", value: "https://pubsvc.game.daum.net"},
	{key: "user_agent", value: "", comment: "User-Agent for token requests. Empty means the built-in default."},
	{key: "wait_timeout", value: "30s", comment: "Timeout of a single URL wait."},
	{key: "poll_interval", value: "500ms", comment: "URL polling cadence."},
	{key: "verification_timeout", value: "3m", comment: "Time given to complete security center verification."},
	{key: "flow_timeout", value: "15m", comment: "Timeout of the whole authorization attempt."},
	{key: "http_timeout", value: "60s", comment: "Timeout of a single token request."},
	{key: "max_security_reentries", value: 3, comment: "How many times the security center step may be entered."},
}

func setDefaults(v *viper.Viper) {
	for _, s := range defaultSettings {
		v.SetDefault(s.key, s.value)
	}
}

// DefaultConfig returns a validated configuration built from the defaults only.
func DefaultConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal defaults: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// WriteDefaultConfig writes a commented config file with all defaults to path.
// An existing file is kept unless overwrite is set.
func WriteDefaultConfig(path string, overwrite bool) error {
	if path == "" {
		path = DefaultConfigFilename
	}

	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	content, err := renderDefaultConfig()
	if err != nil {
		return err
	}

	if err = os.WriteFile(path, content, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// renderDefaultConfig builds the YAML document node by node to keep key order and comments.
func renderDefaultConfig() ([]byte, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode}

	for _, s := range defaultSettings {
		var valueNode yaml.Node
		if err := valueNode.Encode(s.value); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", s.key, err)
		}

		if _, isString := s.value.(string); isString {
			valueNode.Style = yaml.DoubleQuotedStyle
		}

		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: s.key, HeadComment: s.comment},
			&valueNode)
	}

	document := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{mapping}}

	content, err := yaml.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}

	return content, nil
}
