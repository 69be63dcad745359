package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/gamestart-auth/internal/service/auth"
)

// OutputFormat selects how an authorization result is printed.
type OutputFormat string

const (
	// OutputFormatEnv prints TASK_2, ACCESS_TOKEN and USER_ID lines.
	OutputFormatEnv OutputFormat = "env"
	// OutputFormatJSON prints a single JSON object.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML prints a YAML document.
	OutputFormatYAML OutputFormat = "yaml"
)

const (
	// taskStatusKey is the line reporting success (1) or failure (0) in env output.
	taskStatusKey = "TASK_2"
	// accessTokenKey is the access token line in env output.
	accessTokenKey = "ACCESS_TOKEN"
	// userIDKey is the user id line in env output.
	userIDKey = "USER_ID"
)

// ErrUnknownOutputFormat indicates an unsupported --output value.
var ErrUnknownOutputFormat = errors.New("unknown output format")

// authorizeOutput is the structured form of an authorization attempt.
type authorizeOutput struct {
	Success     bool       `json:"success"                yaml:"success"`
	AccessToken string     `json:"access_token,omitempty" yaml:"access_token,omitempty"`
	UserID      int64      `json:"user_id,omitempty"      yaml:"user_id,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"   yaml:"expires_at,omitempty"`
	Error       string     `json:"error,omitempty"        yaml:"error,omitempty"`
}

// ParseOutputFormat validates an --output value. Empty means env.
func ParseOutputFormat(value string) (OutputFormat, error) {
	switch format := OutputFormat(strings.ToLower(strings.TrimSpace(value))); format {
	case "":
		return OutputFormatEnv, nil
	case OutputFormatEnv, OutputFormatJSON, OutputFormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: '%s' (expected env, json or yaml)", ErrUnknownOutputFormat, value)
	}
}

// writeResult prints the outcome of an attempt. A nil result is a failure.
func writeResult(w io.Writer, format OutputFormat, result *auth.Result, authErr error) error {
	output := authorizeOutput{Success: result != nil}
	if result != nil {
		output.AccessToken = result.Token
		output.UserID = result.UserID
		output.ExpiresAt = result.ExpiresAt
	} else if authErr != nil {
		output.Error = authErr.Error()
	}

	switch format {
	case OutputFormatJSON:
		encoder := json.NewEncoder(w)

		return encoder.Encode(output)
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(output); err != nil {
			return err
		}

		return encoder.Close()
	case OutputFormatEnv:
		return writeEnvResult(w, output)
	default:
		return fmt.Errorf("%w: '%s'", ErrUnknownOutputFormat, format)
	}
}

func writeEnvResult(w io.Writer, output authorizeOutput) error {
	if !output.Success {
		_, err := fmt.Fprintf(w, "%s=0\n", taskStatusKey)

		return err
	}

	_, err := fmt.Fprintf(w, "%s=1\n%s=%s\n%s=%d\n",
		taskStatusKey,
		accessTokenKey, output.AccessToken,
		userIDKey, output.UserID)

	return err
}
