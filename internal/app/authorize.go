package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/gamestart-auth/internal/config"
	"github.com/oshokin/gamestart-auth/internal/logger"
	"github.com/oshokin/gamestart-auth/internal/service/auth"
)

const (
	// spinnerInterval is how often the waiting spinner advances.
	spinnerInterval = 100 * time.Millisecond
	// spinnerType is the progressbar spinner style.
	spinnerType = 14
)

// ErrAuthorizationFailed is returned when the attempt ended without a token.
var ErrAuthorizationFailed = errors.New("authorization failed")

// ExecuteAuthorizeCommand runs one authorization attempt and prints the result to stdout.
// Failures are printed too, so the caller always gets a status line.
func ExecuteAuthorizeCommand(ctx context.Context, cfg *config.Config, format OutputFormat) error {
	return runAuthorize(ctx, auth.NewService(cfg), os.Stdout, os.Stderr, format, spinnerEnabled(logger.Level()))
}

// spinnerEnabled reports whether the spinner can own the stderr line.
// At info level and below the flow logs its progress to stderr, which would break the spinner.
func spinnerEnabled(level zapcore.Level) bool {
	return level > zap.InfoLevel
}

func runAuthorize(
	ctx context.Context,
	service auth.Service,
	stdout io.Writer,
	stderr io.Writer,
	format OutputFormat,
	showSpinner bool,
) error {
	var stopSpinner func()
	if showSpinner {
		stopSpinner = startSpinner(stderr, "Waiting for authorization")
	}

	result, authErr := service.Authorize(ctx)

	if stopSpinner != nil {
		stopSpinner()
	}

	if err := writeResult(stdout, format, result, authErr); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	if result == nil {
		if authErr == nil {
			return ErrAuthorizationFailed
		}

		return fmt.Errorf("%w: %w", ErrAuthorizationFailed, authErr)
	}

	return nil
}

// startSpinner shows an indeterminate progress spinner until the returned function is called.
func startSpinner(w io.Writer, description string) func() {
	bar := progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(spinnerType),
		progressbar.OptionSetSpinnerChangeInterval(0),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	var once sync.Once

	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()

			_ = bar.Finish()
		})
	}
}
