package auth

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"fmt"

	"github.com/oshokin/gamestart-auth/internal/browser"
	"github.com/oshokin/gamestart-auth/internal/config"
	"github.com/oshokin/gamestart-auth/internal/logger"
)

// Service defines the interface for obtaining a game-start access token.
type Service interface {
	// Authorize runs one authorization attempt in a freshly launched browser.
	Authorize(ctx context.Context) (*Result, error)
}

// BrowserLauncher starts a controlled browser.
type BrowserLauncher func(ctx context.Context, opts browser.Options) (browser.Browser, error)

// ServiceImpl implements the Service interface.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// launchBrowser starts the browser used by each attempt.
	launchBrowser BrowserLauncher
	// newClient creates the HTTP session of each attempt. Nil means gamestart.NewClient.
	newClient ClientFactory
}

// NewService creates a service that drives a go-rod browser.
func NewService(cfg *config.Config) *ServiceImpl {
	return NewServiceWithLauncher(cfg, launchRodBrowser, nil)
}

// NewServiceWithLauncher creates a service with custom browser and session factories.
func NewServiceWithLauncher(cfg *config.Config, launchBrowser BrowserLauncher, newClient ClientFactory) *ServiceImpl {
	return &ServiceImpl{
		cfg:           cfg,
		launchBrowser: launchBrowser,
		newClient:     newClient,
	}
}

// Authorize launches the browser, runs the flow and always closes the browser.
func (s *ServiceImpl) Authorize(ctx context.Context) (*Result, error) {
	logger.Info(ctx, "Launching browser")

	b, err := s.launchBrowser(ctx, browser.Options{
		Bin:         s.cfg.BrowserBin,
		UserDataDir: s.cfg.BrowserUserDataDir,
		Headless:    s.cfg.BrowserHeadless,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to launch browser: %w", ErrBrowserFailure, err)
	}

	defer b.Close(context.WithoutCancel(ctx))

	flow := NewFlow(s.cfg, b)
	if s.newClient != nil {
		flow = NewFlowWithClientFactory(s.cfg, b, s.newClient)
	}

	return flow.Run(ctx)
}

func launchRodBrowser(ctx context.Context, opts browser.Options) (browser.Browser, error) {
	b, err := browser.Launch(ctx, opts)
	if err != nil {
		return nil, err
	}

	return b, nil
}
