package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shieldsight/shieldsight-cli/internal/adapters/api"
	"github.com/shieldsight/shieldsight-cli/internal/auth"
	"github.com/shieldsight/shieldsight-cli/internal/config"
)

// ClientFactory creates the HTTP clients for the prediction API and the
// identity provider
type ClientFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClientFactory creates a new client factory
func NewClientFactory(cfg *config.Config, logger *zap.Logger) *ClientFactory {
	return &ClientFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateAPIClient creates the prediction API client from configuration
func (f *ClientFactory) CreateAPIClient() (*api.Client, error) {
	timeout, err := f.cfg.GetDuration("api.timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid API timeout: %w", err)
	}
	return api.NewClient(f.cfg.GetString("api.base_url"), timeout, f.logger), nil
}

// CreateAuthClient creates the identity provider client from configuration
func (f *ClientFactory) CreateAuthClient() (*auth.Client, error) {
	timeout, err := f.cfg.GetDuration("auth.timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid auth timeout: %w", err)
	}
	return auth.NewClient(f.cfg.GetString("auth.base_url"), timeout, f.logger), nil
}
