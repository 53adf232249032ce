// Package dwclient provides the main entry point for creating platform clients
package dwclient

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/docutrack-io/dwapi-client/internal/client"
	dwhttp "github.com/docutrack-io/dwapi-client/internal/http"
	"github.com/docutrack-io/dwapi-client/pkg/dwapi"
)

// New creates a platform client and performs the login for the configured
// authentication variant.
func New(ctx context.Context, config *dwapi.Config) (dwapi.Client, error) {
	if config == nil {
		return nil, dwapi.ErrConfigRequired
	}

	if config.PlatformURL == "" {
		return nil, dwapi.ErrPlatformURLRequired
	}

	// Normalize the platform URL on a copy; the caller's config stays as
	// given.
	cfg := *config

	cfg.PlatformURL = strings.TrimSuffix(cfg.PlatformURL, "/")
	if !strings.HasPrefix(cfg.PlatformURL, "http://") && !strings.HasPrefix(cfg.PlatformURL, "https://") {
		cfg.PlatformURL = "https://" + cfg.PlatformURL
	}

	var extraOpts []dwhttp.Option

	if cfg.SkipTLSVerify {
		// Only allow insecure TLS in explicit development environments
		if !isDevelopmentEnvironment() {
			return nil, fmt.Errorf("%w (set DWAPI_DEV_MODE=true)", dwapi.ErrSkipTLSOnlyInDev)
		}

		extraOpts = append(extraOpts, dwhttp.WithInsecureTLS())
	}

	platformClient, err := client.New(ctx, &cfg, extraOpts...)
	if err != nil {
		return nil, err
	}

	return platformClient, nil
}

// isDevelopmentEnvironment checks if we're in a development environment.
func isDevelopmentEnvironment() bool {
	devMode := os.Getenv("DWAPI_DEV_MODE")

	return devMode == "true" || devMode == "1"
}

// NewWithPassword creates a client using username/password authentication
// with the default variant selection.
func NewWithPassword(ctx context.Context, platformURL, username, password string) (dwapi.Client, error) {
	return New(ctx, &dwapi.Config{
		PlatformURL: platformURL,
		Username:    username,
		Password:    password,
	})
}

// NewWithOrganization creates a client for an account that belongs to more
// than one organization.
func NewWithOrganization(ctx context.Context, platformURL, username, password, organization string) (dwapi.Client, error) {
	return New(ctx, &dwapi.Config{
		PlatformURL:  platformURL,
		Username:     username,
		Password:     password,
		Organization: organization,
	})
}

// NewWithSession creates a client that resumes a previously saved session.
// Credentials may still be supplied so an expired session can be
// re-established transparently.
func NewWithSession(ctx context.Context, platformURL, username, password string, session dwapi.SessionState) (dwapi.Client, error) {
	return New(ctx, &dwapi.Config{
		PlatformURL:  platformURL,
		Username:     username,
		Password:     password,
		SavedSession: session,
	})
}
