// Package spclient provides the main entry point for creating SharePoint REST clients
package spclient

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fivetwenty-io/sprest/internal/client"
	"github.com/fivetwenty-io/sprest/pkg/sp"
)

// DevModeEnv enables development only settings such as SkipTLSVerify.
const DevModeEnv = "SPREST_DEV_MODE"

// New creates a new SharePoint client for config.SiteURL.
func New(ctx context.Context, config *sp.Config) (sp.Client, error) {
	if config == nil {
		return nil, sp.ErrConfigRequired
	}

	if config.SiteURL == "" {
		return nil, sp.ErrSiteURLRequired
	}

	config.SiteURL = NormalizeSiteURL(config.SiteURL)

	if config.SkipTLSVerify && !isDevelopmentEnvironment() {
		return nil, fmt.Errorf("%w (set %s=true)", sp.ErrSkipTLSOnlyInDev, DevModeEnv)
	}

	spClient, err := client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return spClient, nil
}

// NormalizeSiteURL trims trailing slashes and adds https:// when no scheme is given.
func NormalizeSiteURL(siteURL string) string {
	siteURL = strings.TrimRight(strings.TrimSpace(siteURL), "/")
	if !strings.HasPrefix(siteURL, "http://") && !strings.HasPrefix(siteURL, "https://") {
		siteURL = "https://" + siteURL
	}

	return siteURL
}

// isDevelopmentEnvironment checks if we're in a development environment.
func isDevelopmentEnvironment() bool {
	devMode := os.Getenv(DevModeEnv)

	return devMode == "true" || devMode == "1"
}

// NewWithSite creates a new client with just a site URL (no auth).
func NewWithSite(ctx context.Context, siteURL string) (sp.Client, error) {
	return New(ctx, &sp.Config{
		SiteURL: siteURL,
	})
}

// NewWithToken creates a new client with a site URL and access token.
func NewWithToken(ctx context.Context, siteURL, token string) (sp.Client, error) {
	return New(ctx, &sp.Config{
		SiteURL:     siteURL,
		AccessToken: token,
	})
}
