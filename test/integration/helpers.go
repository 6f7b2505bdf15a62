//go:build integration

package integration

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/sprest/pkg/sp"
	"github.com/fivetwenty-io/sprest/pkg/spclient"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	SiteURL string
	Token   string
	Library string
	Verbose bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	library := os.Getenv("SPREST_INTEGRATION_LIBRARY")
	if library == "" {
		library = "Shared Documents"
	}

	return &TestConfig{
		SiteURL: os.Getenv("SPREST_INTEGRATION_SITE"),
		Token:   os.Getenv("SPREST_INTEGRATION_TOKEN"),
		Library: library,
		Verbose: os.Getenv("SPREST_VERBOSE") == "true",
	}
}

// SkipIfMissingConfig skips the test when no site or token is configured.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.SiteURL == "" || config.Token == "" {
		t.Skip("SPREST_INTEGRATION_SITE or SPREST_INTEGRATION_TOKEN not set, skipping integration test")
	}
}

// NewClient creates a client for the configured site.
func (config *TestConfig) NewClient(t *testing.T) sp.Client {
	t.Helper()

	spConfig := &sp.Config{
		SiteURL:     config.SiteURL,
		AccessToken: config.Token,
		UserAgent:   "sprest-integration/1.0",
		ClientTag:   "sprest.integration",
		RetryMax:    3,
	}

	if config.Verbose {
		spConfig.Logger = testLogger{t: t}
		spConfig.Debug = true
	}

	client, err := spclient.New(context.Background(), spConfig)
	require.NoError(t, err)

	return client
}

// LibraryPath returns the server relative path of the test library.
func (config *TestConfig) LibraryPath(t *testing.T) string {
	t.Helper()

	parsed, err := url.Parse(spclient.NormalizeSiteURL(config.SiteURL))
	require.NoError(t, err)

	return path.Join("/", parsed.Path, config.Library)
}

// GenerateTestName returns a unique name with the given prefix.
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// CleanupFolder deletes a folder, logging instead of failing.
func CleanupFolder(t *testing.T, web sp.Web, serverRelativePath string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := web.GetFolderByServerRelativePath(serverRelativePath).Delete(ctx, "").Wait(ctx)
	if err != nil && !sp.IsNotFound(err) {
		t.Logf("cleanup of %s failed: %v", serverRelativePath, err)
	}
}

type testLogger struct {
	t *testing.T
}

func (l testLogger) Debug(msg string, fields map[string]interface{}) { l.t.Logf("DEBUG %s %v", msg, fields) }
func (l testLogger) Info(msg string, fields map[string]interface{})  { l.t.Logf("INFO %s %v", msg, fields) }
func (l testLogger) Warn(msg string, fields map[string]interface{})  { l.t.Logf("WARN %s %v", msg, fields) }
func (l testLogger) Error(msg string, fields map[string]interface{}) { l.t.Logf("ERROR %s %v", msg, fields) }
