package client

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fivetwenty-io/sprest/internal/auth"
	"github.com/fivetwenty-io/sprest/internal/constants"
	sphttp "github.com/fivetwenty-io/sprest/internal/http"
	"github.com/fivetwenty-io/sprest/pkg/sp"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
)

// defaultRateBurst is the burst allowed by the client side rate limiter.
const defaultRateBurst = 1

var _ sp.Client = (*Client)(nil)

// Client owns the HTTP stack behind a root Web handle.
type Client struct {
	httpClient   *sphttp.Client
	tokenManager auth.TokenManager
	transport    sp.Transport
	siteURL      string
	logger       sp.Logger
	web          sp.Web
}

// New creates a client for config.SiteURL. With VerifySiteOnInit the web is
// read once and a failure is returned.
func New(ctx context.Context, config *sp.Config) (*Client, error) {
	if config == nil {
		return nil, sp.ErrConfigRequired
	}

	return NewWithTokenManager(ctx, config, createTokenManager(config))
}

// NewWithTokenManager creates a client that authenticates with tokenManager
// instead of config.AccessToken.
func NewWithTokenManager(ctx context.Context, config *sp.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, sp.ErrConfigRequired
	}

	err := config.Validate()
	if err != nil {
		return nil, err
	}

	httpClient := sphttp.NewClient(config.SiteURL, tokenManager, createHTTPClientOptions(config)...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		siteURL:      config.SiteURL,
		logger:       config.Logger,
	}

	client.transport = sp.WithInterceptors(&transportAdapter{client: httpClient}, createInterceptorChain(config))
	client.web = sp.NewWeb(client.transport, config.SiteURL)

	if config.VerifySiteOnInit {
		_, err = client.web.Info(ctx).Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("verifying site %s: %w", config.SiteURL, err)
		}
	}

	return client, nil
}

// createTokenManager creates a static token manager when a token is configured.
func createTokenManager(config *sp.Config) auth.TokenManager {
	if config.AccessToken == "" {
		return nil // No authentication
	}

	return auth.NewStaticTokenManager(config.AccessToken, time.Time{})
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *sp.Config) []sphttp.Option {
	var httpOpts []sphttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, sphttp.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, sphttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, sphttp.WithUserAgent(config.UserAgent))
	}

	if config.SkipTLSVerify {
		httpOpts = append(httpOpts, sphttp.WithHTTPClient(&http.Client{
			Timeout: constants.DefaultHTTPTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402 -- gated by the caller
			},
		}))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, sphttp.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.ExtendedRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, sphttp.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// createInterceptorChain assembles the built-in interceptors followed by the
// caller's chain.
func createInterceptorChain(config *sp.Config) *sp.InterceptorChain {
	chain := sp.NewInterceptorChain()

	if config.RequestsPerSecond > 0 {
		chain.AddRequestInterceptor(sp.RateLimitInterceptor(config.RequestsPerSecond, defaultRateBurst))
	}

	if config.ClientTag != "" {
		chain.AddRequestInterceptor(sp.ClientTagInterceptor(config.ClientTag))
	}

	if config.Logger != nil {
		chain.AddRequestInterceptor(sp.LoggingInterceptor(config.Logger))
		chain.AddResponseInterceptor(sp.LoggingResponseInterceptor(config.Logger))
	}

	if config.Interceptors != nil {
		chain.AddRequestInterceptor(config.Interceptors.ExecuteRequestInterceptors)
		chain.AddResponseInterceptor(config.Interceptors.ExecuteResponseInterceptors)
	}

	return chain
}

// Web returns the root web handle.
func (c *Client) Web() sp.Web {
	return c.web
}

// Transport returns the transport behind Web, including interceptors.
func (c *Client) Transport() sp.Transport {
	return c.transport
}

// SiteURL returns the configured site URL.
func (c *Client) SiteURL() string {
	return c.siteURL
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// GetToken returns the current access token from the token manager.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", ErrNoTokenManagerConfigured
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// transportAdapter sends sp requests through the retrying HTTP client.
type transportAdapter struct {
	client *sphttp.Client
}

func (t *transportAdapter) Do(ctx context.Context, req *sp.Request) (*sp.Response, error) {
	headers := make(map[string]string, len(req.Headers))
	for key := range req.Headers {
		headers[key] = req.Headers.Get(key)
	}

	httpReq := &sphttp.Request{
		Method:  req.Method,
		Path:    req.URL,
		Headers: headers,
	}

	if req.Body != nil {
		httpReq.Body = req.Body
	}

	resp, err := t.client.Do(ctx, httpReq)
	if resp == nil {
		return nil, err
	}

	return &sp.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
		Error:      err,
	}, err
}

// loggerAdapter adapts sp.Logger to the HTTP layer logger.
type loggerAdapter struct {
	logger sp.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
