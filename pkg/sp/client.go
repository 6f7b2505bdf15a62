package sp

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Verb is the HTTP method of a pending operation.
type Verb string

// Verbs understood by the remote REST surface.
const (
	VerbGet    Verb = http.MethodGet
	VerbPost   Verb = http.MethodPost
	VerbPatch  Verb = http.MethodPatch
	VerbDelete Verb = http.MethodDelete
)

// Request is a fully built request handed to a Transport.
type Request struct {
	Method   string
	URL      string
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// Operation returns the operation name recorded on the request, if any.
func (r *Request) Operation() string {
	if r.Metadata == nil {
		return ""
	}

	name, _ := r.Metadata[MetadataOperation].(string)

	return name
}

// Response is what a Transport returns for a Request.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// Transport sends a single request. Implementations return a non-nil error
// for network failures and for non-2xx responses; in the latter case the
// error should be an *APIError and the Response is still returned.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

// Do implements Transport.
func (f TransportFunc) Do(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a root Web handle.
//
// Authentication is limited to attaching AccessToken as a bearer token.
// Obtaining the token is the caller's concern.
//
// Per-request timeouts should generally be controlled via the context passed
// to action methods. HTTPTimeout bounds every single HTTP exchange,
// including retries of the transport.
type Config struct {
	// SiteURL: absolute URL of the site (e.g., "https://contoso.example.com/sites/dev").
	// spclient.New trims a trailing slash and adds "https://" when no scheme is present.
	SiteURL string

	// AccessToken: bearer token attached to every request.
	AccessToken string

	// HTTPTimeout: timeout of one HTTP exchange. Defaults to 30s.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of retries for transient failures (>=500, 429,
	// and connection errors). If 0, the transport default is used.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration

	// RequestsPerSecond: client-side rate limit. Zero disables limiting.
	RequestsPerSecond float64
	// ClientTag: prefix of the X-ClientService-ClientTag header. Empty disables tagging.
	ClientTag string
	// UserAgent: overrides the default User-Agent header.
	UserAgent string

	// Debug: enables verbose request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer and interceptors.
	Logger Logger
	// Interceptors: optional caller supplied chain run around every request.
	Interceptors *InterceptorChain
	// VerifySiteOnInit: when true, the client reads the web once on creation.
	VerifySiteOnInit bool
	// SkipTLSVerify: disables certificate checks. spclient only honours it
	// when SPREST_DEV_MODE is set.
	SkipTLSVerify bool
}

// Client is the entry point returned by spclient.New.
type Client interface {
	// Web returns the root web handle of the configured site.
	Web() Web
	// Transport returns the transport used by Web, interceptors included.
	Transport() Transport
	SiteURL() string
	GetToken(ctx context.Context) (string, error)
}

var absoluteHTTPURL = regexp.MustCompile(`^https?://[^/\s]+`)

// Validate checks the configuration.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.SiteURL,
			validation.Required.Error(ErrSiteURLRequired.Error()),
			validation.Match(absoluteHTTPURL).Error("must be an absolute http(s) URL"),
		),
		validation.Field(&c.RetryMax, validation.Min(0)),
		validation.Field(&c.RequestsPerSecond, validation.Min(0.0)),
		validation.Field(&c.HTTPTimeout, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}
