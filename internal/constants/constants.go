package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ExtendedHTTPTimeout is used for longer operations such as batches.
	ExtendedHTTPTimeout = 45 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 5

	// LowRetryMax is used for operations that should retry fewer times.
	LowRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// ExtendedRetryWaitMax is used for operations that need longer waits.
	ExtendedRetryWaitMax = 30 * time.Second
)

// HTTP status codes commonly used.
const (
	// HTTPStatusOK represents a successful HTTP response.
	HTTPStatusOK = 200

	// HTTPStatusMultipleChoices is the first non-success status.
	HTTPStatusMultipleChoices = 300

	// HTTPStatusBadRequest represents a client error.
	HTTPStatusBadRequest = 400

	// HTTPStatusInternalServerError represents server errors.
	HTTPStatusInternalServerError = 500
)

// OData media types and headers.
const (
	// ODataVerbose is the JSON flavour used for requests carrying __metadata.
	ODataVerbose = "application/json;odata=verbose"

	// ODataVerboseUTF8 is the request content type for verbose bodies.
	ODataVerboseUTF8 = "application/json;odata=verbose;charset=utf-8"

	// ContentTypeHTTP labels a single request inside a batch.
	ContentTypeHTTP = "application/http"

	// ContentTypeMultipartMixed is the envelope of a batch request and response.
	ContentTypeMultipartMixed = "multipart/mixed"

	// HeaderIfMatch is the optimistic concurrency header.
	HeaderIfMatch = "IF-Match"

	// HeaderClientTag carries the operation tag of a request.
	HeaderClientTag = "X-ClientService-ClientTag"

	// MatchAny matches any resource version.
	MatchAny = "*"
)

// Remote API paths.
const (
	// APIPathSegment separates a web URL from its REST surface.
	APIPathSegment = "_api"

	// BatchEndpoint is the batch endpoint relative to a web URL.
	BatchEndpoint = "_api/$batch"

	// MoveCopyUtil is the namespace of the move/copy helpers.
	MoveCopyUtil = "_api/SP.MoveCopyUtil"
)

// Display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// StringTruncationLimit is the number of characters kept when masking.
	StringTruncationLimit = 4
)

// Boolean string constants.
const (
	// BooleanTrue string representation.
	BooleanTrue = "true"

	// BooleanFalse string representation.
	BooleanFalse = "false"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)
