package constants

import "errors"

// Configuration errors.
var (
	ErrNoSiteConfigured  = errors.New("no site configured, use 'spfs config set site_url <url>' to set one")
	ErrNoTokenConfigured = errors.New("no access token configured, use 'spfs login' to store one")
	ErrUnknownConfigKey  = errors.New("unknown configuration key")
	ErrEmptyToken        = errors.New("access token must not be empty")
)

// Command errors.
var (
	ErrDestinationRequired = errors.New("destination path is required")
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrPropertyFormat      = errors.New("properties must be given as key=value")
	ErrBatchHadFailures    = errors.New("one or more batched operations failed")
)
