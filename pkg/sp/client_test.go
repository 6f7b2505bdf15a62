package sp_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/sprest/pkg/sp"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  sp.Config
		wantErr string
	}{
		{
			name:   "valid",
			config: sp.Config{SiteURL: siteURL, RetryMax: 3, RequestsPerSecond: 2.5, HTTPTimeout: time.Second},
		},
		{
			name:    "missing site",
			config:  sp.Config{},
			wantErr: "site URL is required",
		},
		{
			name:    "relative site",
			config:  sp.Config{SiteURL: "/sites/dev"},
			wantErr: "must be an absolute http(s) URL",
		},
		{
			name:    "negative retries",
			config:  sp.Config{SiteURL: siteURL, RetryMax: -1},
			wantErr: "RetryMax",
		},
		{
			name:    "negative rate",
			config:  sp.Config{SiteURL: siteURL, RequestsPerSecond: -1},
			wantErr: "RequestsPerSecond",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.config.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, sp.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
