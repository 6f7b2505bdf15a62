package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/sprest/internal/auth"
	"github.com/fivetwenty-io/sprest/internal/constants"
	"github.com/fivetwenty-io/sprest/pkg/sp"
	"github.com/fivetwenty-io/sprest/pkg/spclient"
)

const (
	// JSON formatting.
	defaultJSONIndent = 2

	userAgentPrefix = "spfs/"
)

// cliVersion is reported in the User-Agent header.
var cliVersion = "dev"

// hclogAdapter adapts hclog.Logger to sp.Logger.
type hclogAdapter struct {
	logger hclog.Logger
}

func newLogger() sp.Logger {
	level := hclog.Info
	if viper.GetBool("verbose") {
		level = hclog.Debug
	}

	return &hclogAdapter{logger: hclog.New(&hclog.LoggerOptions{
		Name:   "spfs",
		Level:  level,
		Output: os.Stderr,
	})}
}

// keyValues flattens fields into hclog's alternating key/value form, sorted by key.
func keyValues(fields map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	args := make([]interface{}, 0, len(fields)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}

	return args
}

func (l *hclogAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, keyValues(fields)...)
}

func (l *hclogAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, keyValues(fields)...)
}

func (l *hclogAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, keyValues(fields)...)
}

func (l *hclogAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, keyValues(fields)...)
}

// buildClientConfig turns the CLI configuration into an sp.Config.
func buildClientConfig(config *Config) (*sp.Config, error) {
	if config.SiteURL == "" {
		return nil, constants.ErrNoSiteConfigured
	}

	if config.TokenExpiresAt != nil && !config.TokenExpiresAt.IsZero() && time.Now().After(*config.TokenExpiresAt) {
		return nil, fmt.Errorf("token for %s: %w", config.SiteURL, auth.ErrTokenExpired)
	}

	spConfig := &sp.Config{
		SiteURL:           config.SiteURL,
		AccessToken:       config.Token,
		ClientTag:         config.ClientTag,
		RequestsPerSecond: config.RequestsPerSecond,
		SkipTLSVerify:     config.SkipSSLValidation,
		UserAgent:         userAgentPrefix + cliVersion,
	}

	if viper.GetBool("verbose") {
		spConfig.Logger = newLogger()
		spConfig.Debug = true
	}

	return spConfig, nil
}

// createClient builds a client from the current configuration.
func createClient(ctx context.Context) (sp.Client, error) {
	spConfig, err := buildClientConfig(loadConfig())
	if err != nil {
		return nil, err
	}

	client, err := spclient.New(ctx, spConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// outputFormat returns the validated output format.
func outputFormat() (string, error) {
	output := viper.GetString("output")

	switch output {
	case "", constants.FormatTable:
		return constants.FormatTable, nil
	case constants.FormatJSON, constants.FormatYAML:
		return output, nil
	default:
		return "", fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, output)
	}
}

// renderStructured writes value as JSON or YAML. It reports false for table output.
func renderStructured(writer io.Writer, value interface{}) (bool, error) {
	format, err := outputFormat()
	if err != nil {
		return true, err
	}

	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", strings.Repeat(" ", defaultJSONIndent))

		return true, encoder.Encode(value)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(writer)
		defer func() { _ = encoder.Close() }()

		return true, encoder.Encode(value)
	}

	return false, nil
}

func newTable(writer io.Writer, headers ...interface{}) *tablewriter.Table {
	table := tablewriter.NewWriter(writer)
	table.Header(headers...)

	return table
}

func renderTable(table *tablewriter.Table) error {
	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// parseAssignments parses key=value arguments. true/false and integers are
// converted, everything else stays a string.
func parseAssignments(args []string) (map[string]interface{}, error) {
	props := make(map[string]interface{}, len(args))

	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrPropertyFormat, arg)
		}

		switch {
		case value == constants.BooleanTrue:
			props[key] = true
		case value == constants.BooleanFalse:
			props[key] = false
		default:
			if number, err := strconv.Atoi(value); err == nil {
				props[key] = number
			} else {
				props[key] = value
			}
		}
	}

	return props, nil
}

// joinPath joins a server relative folder path and a leaf name.
func joinPath(folder, leaf string) string {
	return strings.TrimRight(folder, "/") + "/" + strings.TrimLeft(leaf, "/")
}

func valueOrNA(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}
