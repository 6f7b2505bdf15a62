package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/sprest/internal/constants"
	"github.com/fivetwenty-io/sprest/pkg/spclient"
)

// Configuration keys, shared by the config file, SPFS_ environment variables
// and `spfs config set`.
const (
	keySiteURL           = "site_url"
	keyToken             = "token"
	keyTokenExpiresAt    = "token_expires_at"
	keyOutput            = "output"
	keyClientTag         = "client_tag"
	keyRequestsPerSecond = "requests_per_second"
	keySkipSSLValidation = "skip_ssl_validation"
)

// Config represents the CLI configuration.
type Config struct {
	SiteURL           string     `json:"site_url,omitempty"            yaml:"site_url,omitempty"`
	Token             string     `json:"token,omitempty"               yaml:"token,omitempty"`
	TokenExpiresAt    *time.Time `json:"token_expires_at,omitempty"    yaml:"token_expires_at,omitempty"`
	Output            string     `json:"output,omitempty"              yaml:"output,omitempty"`
	ClientTag         string     `json:"client_tag,omitempty"          yaml:"client_tag,omitempty"`
	RequestsPerSecond float64    `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty"`
	SkipSSLValidation bool       `json:"skip_ssl_validation"           yaml:"skip_ssl_validation"`
}

// configSetters maps settable keys to their parsers.
var configSetters = map[string]func(*Config, string) error{
	keySiteURL: func(c *Config, value string) error {
		c.SiteURL = spclient.NormalizeSiteURL(value)

		return nil
	},
	keyToken: func(c *Config, value string) error {
		if value == "" {
			return constants.ErrEmptyToken
		}

		c.Token = value
		c.TokenExpiresAt = nil

		return nil
	},
	keyOutput: func(c *Config, value string) error {
		switch value {
		case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
			c.Output = value

			return nil
		}

		return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, value)
	},
	keyClientTag: func(c *Config, value string) error {
		c.ClientTag = value

		return nil
	},
	keyRequestsPerSecond: func(c *Config, value string) error {
		rps, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", keyRequestsPerSecond, err)
		}

		c.RequestsPerSecond = rps

		return nil
	},
	keySkipSSLValidation: func(c *Config, value string) error {
		skip, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", keySkipSSLValidation, err)
		}

		c.SkipSSLValidation = skip

		return nil
	},
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage spfs configuration such as the site URL, token and output settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			masked := *config
			masked.Token = maskToken(config.Token)

			handled, err := renderStructured(cmd.OutOrStdout(), masked)
			if handled {
				return err
			}

			expires := constants.NotAvailable
			if config.TokenExpiresAt != nil {
				expires = config.TokenExpiresAt.Format(time.RFC3339)
			}

			table := newTable(cmd.OutOrStdout(), "Property", "Value")
			_ = table.Append("Site URL", valueOrNA(config.SiteURL))
			_ = table.Append("Token", valueOrNA(masked.Token))
			_ = table.Append("Token Expires", expires)
			_ = table.Append("Output", valueOrNA(config.Output))
			_ = table.Append("Client Tag", valueOrNA(config.ClientTag))
			_ = table.Append("Requests/s", strconv.FormatFloat(config.RequestsPerSecond, 'f', -1, 64))
			_ = table.Append("Skip SSL Validation", strconv.FormatBool(config.SkipSSLValidation))

			return renderTable(table)
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + settableKeys(),
		Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			setter, ok := configSetters[key]
			if !ok {
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			config := loadConfig()

			err := setter(config, value)
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", key)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			switch args[0] {
			case keySiteURL:
				config.SiteURL = ""
			case keyToken:
				config.Token = ""
				config.TokenExpiresAt = nil
			case keyOutput:
				config.Output = ""
			case keyClientTag:
				config.ClientTag = ""
			case keyRequestsPerSecond:
				config.RequestsPerSecond = 0
			case keySkipSSLValidation:
				config.SkipSSLValidation = false
			default:
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, args[0])
			}

			err := saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

func settableKeys() string {
	keys := make([]string, 0, len(configSetters))
	for key := range configSetters {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return fmt.Sprint(keys)
}

func maskToken(token string) string {
	if len(token) <= constants.StringTruncationLimit {
		if token == "" {
			return ""
		}

		return constants.MaskedSecret
	}

	return token[:constants.StringTruncationLimit] + constants.MaskedSecret
}

// loadConfig reads the effective configuration from viper (file, env, flags).
func loadConfig() *Config {
	config := &Config{
		SiteURL:           viper.GetString(keySiteURL),
		Token:             viper.GetString(keyToken),
		Output:            viper.GetString(keyOutput),
		ClientTag:         viper.GetString(keyClientTag),
		RequestsPerSecond: viper.GetFloat64(keyRequestsPerSecond),
		SkipSSLValidation: viper.GetBool(keySkipSSLValidation),
	}

	if expires := viper.GetTime(keyTokenExpiresAt); !expires.IsZero() {
		config.TokenExpiresAt = &expires
	}

	return config
}

// configFilePath returns the file used to persist the configuration.
func configFilePath() (string, error) {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		return configFile, nil
	}

	if configFile := viper.GetString("config"); configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".spfs")

	err = os.MkdirAll(configDir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.yml"), nil
}

// saveConfigStruct writes config and makes it the effective configuration.
func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	viper.Set(keySiteURL, config.SiteURL)
	viper.Set(keyToken, config.Token)
	viper.Set(keyOutput, config.Output)
	viper.Set(keyClientTag, config.ClientTag)
	viper.Set(keyRequestsPerSecond, config.RequestsPerSecond)
	viper.Set(keySkipSSLValidation, config.SkipSSLValidation)

	if config.TokenExpiresAt != nil {
		viper.Set(keyTokenExpiresAt, *config.TokenExpiresAt)
	} else {
		viper.Set(keyTokenExpiresAt, time.Time{})
	}

	return nil
}
