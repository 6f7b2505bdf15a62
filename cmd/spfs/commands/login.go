package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fivetwenty-io/sprest/internal/constants"
	"github.com/fivetwenty-io/sprest/pkg/spclient"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		siteURL   string
		expiresIn time.Duration
		noVerify  bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a site URL and access token",
		Long: `Store a site URL and bearer access token in the configuration.

The token is read from --token, SPFS_TOKEN or prompted for. Unless --no-verify
is given, the site is read once with the token before it is saved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if siteURL == "" {
				siteURL = config.SiteURL
			}

			if siteURL == "" {
				siteURL = promptLine(cmd, "Site URL: ")
			}

			if siteURL == "" {
				return constants.ErrNoSiteConfigured
			}

			token := viper.GetString(keyToken)
			if token == "" {
				var err error

				token, err = readToken(cmd)
				if err != nil {
					return err
				}
			}

			if token == "" {
				return constants.ErrEmptyToken
			}

			config.SiteURL = spclient.NormalizeSiteURL(siteURL)
			config.Token = token
			config.TokenExpiresAt = nil

			if expiresIn > 0 {
				expiresAt := time.Now().Add(expiresIn).UTC()
				config.TokenExpiresAt = &expiresAt
			}

			if !noVerify {
				spConfig, err := buildClientConfig(config)
				if err != nil {
					return err
				}

				client, err := spclient.New(cmd.Context(), spConfig)
				if err != nil {
					return fmt.Errorf("login failed: %w", err)
				}

				info, err := client.Web().Info(cmd.Context()).Wait(cmd.Context())
				if err != nil {
					return fmt.Errorf("login failed: %w", err)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s (%s)\n", info.Title, info.URL)
			}

			err := saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved credentials for %s\n", config.SiteURL)

			return nil
		},
	}

	cmd.Flags().StringVar(&siteURL, "site-url", "", "site URL to log in to")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "token lifetime, e.g. 1h (0 means unknown)")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "save without contacting the site")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.Token = ""
			config.TokenExpiresAt = nil

			err := saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")

			return nil
		},
	}
}

func promptLine(cmd *cobra.Command, prompt string) string {
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)

	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')

	return strings.TrimSpace(line)
}

// readToken prompts without echo on a terminal and reads a line otherwise.
func readToken(cmd *cobra.Command) (string, error) {
	if file, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Access token: ")

		raw, err := term.ReadPassword(int(file.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())

		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}

		return strings.TrimSpace(string(raw)), nil
	}

	raw, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxTokenBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	return strings.TrimSpace(string(raw)), nil
}

// maxTokenBytes bounds a token piped on stdin.
const maxTokenBytes = 64 * 1024
