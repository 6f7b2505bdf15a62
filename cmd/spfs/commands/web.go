package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWebCommand creates the web command group.
func NewWebCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Inspect the site",
	}

	cmd.AddCommand(newWebInfoCommand())

	return cmd
}

func newWebInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display information about the configured site",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			info, err := client.Web().Info(cmd.Context()).Wait(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get web info: %w", err)
			}

			handled, err := renderStructured(cmd.OutOrStdout(), info)
			if handled {
				return err
			}

			table := newTable(cmd.OutOrStdout(), "Property", "Value")
			_ = table.Append("Title", valueOrNA(info.Title))
			_ = table.Append("ID", valueOrNA(info.ID))
			_ = table.Append("URL", valueOrNA(info.URL))
			_ = table.Append("Server Relative URL", valueOrNA(info.ServerRelativeURL))
			_ = table.Append("Host", valueOrNA(info.HostURL()))
			_ = table.Append("Template", valueOrNA(info.WebTemplate))
			_ = table.Append("Created", valueOrNA(info.Created))

			return renderTable(table)
		},
	}
}
