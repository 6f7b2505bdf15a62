package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/sprest/pkg/sp"
)

// NewFilesCommand creates the files command group.
func NewFilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "files",
		Aliases: []string{"file"},
		Short:   "Manage files",
		Long:    "List, upload, print and delete files by server relative path",
	}

	cmd.AddCommand(newFilesListCommand())
	cmd.AddCommand(newFilesUploadCommand())
	cmd.AddCommand(newFilesCatCommand())
	cmd.AddCommand(newFilesRemoveCommand())

	return cmd
}

func newFilesListCommand() *cobra.Command {
	var match string

	cmd := &cobra.Command{
		Use:   "ls [FOLDER]",
		Short: "List the files of a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			path := ""
			if len(args) > 0 {
				path = args[0]
			}

			files, err := folderAt(client.Web(), path).Files().List(cmd.Context()).Wait(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list files: %w", err)
			}

			files = filterByName(files, match, func(f sp.FileInfo) string { return f.Name })

			handled, err := renderStructured(cmd.OutOrStdout(), files)
			if handled {
				return err
			}

			table := newTable(cmd.OutOrStdout(), "Name", "Size", "Version", "Modified")
			for _, file := range files {
				version := strconv.Itoa(file.MajorVersion) + "." + strconv.Itoa(file.MinorVersion)
				_ = table.Append(file.Name, strconv.FormatInt(file.Length, 10), version, valueOrNA(file.TimeLastModified))
			}

			return renderTable(table)
		},
	}

	cmd.Flags().StringVar(&match, "match", "", "only show names matching a glob, e.g. '*.docx'")

	return cmd
}

func newFilesUploadCommand() *cobra.Command {
	var (
		name      string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "upload LOCAL_FILE FOLDER",
		Short: "Upload a local file into a folder",
		Args:  cobra.ExactArgs(2), //nolint:mnd // local file and folder
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readLocalFile(cmd, args[0])
			if err != nil {
				return err
			}

			if name == "" {
				name = filepath.Base(args[0])
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			_, err = folderAt(client.Web(), args[1]).Files().Add(cmd.Context(), name, content, overwrite).Wait(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to upload file: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%d bytes)\n", joinPath(args[1], name), len(content))

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "remote file name (default is the local base name)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing file")

	return cmd
}

// readLocalFile reads path, or stdin when path is "-".
func readLocalFile(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}

		return content, nil
	}

	// path is supplied by the operator running the CLI
	// #nosec G304
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return content, nil
}

func newFilesCatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cat PATH",
		Short: "Print the content of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			text, err := client.Web().GetFileByServerRelativePath(args[0]).GetText(cmd.Context()).Wait(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}

			_, err = io.WriteString(cmd.OutOrStdout(), text)

			return err
		},
	}
}

func newFilesRemoveCommand() *cobra.Command {
	var (
		etag    string
		recycle bool
	)

	cmd := &cobra.Command{
		Use:   "rm PATH",
		Short: "Delete or recycle a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			file := client.Web().GetFileByServerRelativePath(args[0])

			if recycle {
				id, err := file.Recycle(ctx).Wait(ctx)
				if err != nil {
					return fmt.Errorf("failed to recycle file: %w", err)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Recycled %s (%s)\n", args[0], id)

				return nil
			}

			_, err = file.Delete(ctx, etag).Wait(ctx)
			if err != nil {
				return fmt.Errorf("failed to delete file: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().StringVar(&etag, "etag", "", "only delete when the file still has this etag")
	cmd.Flags().BoolVar(&recycle, "recycle", false, "move to the recycle bin instead of deleting")

	return cmd
}
