package commands

import (
	"fmt"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/sprest/internal/constants"
	"github.com/fivetwenty-io/sprest/pkg/sp"
)

// NewFoldersCommand creates the folders command group.
func NewFoldersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folders",
		Aliases: []string{"folder", "f"},
		Short:   "Manage folders",
		Long:    "List, create, move, copy, update and delete folders by server relative path",
	}

	cmd.AddCommand(newFoldersListCommand())
	cmd.AddCommand(newFoldersInfoCommand())
	cmd.AddCommand(newFoldersAddCommand())
	cmd.AddCommand(newFoldersMkdirCommand())
	cmd.AddCommand(newFoldersRemoveCommand())
	cmd.AddCommand(newFoldersMoveCommand())
	cmd.AddCommand(newFoldersCopyCommand())
	cmd.AddCommand(newFoldersUpdateCommand())
	cmd.AddCommand(newFoldersBatchAddCommand())

	return cmd
}

// folderAt resolves a server relative path, the root folder when path is empty.
func folderAt(web sp.Web, path string) sp.Folder {
	if path == "" || path == "/" {
		return web.RootFolder()
	}

	return web.GetFolderByServerRelativePath(path)
}

func newFoldersListCommand() *cobra.Command {
	var match string

	cmd := &cobra.Command{
		Use:   "ls [PATH]",
		Short: "List the sub folders of a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if match != "" && !doublestar.ValidatePattern(match) {
				return fmt.Errorf("%w: %s", doublestar.ErrBadPattern, match)
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			path := ""
			if len(args) > 0 {
				path = args[0]
			}

			folders, err := folderAt(client.Web(), path).Folders().List(cmd.Context()).Wait(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list folders: %w", err)
			}

			folders = filterByName(folders, match, func(f sp.FolderInfo) string { return f.Name })

			handled, err := renderStructured(cmd.OutOrStdout(), folders)
			if handled {
				return err
			}

			table := newTable(cmd.OutOrStdout(), "Name", "Items", "Server Relative URL", "Modified")
			for _, folder := range folders {
				_ = table.Append(folder.Name, strconv.Itoa(folder.ItemCount), folder.ServerRelativeURL,
					valueOrNA(folder.TimeLastModified))
			}

			return renderTable(table)
		},
	}

	cmd.Flags().StringVar(&match, "match", "", "only show names matching a glob, e.g. '202[0-9]*'")

	return cmd
}

// filterByName keeps the entries whose name matches pattern. An empty pattern keeps all.
func filterByName[T any](entries []T, pattern string, name func(T) string) []T {
	if pattern == "" {
		return entries
	}

	kept := make([]T, 0, len(entries))

	for _, entry := range entries {
		if ok, _ := doublestar.Match(pattern, name(entry)); ok {
			kept = append(kept, entry)
		}
	}

	return kept
}

func newFoldersInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info PATH",
		Short: "Show folder properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			info, err := folderAt(client.Web(), args[0]).Info(cmd.Context()).Wait(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get folder: %w", err)
			}

			handled, err := renderStructured(cmd.OutOrStdout(), info)
			if handled {
				return err
			}

			table := newTable(cmd.OutOrStdout(), "Property", "Value")
			_ = table.Append("Name", info.Name)
			_ = table.Append("Server Relative URL", info.ServerRelativeURL)
			_ = table.Append("Items", strconv.Itoa(info.ItemCount))
			_ = table.Append("Unique ID", valueOrNA(info.UniqueID))
			_ = table.Append("Created", valueOrNA(info.TimeCreated))
			_ = table.Append("Modified", valueOrNA(info.TimeLastModified))
			_ = table.Append("Welcome Page", valueOrNA(info.WelcomePage))

			return renderTable(table)
		},
	}
}

func newFoldersAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add PARENT NAME",
		Short: "Create a folder inside PARENT",
		Args:  cobra.ExactArgs(2), //nolint:mnd // parent and name
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			_, err = folderAt(client.Web(), args[0]).Folders().Add(cmd.Context(), args[1]).Wait(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to create folder: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", joinPath(args[0], args[1]))

			return nil
		},
	}
}

func newFoldersMkdirCommand() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "mkdir PATH",
		Short: "Create a folder at a server relative path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			result, err := client.Web().Folders().AddUsingPath(cmd.Context(), args[0], overwrite).Wait(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to create folder: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", valueOrNA(result.Data.String("ServerRelativeUrl")))

			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite an existing folder")

	return cmd
}

func newFoldersRemoveCommand() *cobra.Command {
	var (
		etag          string
		recycle       bool
		deleteIfEmpty bool
		bypassLock    bool
	)

	cmd := &cobra.Command{
		Use:   "rm PATH",
		Short: "Delete or recycle a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			folder := folderAt(client.Web(), args[0])

			switch {
			case recycle:
				id, err := folder.Recycle(ctx).Wait(ctx)
				if err != nil {
					return fmt.Errorf("failed to recycle folder: %w", err)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Recycled %s (%s)\n", args[0], id)

				return nil
			case deleteIfEmpty || bypassLock:
				params := sp.FolderDeleteParams{ETagMatch: etag, DeleteIfEmpty: deleteIfEmpty, BypassSharedLock: bypassLock}

				_, err = folder.DeleteWithParams(ctx, params).Wait(ctx)
			default:
				_, err = folder.Delete(ctx, etag).Wait(ctx)
			}

			if err != nil {
				if sp.IsPreconditionFailed(err) {
					return fmt.Errorf("folder changed since etag %s: %w", etag, err)
				}

				return fmt.Errorf("failed to delete folder: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().StringVar(&etag, "etag", "", "only delete when the folder still has this etag")
	cmd.Flags().BoolVar(&recycle, "recycle", false, "move to the recycle bin instead of deleting")
	cmd.Flags().BoolVar(&deleteIfEmpty, "if-empty", false, "only delete an empty folder")
	cmd.Flags().BoolVar(&bypassLock, "bypass-shared-lock", false, "delete even when files hold shared locks")

	return cmd
}

type moveCopyFlags struct {
	byPath   bool
	keepBoth bool
}

func (f *moveCopyFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.byPath, "by-path", false, "use the resource path variant (supports % and #)")
	cmd.Flags().BoolVar(&f.keepBoth, "keep-both", false, "keep both folders on a name clash (with --by-path)")
}

func newFoldersMoveCommand() *cobra.Command {
	var flags moveCopyFlags

	cmd := &cobra.Command{
		Use:   "mv SOURCE DEST",
		Short: "Move a folder",
		Long:  "Move a folder. DEST may be absolute or server relative.",
		Args:  cobra.ExactArgs(2), //nolint:mnd // source and destination
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMoveCopy(cmd, args, "move", "Moved", func(f sp.Folder) *sp.Pending[*sp.Result] {
				if flags.byPath {
					return f.MoveByPath(cmd.Context(), args[1], flags.keepBoth)
				}

				return f.MoveTo(cmd.Context(), args[1])
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newFoldersCopyCommand() *cobra.Command {
	var flags moveCopyFlags

	cmd := &cobra.Command{
		Use:   "cp SOURCE DEST",
		Short: "Copy a folder",
		Long:  "Copy a folder. DEST may be absolute or server relative.",
		Args:  cobra.ExactArgs(2), //nolint:mnd // source and destination
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMoveCopy(cmd, args, "copy", "Copied", func(f sp.Folder) *sp.Pending[*sp.Result] {
				if flags.byPath {
					return f.CopyByPath(cmd.Context(), args[1], flags.keepBoth)
				}

				return f.CopyTo(cmd.Context(), args[1])
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func runMoveCopy(cmd *cobra.Command, args []string, action, done string,
	run func(sp.Folder) *sp.Pending[*sp.Result],
) error {
	if args[1] == "" {
		return constants.ErrDestinationRequired
	}

	client, err := createClient(cmd.Context())
	if err != nil {
		return err
	}

	_, err = run(folderAt(client.Web(), args[0])).Wait(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to %s folder: %w", action, err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s to %s\n", done, args[0], args[1])

	return nil
}

func newFoldersUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update PATH KEY=VALUE...",
		Short: "Update folder properties",
		Args:  cobra.MinimumNArgs(2), //nolint:mnd // path and at least one property
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			_, err = folderAt(client.Web(), args[0]).Update(cmd.Context(), props).Wait(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to update folder: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", args[0])

			return nil
		},
	}
}

func newFoldersBatchAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "batch-add PARENT NAME...",
		Short: "Create several folders in one batch request",
		Args:  cobra.MinimumNArgs(2), //nolint:mnd // parent and at least one name
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			web := client.Web()
			batch := web.CreateBatch()
			folders := folderAt(web, args[0]).Folders().InBatch(batch)

			names := args[1:]
			pending := make([]*sp.Pending[*sp.FolderAddResult], 0, len(names))

			for _, name := range names {
				pending = append(pending, folders.Add(ctx, name))
			}

			err = batch.Execute(ctx)
			if err != nil {
				return fmt.Errorf("failed to execute batch: %w", err)
			}

			var failures *multierror.Error

			for i, name := range names {
				_, err := pending[i].Result()
				if err != nil {
					failures = multierror.Append(failures, fmt.Errorf("%s: %w", name, err))

					continue
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", joinPath(args[0], name))
			}

			if failures.ErrorOrNil() != nil {
				return fmt.Errorf("%w: %w", constants.ErrBatchHadFailures, failures)
			}

			return nil
		},
	}
}
