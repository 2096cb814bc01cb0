package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/webskin/iiot-go-cli/internal/output"
	"github.com/webskin/iiot-go-cli/internal/platform"
)

// Delete confirmation flag
var filesDeleteForce bool

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Manage files",
	Long:  `Manage documents attached to assets, such as manuals, drawings and exports.`,
}

var filesListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List files",
	Annotations: map[string]string{"route": "GET /api/v1/projects/:project/files"},
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		ctx := context.Background()

		if getOutputFormat() != output.Table {
			page, err := platform.ListFiles(client, ctx, listOptions(), platform.Identity)
			if err != nil {
				return err
			}
			return printPage(cmd, page)
		}

		page, err := platform.ListFiles(client, ctx, listOptions(), platform.ParseFile)
		if err != nil {
			return err
		}
		return printPage(cmd, page)
	},
}

var filesGetCmd = &cobra.Command{
	Use:         "get <file-id>",
	Short:       "Get file metadata",
	Annotations: map[string]string{"route": "GET /api/v1/projects/:project/files/:id"},
	Args:        cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		ctx := context.Background()

		if getOutputFormat() != output.Table {
			raw, err := platform.GetFile(client, ctx, args[0], platform.Identity)
			if err != nil {
				return err
			}
			return output.PrintTo(cmd.OutOrStdout(), raw, getOutputFormat())
		}

		file, err := platform.GetFile(client, ctx, args[0], platform.ParseFilePtr)
		if err != nil {
			return err
		}
		return output.PrintTo(cmd.OutOrStdout(), file, output.Table)
	},
}

var filesDeleteCmd = &cobra.Command{
	Use:         "delete <file-id>",
	Short:       "Delete a file",
	Annotations: map[string]string{"route": "DELETE /api/v1/projects/:project/files/:id"},
	Args:        cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileID := args[0]

		// Confirm deletion unless --force is used
		if !filesDeleteForce {
			if !confirmDeletion(cmd, "file", fileID) {
				return nil
			}
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		if err := client.DeleteFile(context.Background(), fileID); err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "File deleted successfully: %s\n", fileID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filesCmd)
	filesCmd.AddCommand(filesListCmd)
	filesCmd.AddCommand(filesGetCmd)
	filesCmd.AddCommand(filesDeleteCmd)

	addListFlags(filesListCmd)
	filesDeleteCmd.Flags().BoolVarP(&filesDeleteForce, "force", "f", false, "Skip confirmation prompt")
}
