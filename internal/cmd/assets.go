package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/webskin/iiot-go-cli/internal/output"
	"github.com/webskin/iiot-go-cli/internal/platform"
	"github.com/webskin/iiot-go-cli/internal/progress"
)

var (
	// Asset flags
	assetName        string
	assetExternalID  string
	assetDescription string
	assetParentID    string
	assetData        string
	// Delete confirmation flag
	assetsDeleteForce bool
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Manage assets",
	Long:  `Manage the assets of a project. Assets form the plant hierarchy: sites, lines, machines and sensors.`,
}

var assetsListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List assets",
	Annotations: map[string]string{"route": "GET /api/v1/projects/:project/assets"},
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		ctx := context.Background()

		// Raw records keep the server's field order for json and yaml
		if getOutputFormat() != output.Table {
			page, err := platform.ListAssets(client, ctx, listOptions(), platform.Identity)
			if err != nil {
				return err
			}
			return printPage(cmd, page)
		}

		page, err := platform.ListAssets(client, ctx, listOptions(), platform.ParseAsset)
		if err != nil {
			return err
		}
		return printPage(cmd, page)
	},
}

var assetsGetCmd = &cobra.Command{
	Use:         "get <asset-id>",
	Short:       "Get an asset",
	Annotations: map[string]string{"route": "GET /api/v1/projects/:project/assets/:id"},
	Args:        cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		ctx := context.Background()

		if getOutputFormat() != output.Table {
			raw, err := platform.GetAsset(client, ctx, args[0], platform.Identity)
			if err != nil {
				return err
			}
			return output.PrintTo(cmd.OutOrStdout(), raw, getOutputFormat())
		}

		asset, err := platform.GetAsset(client, ctx, args[0], platform.ParseAssetPtr)
		if err != nil {
			return err
		}
		return output.PrintTo(cmd.OutOrStdout(), asset, output.Table)
	},
}

var assetsCreateCmd = &cobra.Command{
	Use:         "create",
	Short:       "Create an asset",
	Annotations: map[string]string{"route": "POST /api/v1/projects/:project/assets"},
	Long: `Create an asset from flags or from a JSON document.

Examples:
  iiot assets create --name "Press 4" --parent-id line-2
  iiot assets create --data @asset.json
  cat asset.json | iiot assets create --data -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := assetInputFromFlags(cmd)
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		created, err := platform.CreateAsset(client, context.Background(), input, platform.Identity)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.ErrOrStderr(), "Asset created successfully")
		return output.PrintTo(cmd.OutOrStdout(), created, getOutputFormat())
	},
}

var assetsUpdateCmd = &cobra.Command{
	Use:         "update <asset-id>",
	Short:       "Update an asset",
	Annotations: map[string]string{"route": "PATCH /api/v1/projects/:project/assets/:id"},
	Long:        `Update an asset. Only the fields given are changed.`,
	Args:        cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := assetInputFromFlags(cmd)
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		updated, err := platform.UpdateAsset(client, context.Background(), args[0], input, platform.Identity)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Asset updated successfully: %s\n", args[0])
		return output.PrintTo(cmd.OutOrStdout(), updated, getOutputFormat())
	},
}

var assetsDeleteCmd = &cobra.Command{
	Use:         "delete <asset-id>...",
	Short:       "Delete one or more assets",
	Annotations: map[string]string{"route": "DELETE /api/v1/projects/:project/assets/:id"},
	Args:        cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Confirm deletion unless --force is used
		if !assetsDeleteForce {
			if !confirmDeletion(cmd, "asset", args...) {
				return nil
			}
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		err = progress.Run(cmd.ErrOrStderr(), fmt.Sprintf("Deleting %d asset(s)", len(args)), func() error {
			return client.DeleteAssets(context.Background(), args...)
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Deleted %d asset(s)\n", len(args))
		return nil
	},
}

// assetInputFromFlags builds an asset from --data, then applies the
// individual field flags on top
func assetInputFromFlags(cmd *cobra.Command) (platform.AssetInput, error) {
	var input platform.AssetInput
	if cmd.Flags().Changed("data") {
		if err := parseJSONData(cmd, assetData, &input); err != nil {
			return input, err
		}
	}
	if cmd.Flags().Changed("name") {
		input.Name = assetName
	}
	if cmd.Flags().Changed("external-id") {
		input.ExternalID = assetExternalID
	}
	if cmd.Flags().Changed("description") {
		input.Description = assetDescription
	}
	if cmd.Flags().Changed("parent-id") {
		input.ParentID = assetParentID
	}
	return input, nil
}

func init() {
	rootCmd.AddCommand(assetsCmd)
	assetsCmd.AddCommand(assetsListCmd)
	assetsCmd.AddCommand(assetsGetCmd)
	assetsCmd.AddCommand(assetsCreateCmd)
	assetsCmd.AddCommand(assetsUpdateCmd)
	assetsCmd.AddCommand(assetsDeleteCmd)

	addListFlags(assetsListCmd)

	// Dynamic completion for asset id arguments
	assetsGetCmd.ValidArgsFunction = completeAssetIDs
	assetsUpdateCmd.ValidArgsFunction = completeAssetIDs
	assetsDeleteCmd.ValidArgsFunction = completeAssetIDs

	for _, c := range []*cobra.Command{assetsCreateCmd, assetsUpdateCmd} {
		c.Flags().StringVar(&assetName, "name", "", "Asset name")
		c.Flags().StringVar(&assetExternalID, "external-id", "", "Identifier of the asset in the source system")
		c.Flags().StringVar(&assetDescription, "description", "", "Asset description")
		c.Flags().StringVar(&assetParentID, "parent-id", "", "Parent asset id")
		c.Flags().StringVar(&assetData, "data", "", "JSON asset data (inline, @file or - for stdin)")
	}
	assetsDeleteCmd.Flags().BoolVarP(&assetsDeleteForce, "force", "f", false, "Skip confirmation prompt")
}
