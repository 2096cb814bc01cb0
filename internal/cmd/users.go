package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/webskin/iiot-go-cli/internal/output"
	"github.com/webskin/iiot-go-cli/internal/platform"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect users",
	Long:  `Inspect the users known to the coordinator service.`,
}

var usersMeCmd = &cobra.Command{
	Use:         "me",
	Short:       "Show the user the API token belongs to",
	Annotations: map[string]string{"route": "GET /api/v1/projects/:project/coordinator/users/me"},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		ctx := context.Background()

		if getOutputFormat() != output.Table {
			raw, err := platform.GetCurrentUser(client, ctx, platform.Identity)
			if err != nil {
				return err
			}
			return output.PrintTo(cmd.OutOrStdout(), raw, getOutputFormat())
		}

		user, err := platform.GetCurrentUser(client, ctx, platform.ParseUserPtr)
		if err != nil {
			return err
		}
		return output.PrintTo(cmd.OutOrStdout(), user, output.Table)
	},
}

var usersListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List the project's users",
	Annotations: map[string]string{"route": "GET /api/v1/projects/:project/coordinator/users"},
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		ctx := context.Background()

		if getOutputFormat() != output.Table {
			page, err := platform.ListUsers(client, ctx, listOptions(), platform.Identity)
			if err != nil {
				return err
			}
			return printPage(cmd, page)
		}

		page, err := platform.ListUsers(client, ctx, listOptions(), platform.ParseUser)
		if err != nil {
			return err
		}
		return printPage(cmd, page)
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersMeCmd)
	usersCmd.AddCommand(usersListCmd)

	addListFlags(usersListCmd)
}
