package users

import (
	"github.com/spf13/cobra"

	"github.com/crucial707/taskboard/cmd/cli/client"
	"github.com/crucial707/taskboard/cmd/cli/config"
	"github.com/crucial707/taskboard/cmd/cli/output"
)

// User mirrors the API's public user shape.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// ==========================
// CLI Command Init
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect registered users",
	}
	usersCmd.AddCommand(listUsersCmd())
	rootCmd.AddCommand(usersCmd)
}

// ==========================
// List Users
// ==========================
func listUsersCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Optional: the server only requires a token in owner mode.
			session, _ := config.LoadSession()

			var users []User
			if err := client.New(config.APIURL(), session.Token).Do("GET", "/users/", nil, &users); err != nil {
				return err
			}

			if asJSON {
				return output.PrintJSON(cmd.OutOrStdout(), users)
			}
			rows := make([][]interface{}, 0, len(users))
			for _, u := range users {
				rows = append(rows, []interface{}{u.ID, u.Username})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Username"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")
	return cmd
}
