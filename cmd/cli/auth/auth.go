package auth

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crucial707/taskboard/cmd/cli/client"
	"github.com/crucial707/taskboard/cmd/cli/config"
)

// InitAuth registers register, login and logout on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(registerCmd(), loginCmd(), logoutCmd())
}

// ==========================
// Register
// ==========================
func registerCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		Long:  "Register a new user with username and password. Missing values are prompted for.",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := credentials(username, password)
			if err != nil {
				return err
			}

			var out struct {
				Message string `json:"message"`
			}
			payload := map[string]string{"username": username, "password": password}
			if err := client.New(config.APIURL(), "").Do("POST", "/register", payload, &out); err != nil {
				return fmt.Errorf("failed to register user: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), out.Message+". You can now login.")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to register")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

// ==========================
// Login
// ==========================
func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Long:  "Authenticate with the taskboard API and store a JWT token for subsequent CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := credentials(username, password)
			if err != nil {
				return err
			}

			var out struct {
				UserID   string `json:"user_id"`
				JWTToken string `json:"jwtToken"`
			}
			payload := map[string]string{"username": username, "password": password}
			if err := client.New(config.APIURL(), "").Do("POST", "/login", payload, &out); err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			if out.JWTToken == "" {
				return errors.New("login succeeded but no token returned")
			}

			session := config.Session{Username: username, UserID: out.UserID, Token: out.JWTToken}
			if err := config.SaveSession(session); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (user id %s).\n", username, out.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to authenticate as")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

// ==========================
// Logout
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := config.ClearSession()
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), "No user logged in.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully.")
			return nil
		},
	}
}
