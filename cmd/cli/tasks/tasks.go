package tasks

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crucial707/taskboard/cmd/cli/client"
	"github.com/crucial707/taskboard/cmd/cli/config"
	"github.com/crucial707/taskboard/cmd/cli/output"
)

// Task mirrors the API's task shape.
type Task struct {
	ID        string `json:"_id"`
	UserID    string `json:"user_id"`
	Task      string `json:"task"`
	IsChecked bool   `json:"isChecked"`
}

type messageResponse struct {
	Message string `json:"message"`
	TaskID  string `json:"task_id,omitempty"`
}

// ==========================
// Init Tasks
// ==========================
func InitTasks(rootCmd *cobra.Command) {
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks",
	}

	tasksCmd.AddCommand(
		listTasksCmd(),
		addTaskCmd(),
		setCheckedCmd("check", true),
		setCheckedCmd("uncheck", false),
		deleteTaskCmd(),
	)

	rootCmd.AddCommand(tasksCmd)
}

func loggedIn() (*client.Client, config.Session, error) {
	session, err := config.LoadSession()
	if err != nil {
		return nil, session, err
	}
	return client.New(config.APIURL(), session.Token), session, nil
}

// ==========================
// LIST
// ==========================
func listTasksCmd() *cobra.Command {
	var userID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks of a user (default: the logged-in user)",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := config.LoadSession()
			if userID == "" {
				if err != nil {
					return err
				}
				userID = session.UserID
			}

			var tasks []Task
			c := client.New(config.APIURL(), session.Token)
			if err := c.Do("GET", "/tasks/"+client.PathEscape(userID), nil, &tasks); err != nil {
				return err
			}

			if asJSON {
				return output.PrintJSON(cmd.OutOrStdout(), tasks)
			}
			rows := make([][]interface{}, 0, len(tasks))
			for _, t := range tasks {
				done := " "
				if t.IsChecked {
					done = "x"
				}
				rows = append(rows, []interface{}{t.ID, done, t.Task})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Done", "Task"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id whose tasks to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")
	return cmd
}

// ==========================
// ADD
// ==========================
func addTaskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task for the logged-in user",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, session, err := loggedIn()
			if err != nil {
				return err
			}

			payload := map[string]string{
				"user_id": session.UserID,
				"task":    strings.Join(args, " "),
			}
			var out messageResponse
			if err := c.Do("POST", "/tasks", payload, &out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %s)\n", out.Message, out.TaskID)
			return nil
		},
	}
}

// ==========================
// CHECK / UNCHECK
// ==========================
func setCheckedCmd(name string, checked bool) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: fmt.Sprintf("Mark a task as %sed", name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := loggedIn()
			if err != nil {
				return err
			}

			var out messageResponse
			if err := c.Do("PATCH", "/tasks/"+client.PathEscape(args[0]), map[string]bool{"isChecked": checked}, &out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return nil
		},
	}
}

// ==========================
// DELETE
// ==========================
func deleteTaskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := loggedIn()
			if err != nil {
				return err
			}

			var out messageResponse
			if err := c.Do("DELETE", "/tasks/"+client.PathEscape(args[0]), nil, &out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return nil
		},
	}
}
