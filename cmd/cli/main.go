package main

import (
	"fmt"
	"os"

	"github.com/crucial707/taskboard/cmd/cli/auth"
	"github.com/crucial707/taskboard/cmd/cli/root"
	"github.com/crucial707/taskboard/cmd/cli/tasks"
	"github.com/crucial707/taskboard/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	users.InitUsers(rootCmd)
	tasks.InitTasks(rootCmd)

	// Execute the root Cobra command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
