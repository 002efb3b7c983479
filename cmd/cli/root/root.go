package root

import (
	"github.com/spf13/cobra"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:           "taskctl",
	Short:         "Taskboard CLI",
	Long:          "Command line interface for the taskboard API. Set TASKBOARD_API_URL to target a server other than http://localhost:4001.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// GetRoot returns the RootCmd.
func GetRoot() *cobra.Command {
	return RootCmd
}
