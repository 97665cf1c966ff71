package cli

import (
	"github.com/spf13/cobra"

	"github.com/magic-cli-dev/magic/internal/dispatch"
)

func init() {
	initCmd.Flags().BoolP("force", "f", false, "overwrite the target directory if it is not empty")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [projectName]",
	Short: "Create a new project from the init package",
	Long: `Runs the init command package. The package is downloaded from the registry
on first use and refreshed to its latest version on later runs.

Set --target-path to run a local checkout of the package instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newDispatcher(settings).Dispatch(cmd.Context(), dispatch.Invocation{
			Command: "init",
			Args:    args,
			Options: collectOptions(cmd.LocalFlags()),
		})
	},
}
