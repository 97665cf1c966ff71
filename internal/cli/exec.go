package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/magic-cli-dev/magic/internal/dispatch"
)

func init() {
	rootCmd.AddCommand(execCmd)
}

var execCmd = &cobra.Command{
	Use:   "exec <command> [args...]",
	Short: "Run a configured command package",
	Long: `Runs any command from the command table with positional arguments only.

Commands are configured under "commands" in the config file:

  commands:
    add: "@acme/add"
    publish:
      package: "@acme/publish"
      version: "1.2.0"
      hooks:
        - npm run build`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := newDispatcher(settings)
		name := args[0]
		if _, ok := d.Commands()[name]; !ok {
			return fmt.Errorf("%w: %s (known: %s)", dispatch.ErrUnknownCommand, name,
				strings.Join(dispatch.CommandNames(d.Commands()), ", "))
		}
		return d.Dispatch(cmd.Context(), dispatch.Invocation{
			Command: name,
			Args:    args[1:],
			Options: map[string]any{},
		})
	},
}
