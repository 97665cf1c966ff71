package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/magic-cli-dev/magic/internal/branding"
	"github.com/magic-cli-dev/magic/internal/config"
	"github.com/magic-cli-dev/magic/internal/logging"
	"github.com/magic-cli-dev/magic/internal/updater"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// Populated by the root pre-run for every command.
var (
	settings *config.Settings
	logger   = logr.Discard()
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` resolves each sub-command to a package on an npm registry,
keeps a local cache of that package up to date, and runs its entry file with Node.js.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.Load()
		if err != nil {
			return err
		}
		settings = s
		logger = logging.New(os.Stderr, s.LogLevel)

		if os.Geteuid() == 0 {
			logger.Info("running as root; cached packages will be owned by root")
		}
		logger.V(1).Info("configuration loaded", "home", s.HomePath, "targetPath", s.TargetPath)

		switch cmd.Name() {
		case "version", "config", "get", "set":
			return nil
		}
		u := updater.New(buildVersion,
			updater.WithRegistryURL(registryURL(s)),
			updater.WithLogger(logger))
		u.CheckAndPrintBanner(cmd.ErrOrStderr(), s.HomePath)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "enable verbose logging")
	rootCmd.PersistentFlags().String("target-path", "", "run commands from a local package directory instead of the cache")
	_ = viper.BindPFlag(config.KeyDebug, rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag(config.KeyTargetPath, rootCmd.PersistentFlags().Lookup("target-path"))
}

func versionString() string {
	if buildVersion == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", buildVersion, buildCommit, buildDate)
}

// Execute runs the root command with build info injected via ldflags.
func Execute(ctx context.Context, version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return fang.Execute(ctx, rootCmd,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
}
