package cli

import (
	"os"

	"github.com/magic-cli-dev/magic/internal/branding"
	"github.com/magic-cli-dev/magic/internal/config"
	"github.com/magic-cli-dev/magic/internal/dispatch"
	"github.com/magic-cli-dev/magic/internal/installer"
	"github.com/magic-cli-dev/magic/internal/pkgcache"
	"github.com/magic-cli-dev/magic/internal/registry"
	"github.com/magic-cli-dev/magic/internal/runtime"
	"github.com/magic-cli-dev/magic/internal/shell"
)

// registryURL is the configured registry, falling back to the mirror or the
// original registry.
func registryURL(s *config.Settings) string {
	if s.Registry != "" {
		return s.Registry
	}
	return registry.DefaultRegistry(s.UseOriginalRegistry)
}

// userAgent identifies this build to the registry.
func userAgent() string {
	return branding.CLIName() + "/" + buildVersion
}

func dispatchConfig(s *config.Settings) dispatch.Config {
	return dispatch.Config{
		TargetPath: s.TargetPath,
		HomePath:   s.HomePath,
	}
}

// configuredCommands converts the config file's command table.
func configuredCommands(s *config.Settings) map[string]dispatch.Command {
	out := make(map[string]dispatch.Command, len(s.Commands))
	for name, c := range s.Commands {
		out[name] = dispatch.Command{Name: name, Package: c.Package, Version: c.Version, Hooks: c.Hooks}
	}
	return out
}

// newDispatcher wires the registry, installer, cache, and Node runtime for
// one invocation.
func newDispatcher(s *config.Settings) *dispatch.Dispatcher {
	cfg := dispatchConfig(s)
	reg := registryURL(s)
	policy := shell.NewPolicy()
	stderrIO := shell.IO{Stdout: os.Stderr, Stderr: os.Stderr}

	client := registry.NewClient(
		registry.WithBaseURL(reg),
		registry.WithUserAgent(userAgent()),
		registry.WithLogger(logger),
	)
	inst := installer.New(
		installer.WithRegistry(client),
		installer.WithPolicy(policy),
		installer.WithScriptIO(stderrIO),
		installer.WithLogger(logger),
	)
	cache := pkgcache.New(client, inst,
		pkgcache.WithRegistry(reg),
		pkgcache.WithLogger(logger),
	)
	node := &runtime.Node{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	}

	return dispatch.New(cfg, cache, node,
		dispatch.WithCommands(configuredCommands(s)),
		dispatch.WithPolicy(policy),
		dispatch.WithHookIO(stderrIO),
		dispatch.WithLogger(logger),
	)
}
