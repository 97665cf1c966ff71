// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. Hard defaults cover an empty or partial file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	GoModule    string `yaml:"go_module"`
	NpmName     string `yaml:"npm_name"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:     "magic",
			DisplayName: "Magic CLI",
			Description: "Resolve, cache, and run versioned command packages",
			HomeDir:     ".magic-cli",
			EnvPrefix:   "MAGIC_CLI",
			GoModule:    "github.com/magic-cli-dev/magic",
			NpmName:     "@magic-cli-dev/core",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "magic").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".magic-cli").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "MAGIC_CLI").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// NpmName returns the registry package name the CLI's releases are published
// under. The update notice checks this package.
func NpmName() string { load(); return defaults.NpmName }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("home") → "MAGIC_CLI_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
