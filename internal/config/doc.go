// Package config manages user-level settings stored at ~/.magic-cli/config.yaml.
// Load bootstraps the environment (user home check, ~/.env) and returns the
// resolved Settings for one invocation; Get and Set back the config command.
package config
