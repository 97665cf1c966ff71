// Package cli defines the Cobra command tree for the magic CLI. Each file in
// this package registers one top-level command with the root command.
// Commands only parse flags and format output; resolving, caching, and
// running command packages is delegated to internal/dispatch.
package cli
