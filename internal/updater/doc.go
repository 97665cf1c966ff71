// Package updater tells the user when a newer compatible release of the CLI
// is published on the registry. The check result is cached for a day and
// refreshed in the background, so it never delays a command.
package updater
