package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/magic-cli-dev/magic/internal/pkgcache"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cachePathCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the local package cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached command packages",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := pkgcache.List(dispatchConfig(settings).StoreDir())
		if err != nil {
			return fmt.Errorf("listing cache: %w", err)
		}
		printEntries(cmd.OutOrStdout(), entries)
		return nil
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the package store directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), dispatchConfig(settings).StoreDir())
		return nil
	},
}

func printEntries(w io.Writer, entries []pkgcache.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No cached packages."))
		return
	}

	width := len("PACKAGE")
	for _, e := range entries {
		width = max(width, len(e.Name))
	}
	row := lipgloss.NewStyle().Width(width + 2)

	fmt.Fprintln(w, headerStyle.Render(row.Render("PACKAGE")+"VERSION"))
	for _, e := range entries {
		fmt.Fprintln(w, row.Render(e.Name)+e.Version)
	}
}
