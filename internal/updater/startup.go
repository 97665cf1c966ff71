package updater

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/magic-cli-dev/magic/internal/registry"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#F59E0B")).
			Padding(0, 1)
	versionStyle = lipgloss.NewStyle().Bold(true)
	cmdStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
)

// CheckAndPrintBanner prints an update banner from the cached check and, if
// the cache is stale, refreshes it in the background for the next run. It
// never blocks on the network. The returned channel closes when any refresh
// has finished.
func (u *Updater) CheckAndPrintBanner(w io.Writer, configDir string) <-chan struct{} {
	done := make(chan struct{})

	if _, err := registry.IsNewer(u.currentVersion, u.currentVersion); err != nil {
		// Development builds carry no comparable version.
		close(done)
		return done
	}

	cache, err := LoadCache(configDir)
	if err != nil {
		u.logger.V(1).Info("ignoring unreadable version cache", "error", err.Error())
		cache = nil
	}

	if cache != nil && cache.UpdateAvailable && cache.CurrentVersion == u.currentVersion {
		PrintUpdateBanner(w, u.pkg, cache.CurrentVersion, cache.LatestVersion)
	}

	if !IsCacheStale(cache, u.pkg, u.currentVersion, DefaultCacheMaxAge) {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), registry.DefaultTimeout)
		defer cancel()
		if _, err := u.Refresh(ctx, configDir); err != nil {
			u.logger.V(1).Info("update check failed", "error", err.Error())
		}
	}()
	return done
}

// PrintUpdateBanner prints the update notification to w.
func PrintUpdateBanner(w io.Writer, pkg, current, latest string) {
	msg := fmt.Sprintf("Update available %s → %s\nRun %s to upgrade",
		current, versionStyle.Render(latest), cmdStyle.Render("npm install -g "+pkg))
	fmt.Fprintln(w, bannerStyle.Render(msg))
}
