package updater

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/magic-cli-dev/magic/internal/branding"
	"github.com/magic-cli-dev/magic/internal/registry"
)

// VersionSource fetches a package's published versions.
// *registry.Client implements it.
type VersionSource interface {
	FetchVersions(ctx context.Context, name, registryURL string) (registry.VersionManifest, error)
}

// Updater checks the registry for newer releases of the CLI.
type Updater struct {
	currentVersion string
	pkg            string
	source         VersionSource
	registryURL    string
	logger         logr.Logger
	now            func() time.Time
}

// Option configures an Updater.
type Option func(*Updater)

// WithSource sets where versions are read from.
func WithSource(src VersionSource) Option {
	return func(u *Updater) {
		u.source = src
	}
}

// WithRegistryURL sets the registry queried. Empty means the source's default.
func WithRegistryURL(url string) Option {
	return func(u *Updater) {
		u.registryURL = url
	}
}

// WithPackage overrides the package name checked.
func WithPackage(name string) Option {
	return func(u *Updater) {
		u.pkg = name
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(u *Updater) {
		u.logger = l
	}
}

// New creates an Updater for the running version.
func New(currentVersion string, opts ...Option) *Updater {
	u := &Updater{
		currentVersion: currentVersion,
		pkg:            branding.NpmName(),
		logger:         logr.Discard(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.source == nil {
		u.source = registry.NewClient(registry.WithLogger(u.logger))
	}
	return u
}

// CurrentVersion returns the version this updater was created with.
func (u *Updater) CurrentVersion() string {
	return u.currentVersion
}

// Package returns the registry package the CLI is published as.
func (u *Updater) Package() string {
	return u.pkg
}

// Check queries the registry and returns the result without caching it.
// Only releases compatible with the running major version count as updates.
func (u *Updater) Check(ctx context.Context) (*VersionCache, error) {
	manifest, err := u.source.FetchVersions(ctx, u.pkg, u.registryURL)
	if err != nil {
		return nil, err
	}
	newer, err := registry.ResolveSatisfying(u.currentVersion, registry.Versions(manifest))
	if err != nil {
		return nil, fmt.Errorf("checking for updates: %w", err)
	}

	result := &VersionCache{
		Package:        u.pkg,
		LatestVersion:  u.currentVersion,
		CurrentVersion: u.currentVersion,
		CheckedAt:      u.now(),
	}
	if len(newer) > 0 {
		result.LatestVersion = newer[0]
		result.UpdateAvailable = true
	}
	u.logger.V(1).Info("update check", "package", u.pkg, "current", u.currentVersion,
		"latest", result.LatestVersion)
	return result, nil
}

// Refresh runs Check and stores the result in configDir.
func (u *Updater) Refresh(ctx context.Context, configDir string) (*VersionCache, error) {
	result, err := u.Check(ctx)
	if err != nil {
		return nil, err
	}
	if err := SaveCache(configDir, result); err != nil {
		return nil, err
	}
	return result, nil
}
