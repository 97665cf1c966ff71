package pkgcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/magic-cli-dev/magic/internal/registry"
)

const (
	locksDirName = ".locks"
)

// VersionSource fetches a package's published versions.
type VersionSource interface {
	FetchVersions(ctx context.Context, name, registryURL string) (registry.VersionManifest, error)
}

// PackageRef is one package an installer must materialize.
type PackageRef struct {
	Name    string
	Version string
}

// InstallRequest is handed to an Installer. Root is the directory whose
// node_modules should expose the packages; StoreDir holds the keyed trees.
type InstallRequest struct {
	Root     string
	StoreDir string
	Registry string
	Packages []PackageRef
}

// Installer materializes packages into a store directory.
type Installer interface {
	Install(ctx context.Context, req InstallRequest) error
}

// Cache resolves descriptors and keeps their package trees on disk.
type Cache struct {
	versions  VersionSource
	installer Installer
	registry  string
	logger    logr.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithRegistry sets the registry URL passed to the version source and
// installer. Empty means the version source's default.
func WithRegistry(url string) Option {
	return func(c *Cache) {
		c.registry = url
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(c *Cache) {
		c.logger = l
	}
}

// New returns a Cache that resolves versions through versions and
// materializes packages through installer.
func New(versions VersionSource, installer Installer, opts ...Option) *Cache {
	c := &Cache{
		versions:  versions,
		installer: installer,
		logger:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve replaces a symbolic "latest" spec with the registry's highest
// version. Descriptors that are linked or already resolved are left alone.
func (c *Cache) Resolve(ctx context.Context, d *Descriptor) error {
	if d.Mode() != ModeCached || d.resolved != "" {
		return nil
	}
	latest, err := c.latest(ctx, d.Name)
	if err != nil {
		return err
	}
	d.resolved = latest
	return nil
}

// Path returns where d's files live: the linked directory, or the key's
// directory under the store.
func (c *Cache) Path(d *Descriptor) (string, error) {
	if d.Mode() == ModeLinked {
		return d.TargetPath, nil
	}
	key, err := d.Key()
	if err != nil {
		return "", err
	}
	return filepath.Join(d.StoreDir, filepath.FromSlash(key)), nil
}

// Exists reports whether d is materialized. Cached descriptors are resolved
// first. The answer is computed from the filesystem on every call.
func (c *Cache) Exists(ctx context.Context, d *Descriptor) (bool, error) {
	if err := c.Resolve(ctx, d); err != nil {
		return false, err
	}
	p, err := c.Path(d)
	if err != nil {
		return false, err
	}
	return dirExists(p), nil
}

// Install resolves d and hands it to the installer. Callers check Exists
// first; the only guard here is for another process finishing the same key
// while this one waited for the lock.
func (c *Cache) Install(ctx context.Context, d *Descriptor) error {
	if d.Mode() == ModeLinked {
		c.logger.V(1).Info("linked package, nothing to install", "package", d.Name, "path", d.TargetPath)
		return nil
	}
	if err := c.Resolve(ctx, d); err != nil {
		return err
	}
	return c.installLocked(ctx, d, d.resolved)
}

// Update moves d to the registry's current latest version, installing it if
// that version is not cached yet. An already-cached latest is never
// reinstalled. Pinned descriptors only make sure their version is present.
func (c *Cache) Update(ctx context.Context, d *Descriptor) error {
	if d.Mode() == ModeLinked {
		return nil
	}

	target := d.resolved
	if d.Symbolic() {
		latest, err := c.latest(ctx, d.Name)
		if err != nil {
			return err
		}
		target = latest
	}

	key, err := CacheKey(d.Name, target)
	if err != nil {
		return err
	}
	if !dirExists(filepath.Join(d.StoreDir, filepath.FromSlash(key))) {
		if err := c.installLocked(ctx, d, target); err != nil {
			return err
		}
	} else {
		c.logger.V(1).Info("package up to date", "package", d.Name, "version", target)
	}

	d.resolved = target
	return nil
}

// installLocked creates the store, takes the key's lock, and runs the
// installer for version.
func (c *Cache) installLocked(ctx context.Context, d *Descriptor, version string) error {
	key, err := CacheKey(d.Name, version)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(d.StoreDir, 0755); err != nil {
		return &CacheDirError{Dir: d.StoreDir, Err: err}
	}

	unlock, err := NewLocker(filepath.Join(d.StoreDir, locksDirName)).Lock(ctx, key)
	if err != nil {
		return err
	}
	defer unlock()

	if dirExists(filepath.Join(d.StoreDir, filepath.FromSlash(key))) {
		c.logger.V(1).Info("installed by another process", "package", d.Name, "version", version)
		return nil
	}

	c.logger.Info("installing package", "package", d.Name, "version", version)
	req := InstallRequest{
		Root:     d.TargetPath,
		StoreDir: d.StoreDir,
		Registry: c.registry,
		Packages: []PackageRef{{Name: d.Name, Version: version}},
	}
	if err := c.installer.Install(ctx, req); err != nil {
		return &InstallError{Name: d.Name, Version: version, Err: err}
	}
	return nil
}

func (c *Cache) latest(ctx context.Context, name string) (string, error) {
	manifest, err := c.versions.FetchVersions(ctx, name, c.registry)
	if err != nil {
		return "", fmt.Errorf("resolving latest version of %s: %w", name, err)
	}
	latest, err := registry.ResolveLatest(registry.Versions(manifest))
	if err != nil {
		return "", fmt.Errorf("resolving latest version of %s: %w", name, err)
	}
	c.logger.V(1).Info("resolved latest version", "package", name, "version", latest)
	return latest, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
