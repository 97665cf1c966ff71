package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/magic-cli-dev/magic/internal/pkgcache"
	"github.com/magic-cli-dev/magic/internal/platform"
	"github.com/magic-cli-dev/magic/internal/registry"
	"github.com/magic-cli-dev/magic/internal/shell"
)

const (
	tmpDirName = ".tmp"

	// maxParallel bounds concurrent package installs within one request.
	maxParallel = 4
)

// depsScript installs a package's runtime dependencies in its directory.
const depsScript = "npm install --omit=dev --no-package-lock --no-audit --no-fund"

// PackumentSource fetches registry documents. *registry.Client implements it.
type PackumentSource interface {
	FetchPackument(ctx context.Context, name, registryURL string) (*registry.Packument, error)
}

// ScriptRunner runs an allow-listed shell command. *shell.Policy implements it.
type ScriptRunner interface {
	Run(ctx context.Context, dir, script string, stdio shell.IO) error
}

// Tarball installs packages from registry tarballs. It implements
// pkgcache.Installer.
type Tarball struct {
	source     PackumentSource
	httpClient *http.Client
	scripts    ScriptRunner
	scriptIO   shell.IO
	withDeps   bool
	logger     logr.Logger
	lookPath   func(string) (string, error)
}

var _ pkgcache.Installer = (*Tarball)(nil)

// Option configures a Tarball installer.
type Option func(*Tarball)

// WithRegistry sets the source of registry documents.
func WithRegistry(src PackumentSource) Option {
	return func(t *Tarball) {
		t.source = src
	}
}

// WithHTTPClient sets the client tarballs are downloaded with.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Tarball) {
		t.httpClient = c
	}
}

// WithPolicy sets the runner dependency installs go through.
func WithPolicy(r ScriptRunner) Option {
	return func(t *Tarball) {
		t.scripts = r
	}
}

// WithScriptIO sets the streams dependency installs write to.
func WithScriptIO(stdio shell.IO) Option {
	return func(t *Tarball) {
		t.scriptIO = stdio
	}
}

// WithoutDependencies skips installing runtime dependencies.
func WithoutDependencies() Option {
	return func(t *Tarball) {
		t.withDeps = false
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(t *Tarball) {
		t.logger = l
	}
}

// New returns a Tarball installer reading from the mirror registry.
func New(opts ...Option) *Tarball {
	t := &Tarball{
		httpClient: &http.Client{Timeout: 5 * registry.DefaultTimeout},
		withDeps:   true,
		logger:     logr.Discard(),
		lookPath:   exec.LookPath,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.source == nil {
		t.source = registry.NewClient(registry.WithLogger(t.logger))
	}
	if t.scripts == nil {
		t.scripts = shell.NewPolicy()
	}
	return t
}

// Install materializes every package in req under req.StoreDir and links it
// into req.Root's node_modules.
func (t *Tarball) Install(ctx context.Context, req pkgcache.InstallRequest) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for _, ref := range req.Packages {
		g.Go(func() error {
			return t.installOne(ctx, req, ref)
		})
	}
	return g.Wait()
}

func (t *Tarball) installOne(ctx context.Context, req pkgcache.InstallRequest, ref pkgcache.PackageRef) error {
	key, err := pkgcache.CacheKey(ref.Name, ref.Version)
	if err != nil {
		return err
	}
	dir := filepath.Join(req.StoreDir, filepath.FromSlash(key))

	doc, err := t.source.FetchPackument(ctx, ref.Name, req.Registry)
	if err != nil {
		return err
	}
	meta, ok := doc.Versions[ref.Version]
	if !ok {
		return &registry.VersionNotFoundError{Package: ref.Name, Version: ref.Version}
	}
	if meta.Deprecated != "" {
		t.logger.Info("package version is deprecated", "package", ref.Name, "version", ref.Version, "reason", meta.Deprecated)
	}

	created := false
	if _, err := os.Stat(dir); err == nil {
		t.logger.V(1).Info("package already unpacked", "package", ref.Name, "dir", dir)
	} else {
		created, err = t.unpack(ctx, req.StoreDir, dir, ref, meta)
		if err != nil {
			return err
		}
	}

	link := filepath.Join(req.Root, "node_modules", filepath.FromSlash(ref.Name))
	if link != dir {
		if err := platform.CreateDirLink(dir, link); err != nil {
			if created {
				os.RemoveAll(dir)
			}
			return fmt.Errorf("linking %s: %w", ref.Name, err)
		}
	}
	return nil
}

// unpack downloads and verifies the tarball, extracts it into a staging
// directory, installs its dependencies there, and moves the result onto dir.
// dir only appears once every step succeeded. created is false when another
// installer moved the same key into place first.
func (t *Tarball) unpack(ctx context.Context, storeDir, dir string, ref pkgcache.PackageRef, meta registry.VersionMetadata) (created bool, err error) {
	dist := meta.Dist
	if dist.Tarball == "" {
		return false, fmt.Errorf("%s@%s: registry document has no tarball", ref.Name, ref.Version)
	}

	tmpDir := filepath.Join(storeDir, tmpDirName)
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		return false, fmt.Errorf("creating temp directory: %w", err)
	}

	archive, err := t.download(ctx, tmpDir, ref, dist)
	if err != nil {
		return false, err
	}
	defer os.Remove(archive)

	staging, err := os.MkdirTemp(tmpDir, "extract-*")
	if err != nil {
		return false, fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := extractTarball(archive, staging); err != nil {
		return false, fmt.Errorf("%s@%s: %w", ref.Name, ref.Version, err)
	}

	if t.withDeps && len(meta.Dependencies) > 0 {
		if err := t.installDeps(ctx, staging, ref); err != nil {
			return false, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
		return false, fmt.Errorf("creating %s: %w", filepath.Dir(dir), err)
	}
	if err := os.Rename(staging, dir); err != nil {
		if _, statErr := os.Stat(dir); statErr == nil {
			return false, nil
		}
		return false, fmt.Errorf("moving %s into place: %w", ref.Name, err)
	}
	t.logger.V(1).Info("unpacked package", "package", ref.Name, "version", ref.Version, "dir", dir)
	return true, nil
}

// download writes the tarball to a temp file under tmpDir, hashing it on the
// way, and returns the file's path.
func (t *Tarball) download(ctx context.Context, tmpDir string, ref pkgcache.PackageRef, dist registry.Dist) (string, error) {
	want, err := expectedDigest(dist)
	if err != nil {
		return "", fmt.Errorf("%s@%s: %w", ref.Name, ref.Version, err)
	}
	if want == nil {
		t.logger.Info("registry published no checksum, skipping verification", "package", ref.Name, "version", ref.Version)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dist.Tarball, nil)
	if err != nil {
		return "", fmt.Errorf("creating download request: %w", err)
	}
	t.logger.V(1).Info("downloading tarball", "package", ref.Name, "url", dist.Tarball)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", dist.Tarball, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download of %s returned status %d", dist.Tarball, resp.StatusCode)
	}

	f, err := os.CreateTemp(tmpDir, "*.tgz")
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}

	var w io.Writer = f
	if want != nil {
		w = io.MultiWriter(f, want.h)
	}
	_, copyErr := io.Copy(w, resp.Body)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing download: %w", err)
	}

	if want != nil {
		if err := want.verify(ref.Name + "@" + ref.Version); err != nil {
			os.Remove(f.Name())
			return "", err
		}
	}
	return f.Name(), nil
}

// installDeps runs npm in dir. A missing node or npm only warns; the package
// may still work without its dependencies.
func (t *Tarball) installDeps(ctx context.Context, dir string, ref pkgcache.PackageRef) error {
	for _, bin := range []string{"node", "npm"} {
		if _, err := t.lookPath(bin); err != nil {
			t.logger.Info("cannot install dependencies: "+bin+" not found on PATH", "package", ref.Name)
			return nil
		}
	}
	t.logger.V(1).Info("installing dependencies", "package", ref.Name, "dir", dir)
	if err := t.scripts.Run(ctx, dir, depsScript, t.scriptIO); err != nil {
		return fmt.Errorf("installing dependencies of %s: %w", ref.Name, err)
	}
	return nil
}
