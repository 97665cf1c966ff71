package dispatch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/magic-cli-dev/magic/internal/manifest"
	"github.com/magic-cli-dev/magic/internal/pkgcache"
	"github.com/magic-cli-dev/magic/internal/runtime"
	"github.com/magic-cli-dev/magic/internal/shell"
)

// DefaultCacheDir is the directory under the home path that holds cached
// command packages.
const DefaultCacheDir = "dependencies"

// Config is the environment a Dispatcher runs in.
type Config struct {
	// TargetPath, when set, points at a local package checkout that is used
	// as is.
	TargetPath string
	HomePath   string
}

// Root returns the directory cached packages are installed for.
func (c Config) Root() string {
	return filepath.Join(c.HomePath, DefaultCacheDir)
}

// StoreDir returns the directory holding keyed package trees.
func (c Config) StoreDir() string {
	return filepath.Join(c.Root(), "node_modules")
}

// Store materializes package descriptors. *pkgcache.Cache implements it.
type Store interface {
	Exists(ctx context.Context, d *pkgcache.Descriptor) (bool, error)
	Install(ctx context.Context, d *pkgcache.Descriptor) error
	Update(ctx context.Context, d *pkgcache.Descriptor) error
	Path(d *pkgcache.Descriptor) (string, error)
}

// HookPolicy vets and runs command hooks. *shell.Policy implements it.
type HookPolicy interface {
	Check(script string) error
	Run(ctx context.Context, dir, script string, stdio shell.IO) error
}

// Dispatcher runs sub-commands backed by packages.
type Dispatcher struct {
	cfg      Config
	store    Store
	runner   runtime.Runtime
	commands map[string]Command
	policy   HookPolicy
	hookIO   shell.IO
	logger   logr.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithCommands adds or replaces entries in the default command table.
func WithCommands(commands map[string]Command) Option {
	return func(d *Dispatcher) {
		d.commands = MergeCommands(d.commands, commands)
	}
}

// WithPolicy sets the policy hooks are checked and run with.
func WithPolicy(p HookPolicy) Option {
	return func(d *Dispatcher) {
		d.policy = p
	}
}

// WithHookIO sets the streams hooks run with. The default is the process's
// own streams.
func WithHookIO(stdio shell.IO) Option {
	return func(d *Dispatcher) {
		d.hookIO = stdio
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// New returns a Dispatcher over store and runner.
func New(cfg Config, store Store, runner runtime.Runtime, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		cfg:      cfg,
		store:    store,
		runner:   runner,
		commands: DefaultCommands(),
		policy:   shell.NewPolicy(),
		logger:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Commands returns the command table.
func (d *Dispatcher) Commands() map[string]Command {
	return MergeCommands(nil, d.commands)
}

// Descriptor returns the package descriptor cmd resolves to under the
// dispatcher's configuration.
func (d *Dispatcher) Descriptor(cmd Command) *pkgcache.Descriptor {
	if d.cfg.TargetPath != "" {
		return pkgcache.NewLinked(cmd.Package, d.cfg.TargetPath)
	}
	return pkgcache.NewCached(cmd.Package, cmd.Version, d.cfg.Root(), d.cfg.StoreDir())
}

// Dispatch resolves inv's command to its package, makes sure the package is
// present and current, and runs its entry file. A child that exits non-zero
// yields *ExitError.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation) error {
	cmd, ok := d.commands[inv.Command]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, inv.Command)
	}

	for _, hook := range cmd.Hooks {
		if err := d.policy.Check(hook); err != nil {
			return fmt.Errorf("command %s: %w", cmd.Name, err)
		}
	}

	d.logger.V(1).Info("dispatching", "command", cmd.Name, "package", cmd.Package,
		"targetPath", d.cfg.TargetPath, "homePath", d.cfg.HomePath)

	pkg := d.Descriptor(cmd)
	if pkg.Mode() == pkgcache.ModeCached {
		if err := d.materialize(ctx, pkg); err != nil {
			return err
		}
	}

	dir, err := d.store.Path(pkg)
	if err != nil {
		return err
	}
	entry, err := manifest.Locate(dir)
	if err != nil {
		return fmt.Errorf("command %s: %w", cmd.Name, err)
	}
	if entry == "" {
		return &EntryNotFoundError{Command: cmd.Name, Root: dir}
	}

	for _, hook := range cmd.Hooks {
		d.logger.V(1).Info("running hook", "command", cmd.Name, "hook", hook)
		if err := d.policy.Run(ctx, dir, hook, d.hookIO); err != nil {
			return fmt.Errorf("command %s: hook %q: %w", cmd.Name, hook, err)
		}
	}

	d.logger.V(1).Info("executing entry", "command", cmd.Name, "entry", entry)
	out, err := d.runner.Run(ctx, entry, Sanitize(inv))
	if err != nil {
		return err
	}
	if out.ExitCode != 0 {
		return &ExitError{Command: cmd.Name, Code: out.ExitCode}
	}
	d.logger.V(1).Info("command finished", "command", cmd.Name)
	return nil
}

func (d *Dispatcher) materialize(ctx context.Context, pkg *pkgcache.Descriptor) error {
	exists, err := d.store.Exists(ctx, pkg)
	if err != nil {
		return err
	}
	if exists {
		return d.store.Update(ctx, pkg)
	}
	return d.store.Install(ctx, pkg)
}
