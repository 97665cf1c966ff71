package pkgcache

import "fmt"

// LatestVersion is the symbolic version spec resolved against the registry.
const LatestVersion = "latest"

// Mode distinguishes linked descriptors from cached ones.
type Mode int

const (
	// ModeLinked points at a local directory; nothing is resolved or installed.
	ModeLinked Mode = iota + 1
	// ModeCached lives in a store directory keyed by name and resolved version.
	ModeCached
)

func (m Mode) String() string {
	switch m {
	case ModeLinked:
		return "linked"
	case ModeCached:
		return "cached"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Descriptor identifies one package to materialize. Build it with NewLinked or
// NewCached.
type Descriptor struct {
	// Name is the registry name, possibly scoped ("@scope/init").
	Name string
	// VersionSpec is "latest" or an exact version.
	VersionSpec string
	// TargetPath is the linked directory, or the root the cached package is
	// installed for.
	TargetPath string
	// StoreDir holds cached package trees. Empty for linked descriptors.
	StoreDir string

	mode     Mode
	resolved string
}

// NewLinked returns a descriptor for a package checked out at path.
func NewLinked(name, path string) *Descriptor {
	return &Descriptor{Name: name, TargetPath: path, mode: ModeLinked}
}

// NewCached returns a descriptor for a package kept in storeDir. An empty
// versionSpec means latest; any other non-latest spec is taken as an exact
// version and counts as already resolved.
func NewCached(name, versionSpec, targetPath, storeDir string) *Descriptor {
	if versionSpec == "" {
		versionSpec = LatestVersion
	}
	d := &Descriptor{
		Name:        name,
		VersionSpec: versionSpec,
		TargetPath:  targetPath,
		StoreDir:    storeDir,
		mode:        ModeCached,
	}
	if !d.Symbolic() {
		d.resolved = versionSpec
	}
	return d
}

// Mode reports whether d is linked or cached.
func (d *Descriptor) Mode() Mode {
	return d.mode
}

// Symbolic reports whether the version spec still needs registry resolution.
func (d *Descriptor) Symbolic() bool {
	return d.VersionSpec == LatestVersion
}

// ResolvedVersion returns the concrete version, or "" while unresolved.
func (d *Descriptor) ResolvedVersion() string {
	return d.resolved
}

// Key returns the cache key for d's resolved version.
func (d *Descriptor) Key() (string, error) {
	if d.mode != ModeCached {
		return "", fmt.Errorf("%s: linked packages have no cache key", d.Name)
	}
	return CacheKey(d.Name, d.resolved)
}

func (d *Descriptor) String() string {
	if d.mode == ModeLinked {
		return fmt.Sprintf("%s (linked %s)", d.Name, d.TargetPath)
	}
	if d.resolved != "" {
		return d.Name + "@" + d.resolved
	}
	return d.Name + "@" + d.VersionSpec
}
