package registry

// VersionManifest maps a published version string to its metadata.
type VersionManifest map[string]VersionMetadata

// Packument is the registry document for one package name.
type Packument struct {
	Name     string            `json:"name"`
	DistTags map[string]string `json:"dist-tags,omitempty"`
	Versions VersionManifest   `json:"versions"`
}

// VersionMetadata is the subset of a version's package.json (plus dist info)
// that the cache and installer consume.
type VersionMetadata struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Main         string            `json:"main,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
	Deprecated   string            `json:"deprecated,omitempty"`
	Dist         Dist              `json:"dist"`
}

// Dist describes where a version's tarball lives and how to verify it.
type Dist struct {
	Tarball   string `json:"tarball"`
	Shasum    string `json:"shasum,omitempty"`
	Integrity string `json:"integrity,omitempty"`
}

// Versions returns the version strings present in m, in no particular order.
func Versions(m VersionManifest) []string {
	out := make([]string, 0, len(m))
	for v := range m {
		out = append(out, v)
	}
	return out
}
