// Package pkgcache materializes registry packages into a local, versioned
// store directory.
//
// Every (name, version) pair owns one directory under the store, named by
// CacheKey:
//
//	<storeDir>/_<name with "/" replaced by "_">@<version>@<name>/
//
// A Descriptor either points at a linked local directory, which is used as
// is, or at a cached package whose symbolic "latest" spec is resolved against
// the registry before any path is computed. Installs and updates of one key
// are serialized across processes by a file lock under <storeDir>/.locks.
package pkgcache
