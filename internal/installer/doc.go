// Package installer materializes registry packages into a package store.
//
// Each package is downloaded as the tarball its registry document points to,
// checked against the published integrity, unpacked under its cache key, and
// linked into the requesting root's node_modules. Runtime dependencies of a
// package are installed by npm in the package directory.
package installer
