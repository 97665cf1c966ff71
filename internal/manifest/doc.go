// Package manifest reads package.json manifests. It finds the manifest that
// governs a directory, validates it against an embedded JSON schema, and
// resolves the package's declared entry file.
package manifest
