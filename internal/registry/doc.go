// Package registry talks to npm-compatible package registries. It fetches a
// package's version manifest over HTTP and resolves concrete versions from it
// using semantic-version ordering.
package registry
