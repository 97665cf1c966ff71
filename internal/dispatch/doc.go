// Package dispatch maps a sub-command to the package that implements it,
// materializes that package, and runs its entry file in a child process with
// the invocation's arguments.
package dispatch
